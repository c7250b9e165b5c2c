package seats_test

import (
	"testing"

	"bookit/internal/seats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalOverlapSemantics(t *testing.T) {
	tenToTwelve, err := seats.NewInterval("10:00", 2)
	require.NoError(t, err)

	cases := []struct {
		name    string
		start   string
		hours   float64
		overlap bool
	}{
		{"contained", "10:30", 1, true},
		{"straddles start", "09:00", 2, true},
		{"straddles end", "11:00", 2, true},
		{"identical", "10:00", 2, true},
		{"touching end does not conflict", "12:00", 2, false},
		{"touching start does not conflict", "08:00", 2, false},
		{"disjoint", "14:00", 1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			other, err := seats.NewInterval(tc.start, tc.hours)
			require.NoError(t, err)
			assert.Equal(t, tc.overlap, tenToTwelve.Overlaps(other))
			// overlap detection is symmetric
			assert.Equal(t, tc.overlap, other.Overlaps(tenToTwelve))
		})
	}
}

func TestIntervalCrossMidnight(t *testing.T) {
	iv, err := seats.NewInterval("23:00", 2)
	require.NoError(t, err)

	// raw minutes, not wrapped: 23:00 + 2h = 1620
	assert.Equal(t, 1380, iv.Start)
	assert.Equal(t, 1620, iv.End)
	// the display label wraps cosmetically
	assert.Equal(t, "01:00", iv.EndLabel())

	// a late booking on the same date still conflicts with the raw interval
	late, err := seats.NewInterval("23:30", 1)
	require.NoError(t, err)
	assert.True(t, iv.Overlaps(late))

	// an early-morning booking is a different interval on the same date card,
	// never treated as wrapped into 23:00-01:00
	early, err := seats.NewInterval("00:30", 1)
	require.NoError(t, err)
	assert.False(t, iv.Overlaps(early))
}

func TestNewIntervalValidation(t *testing.T) {
	_, err := seats.NewInterval("10:00", 0)
	assert.ErrorIs(t, err, seats.ErrInvalidHours)

	_, err = seats.NewInterval("10:00", -1)
	assert.ErrorIs(t, err, seats.ErrInvalidHours)

	for _, bad := range []string{"", "10", "25:00", "10:75", "aa:bb", "10:00:00x"} {
		_, err := seats.NewInterval(bad, 1)
		assert.ErrorIs(t, err, seats.ErrInvalidTime, "input %q", bad)
	}
}

func TestNewBookingComputesDisplayEnd(t *testing.T) {
	b, err := seats.NewBooking("2025-06-01", "14:00", 2, seats.OriginUser, "user@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, "", b.ID.String())
	assert.Equal(t, "16:00", b.EndTime)
	assert.Equal(t, seats.OriginUser, b.CreatedBy)

	_, err = seats.NewBooking("06/01/2025", "14:00", 2, seats.OriginUser, "user@example.com")
	assert.ErrorIs(t, err, seats.ErrInvalidDate)
}

func TestFirstConflictMatchesDateExactly(t *testing.T) {
	seat := seats.Seat{ID: 1, Bookings: []seats.Booking{
		{Date: "2025-06-01", StartTime: "14:00", Hours: 2},
	}}

	iv, err := seats.NewInterval("15:00", 1)
	require.NoError(t, err)

	_, conflict := seat.FirstConflict("2025-06-01", iv)
	assert.True(t, conflict)

	// dates are opaque tokens: a different day never conflicts
	_, conflict = seat.FirstConflict("2025-06-02", iv)
	assert.False(t, conflict)
}

func TestCheckSeatsReportsAllFailures(t *testing.T) {
	m := seats.Normalize(nil, 2)
	require.True(t, m.AppendBooking(2, seats.Booking{Date: "2025-06-01", StartTime: "14:00", Hours: 2, CreatedBy: seats.OriginUser}))

	iv, err := seats.NewInterval("15:00", 2)
	require.NoError(t, err)

	failures := m.CheckSeats([]int{1, 2, 9}, "2025-06-01", iv)

	require.Len(t, failures, 2)
	assert.Equal(t, seats.SeatFailure{SeatID: 2, Reason: seats.ReasonSeatBooked}, failures[0])
	assert.Equal(t, seats.SeatFailure{SeatID: 9, Reason: seats.ReasonSeatNotFound}, failures[1])
}

func TestCheckSeatsHalfOpenBoundary(t *testing.T) {
	m := seats.Normalize(nil, 1)
	require.True(t, m.AppendBooking(1, seats.Booking{Date: "2025-06-01", StartTime: "14:00", Hours: 2, CreatedBy: seats.OriginUser}))

	// 16:00 for 1h touches the 14:00-16:00 booking: allowed
	free, err := seats.NewInterval("16:00", 1)
	require.NoError(t, err)
	assert.Empty(t, m.CheckSeats([]int{1}, "2025-06-01", free))

	// 15:00 for 1h overlaps: rejected
	busy, err := seats.NewInterval("15:00", 1)
	require.NoError(t, err)
	assert.Len(t, m.CheckSeats([]int{1}, "2025-06-01", busy), 1)
}

func TestRemoveBookingByID(t *testing.T) {
	b, err := seats.NewBooking("2025-06-01", "10:00", 1, seats.OriginOwner, "owner@example.com")
	require.NoError(t, err)

	m := seats.Normalize(nil, 1)
	require.True(t, m.AppendBooking(1, b))

	removed, ok := m.RemoveBooking(1, b.ID)
	require.True(t, ok)
	assert.Equal(t, b.ID, removed.ID)
	assert.Empty(t, m[0].Bookings)

	_, ok = m.RemoveBooking(1, b.ID)
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	b, err := seats.NewBooking("2025-06-01", "10:00", 1, seats.OriginUser, "user@example.com")
	require.NoError(t, err)

	orig := seats.SeatMap{{ID: 1, Bookings: []seats.Booking{b}}}
	cp := orig.Clone()
	cp.AppendBooking(1, b)

	assert.Len(t, orig[0].Bookings, 1)
	assert.Len(t, cp[0].Bookings, 2)
}
