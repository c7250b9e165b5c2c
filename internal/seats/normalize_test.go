package seats_test

import (
	"testing"

	"bookit/internal/seats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsMissingSeats(t *testing.T) {
	m := seats.Normalize(nil, 3)

	require.Len(t, m, 3)
	for i, seat := range m {
		assert.Equal(t, i+1, seat.ID)
		assert.Equal(t, "", seat.Label)
		assert.Equal(t, 0.0, seat.Price)
		assert.NotNil(t, seat.Bookings)
		assert.Empty(t, seat.Bookings)
	}
}

func TestNormalizePreservesExistingContent(t *testing.T) {
	in := seats.SeatMap{
		{ID: 1, Label: "A1", Price: 12.5, Bookings: []seats.Booking{{Date: "2025-06-01", StartTime: "10:00", Hours: 2}}},
		{ID: 2, Label: "A2", Price: 10},
	}

	out := seats.Normalize(in, 4)

	require.Len(t, out, 4)
	assert.Equal(t, "A1", out[0].Label)
	assert.Equal(t, 12.5, out[0].Price)
	assert.Len(t, out[0].Bookings, 1)
	assert.Equal(t, "A2", out[1].Label)
	// nil bookings on existing seats become empty slices
	assert.NotNil(t, out[1].Bookings)
	assert.Equal(t, 3, out[2].ID)
	assert.Equal(t, 4, out[3].ID)
}

func TestNormalizeIsIdempotent(t *testing.T) {
	in := seats.SeatMap{
		{ID: 1, Label: "A1", Price: 5, Bookings: []seats.Booking{}},
		{ID: 2, Label: "A2", Price: 5, Bookings: []seats.Booking{}},
	}

	once := seats.Normalize(in, 2)
	twice := seats.Normalize(once, 2)

	assert.Equal(t, once, twice)
}

func TestNormalizeRepairsOutOfOrderIDs(t *testing.T) {
	in := seats.SeatMap{{ID: 7, Label: "X"}, {ID: 0, Label: "Y"}}

	out := seats.Normalize(in, 2)

	assert.Equal(t, 1, out[0].ID)
	assert.Equal(t, 2, out[1].ID)
	assert.Equal(t, "X", out[0].Label)
	assert.Equal(t, "Y", out[1].Label)
}

func TestTargetLengthTakesMax(t *testing.T) {
	host := make(seats.SeatMap, 5)
	venue := make(seats.SeatMap, 2)

	assert.Equal(t, 5, seats.TargetLength(3, host, venue))
	assert.Equal(t, 8, seats.TargetLength(8, host, venue))
	assert.Equal(t, 0, seats.TargetLength(0))
}
