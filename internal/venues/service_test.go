package venues_test

import (
	"context"
	"testing"

	"bookit/internal/hostrequests"
	"bookit/internal/seats"
	"bookit/internal/venues"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockVenueRepository struct {
	mock.Mock
}

func (m *mockVenueRepository) GetByID(ctx context.Context, id uuid.UUID) (*venues.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venues.Venue), args.Error(1)
}

func (m *mockVenueRepository) GetByHostRequestID(ctx context.Context, hostRequestID uuid.UUID) (*venues.Venue, error) {
	args := m.Called(ctx, hostRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*venues.Venue), args.Error(1)
}

func (m *mockVenueRepository) List(ctx context.Context, search string, page, pageSize int) ([]venues.Venue, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]venues.Venue), args.Get(1).(int64), args.Error(2)
}

func (m *mockVenueRepository) UpdateProjection(ctx context.Context, v *venues.Venue) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *mockVenueRepository) UpdateSeats(ctx context.Context, id uuid.UUID, seatMap seats.SeatMap, expectedVersion int64) error {
	args := m.Called(ctx, id, seatMap, expectedVersion)
	return args.Error(0)
}

func (m *mockVenueRepository) SaveStatusAndProjection(ctx context.Context, hr *hostrequests.HostRequest, projection *venues.Venue, remove bool) error {
	args := m.Called(ctx, hr, projection, remove)
	return args.Error(0)
}

func (m *mockVenueRepository) DeleteWithHostRequest(ctx context.Context, hostRequestID uuid.UUID) error {
	args := m.Called(ctx, hostRequestID)
	return args.Error(0)
}

type mockHostRepository struct {
	mock.Mock
}

func (m *mockHostRepository) Create(ctx context.Context, hr *hostrequests.HostRequest) error {
	args := m.Called(ctx, hr)
	return args.Error(0)
}

func (m *mockHostRepository) GetByID(ctx context.Context, id uuid.UUID) (*hostrequests.HostRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostrequests.HostRequest), args.Error(1)
}

func (m *mockHostRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]hostrequests.HostRequest, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hostrequests.HostRequest), args.Error(1)
}

func (m *mockHostRepository) GetAll(ctx context.Context, status string) ([]hostrequests.HostRequest, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hostrequests.HostRequest), args.Error(1)
}

func (m *mockHostRepository) Save(ctx context.Context, hr *hostrequests.HostRequest) error {
	args := m.Called(ctx, hr)
	return args.Error(0)
}

func (m *mockHostRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *mockHostRepository) UpdateSeats(ctx context.Context, id uuid.UUID, seatMap seats.SeatMap, expectedVersion int64) error {
	args := m.Called(ctx, id, seatMap, expectedVersion)
	return args.Error(0)
}

func (m *mockHostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newVenue(capacity int) *venues.Venue {
	return &venues.Venue{
		ID:               uuid.New(),
		HostRequestID:    uuid.New(),
		OwnerID:          uuid.New(),
		OwnerEmail:       "owner@bookit.dev",
		Name:             "Harborview Studio",
		Address:          "12 Quay Street",
		Capacity:         capacity,
		PricePerSeatHour: 10,
		Seats:            seats.Normalize(nil, capacity),
	}
}

func backingHostRequest(v *venues.Venue) *hostrequests.HostRequest {
	return &hostrequests.HostRequest{
		ID:               v.HostRequestID,
		OwnerID:          v.OwnerID,
		OwnerEmail:       v.OwnerEmail,
		Name:             v.Name,
		Address:          v.Address,
		Capacity:         v.Capacity,
		PricePerSeatHour: v.PricePerSeatHour,
		Seats:            seats.Normalize(nil, v.Capacity),
		Status:           hostrequests.StatusApproved,
	}
}

func TestBookSeatsWritesUserBookings(t *testing.T) {
	repo := new(mockVenueRepository)
	hostRepo := new(mockHostRepository)
	svc := venues.NewService(repo, hostRepo, nil)

	v := newVenue(3)
	v.SeatVersion = 7
	hr := backingHostRequest(v)

	repo.On("GetByID", mock.Anything, v.ID).Return(v, nil)

	var written seats.SeatMap
	repo.On("UpdateSeats", mock.Anything, v.ID, mock.AnythingOfType("seats.SeatMap"), int64(7)).
		Run(func(args mock.Arguments) {
			written = args.Get(2).(seats.SeatMap)
		}).
		Return(nil)

	// Merge write-back to the host document after the booking lands.
	hostRepo.On("GetByID", mock.Anything, v.HostRequestID).Return(hr, nil)
	repo.On("GetByHostRequestID", mock.Anything, v.HostRequestID).Return(v, nil)
	hostRepo.On("UpdateSeats", mock.Anything, hr.ID, mock.Anything, int64(0)).Return(nil)

	resp, err := svc.BookSeats(context.Background(), v.ID, uuid.New(), "user@bookit.dev", venues.BookSeatsRequest{
		SeatIDs:   []int{2},
		Date:      "2026-10-01",
		StartTime: "14:00",
		Hours:     2,
	})
	require.NoError(t, err)

	require.Len(t, written[1].Bookings, 1)
	b := written[1].Bookings[0]
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, "16:00", b.EndTime)
	assert.True(t, b.IsUser())
	assert.Equal(t, "user@bookit.dev", b.CreatedByEmail)

	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, []int{2}, resp.SeatIDs)
	hostRepo.AssertCalled(t, "UpdateSeats", mock.Anything, hr.ID, mock.Anything, int64(0))
}

func TestBookSeatsAllOrNothing(t *testing.T) {
	repo := new(mockVenueRepository)
	hostRepo := new(mockHostRepository)
	svc := venues.NewService(repo, hostRepo, nil)

	v := newVenue(2)
	existing, err := seats.NewBooking("2026-10-01", "14:00", 2, seats.OriginUser, "first@bookit.dev")
	require.NoError(t, err)
	v.Seats.AppendBooking(2, existing)

	repo.On("GetByID", mock.Anything, v.ID).Return(v, nil)

	_, err = svc.BookSeats(context.Background(), v.ID, uuid.New(), "second@bookit.dev", venues.BookSeatsRequest{
		SeatIDs:   []int{1, 2, 9},
		Date:      "2026-10-01",
		StartTime: "15:00",
		Hours:     1,
	})

	var conflict *seats.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Failures, 2)
	assert.Equal(t, 2, conflict.Failures[0].SeatID)
	assert.Equal(t, seats.ReasonSeatBooked, conflict.Failures[0].Reason)
	assert.Equal(t, 9, conflict.Failures[1].SeatID)
	assert.Equal(t, seats.ReasonSeatNotFound, conflict.Failures[1].Reason)
	repo.AssertNotCalled(t, "UpdateSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBookSeatsBackToBackSlots(t *testing.T) {
	repo := new(mockVenueRepository)
	hostRepo := new(mockHostRepository)
	svc := venues.NewService(repo, hostRepo, nil)

	v := newVenue(1)
	existing, err := seats.NewBooking("2026-10-01", "14:00", 2, seats.OriginUser, "first@bookit.dev")
	require.NoError(t, err)
	v.Seats.AppendBooking(1, existing)
	hr := backingHostRequest(v)

	repo.On("GetByID", mock.Anything, v.ID).Return(v, nil)
	repo.On("UpdateSeats", mock.Anything, v.ID, mock.Anything, int64(0)).Return(nil)
	hostRepo.On("GetByID", mock.Anything, v.HostRequestID).Return(hr, nil)
	repo.On("GetByHostRequestID", mock.Anything, v.HostRequestID).Return(v, nil)
	hostRepo.On("UpdateSeats", mock.Anything, hr.ID, mock.Anything, mock.Anything).Return(nil)

	// A slot starting exactly when the previous one ends is allowed.
	_, err = svc.BookSeats(context.Background(), v.ID, uuid.New(), "second@bookit.dev", venues.BookSeatsRequest{
		SeatIDs:   []int{1},
		Date:      "2026-10-01",
		StartTime: "16:00",
		Hours:     1,
	})
	assert.NoError(t, err)
}

func TestBookSeatsCrossMidnight(t *testing.T) {
	repo := new(mockVenueRepository)
	hostRepo := new(mockHostRepository)
	svc := venues.NewService(repo, hostRepo, nil)

	v := newVenue(1)
	hr := backingHostRequest(v)
	repo.On("GetByID", mock.Anything, v.ID).Return(v, nil)

	var written seats.SeatMap
	repo.On("UpdateSeats", mock.Anything, v.ID, mock.Anything, int64(0)).
		Run(func(args mock.Arguments) {
			written = args.Get(2).(seats.SeatMap)
		}).
		Return(nil)
	hostRepo.On("GetByID", mock.Anything, v.HostRequestID).Return(hr, nil)
	repo.On("GetByHostRequestID", mock.Anything, v.HostRequestID).Return(v, nil)
	hostRepo.On("UpdateSeats", mock.Anything, hr.ID, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.BookSeats(context.Background(), v.ID, uuid.New(), "night@bookit.dev", venues.BookSeatsRequest{
		SeatIDs:   []int{1},
		Date:      "2026-10-01",
		StartTime: "23:00",
		Hours:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, "01:00", written[0].Bookings[0].EndTime)
}

func TestBookSeatsRetriesOnVersionConflict(t *testing.T) {
	repo := new(mockVenueRepository)
	hostRepo := new(mockHostRepository)
	svc := venues.NewService(repo, hostRepo, nil)

	v := newVenue(2)
	hr := backingHostRequest(v)
	repo.On("GetByID", mock.Anything, v.ID).Return(v, nil)
	repo.On("UpdateSeats", mock.Anything, v.ID, mock.Anything, int64(0)).
		Return(hostrequests.ErrVersionConflict).Once()
	repo.On("UpdateSeats", mock.Anything, v.ID, mock.Anything, int64(0)).
		Return(nil).Once()
	hostRepo.On("GetByID", mock.Anything, v.HostRequestID).Return(hr, nil)
	repo.On("GetByHostRequestID", mock.Anything, v.HostRequestID).Return(v, nil)
	hostRepo.On("UpdateSeats", mock.Anything, hr.ID, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.BookSeats(context.Background(), v.ID, uuid.New(), "user@bookit.dev", venues.BookSeatsRequest{
		SeatIDs:   []int{1},
		Date:      "2026-10-01",
		StartTime: "09:00",
		Hours:     1,
	})
	assert.NoError(t, err)
	repo.AssertNumberOfCalls(t, "UpdateSeats", 2)
}

func TestBookSeatsUnknownVenue(t *testing.T) {
	repo := new(mockVenueRepository)
	hostRepo := new(mockHostRepository)
	svc := venues.NewService(repo, hostRepo, nil)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.BookSeats(context.Background(), id, uuid.New(), "user@bookit.dev", venues.BookSeatsRequest{
		SeatIDs:   []int{1},
		Date:      "2026-10-01",
		StartTime: "09:00",
		Hours:     1,
	})
	assert.ErrorIs(t, err, venues.ErrVenueNotFound)
}

func TestBookSeatsRejectsBadInput(t *testing.T) {
	repo := new(mockVenueRepository)
	hostRepo := new(mockHostRepository)
	svc := venues.NewService(repo, hostRepo, nil)

	_, err := svc.BookSeats(context.Background(), uuid.New(), uuid.New(), "user@bookit.dev", venues.BookSeatsRequest{
		SeatIDs:   []int{1},
		Date:      "2026-10-01",
		StartTime: "25:00",
		Hours:     1,
	})
	assert.ErrorIs(t, err, seats.ErrInvalidTime)

	_, err = svc.BookSeats(context.Background(), uuid.New(), uuid.New(), "user@bookit.dev", venues.BookSeatsRequest{
		SeatIDs:   []int{1},
		Date:      "October 1st",
		StartTime: "09:00",
		Hours:     1,
	})
	assert.ErrorIs(t, err, seats.ErrInvalidDate)
}

func TestApplyStatusTransitionApproveCreatesProjection(t *testing.T) {
	repo := new(mockVenueRepository)
	hostRepo := new(mockHostRepository)
	svc := venues.NewService(repo, hostRepo, nil)

	hr := &hostrequests.HostRequest{
		ID:               uuid.New(),
		OwnerID:          uuid.New(),
		OwnerEmail:       "owner@bookit.dev",
		Name:             "Old Mill Hall",
		Address:          "3 Mill Lane",
		Capacity:         3,
		PricePerSeatHour: 8,
		Seats:            seats.Normalize(nil, 3),
		Status:           hostrequests.StatusApproved,
	}

	repo.On("GetByHostRequestID", mock.Anything, hr.ID).Return(nil, gorm.ErrRecordNotFound)

	var saved *venues.Venue
	repo.On("SaveStatusAndProjection", mock.Anything, hr, mock.AnythingOfType("*venues.Venue"), false).
		Run(func(args mock.Arguments) {
			saved = args.Get(2).(*venues.Venue)
		}).
		Return(nil)

	require.NoError(t, svc.ApplyStatusTransition(context.Background(), hr))

	require.NotNil(t, saved)
	assert.Equal(t, hr.ID, saved.HostRequestID)
	assert.Equal(t, "Old Mill Hall", saved.Name)
	require.Len(t, saved.Seats, 3)
	assert.Equal(t, 1, saved.Seats[0].ID)
}

func TestApplyStatusTransitionApprovePreservesVenueUserBookings(t *testing.T) {
	repo := new(mockVenueRepository)
	hostRepo := new(mockHostRepository)
	svc := venues.NewService(repo, hostRepo, nil)

	v := newVenue(2)
	userBooking, err := seats.NewBooking("2026-10-01", "10:00", 1, seats.OriginUser, "user@bookit.dev")
	require.NoError(t, err)
	v.Seats.AppendBooking(1, userBooking)

	hr := backingHostRequest(v)
	ownerBooking, err := seats.NewBooking("2026-10-02", "08:00", 2, seats.OriginOwner, hr.OwnerEmail)
	require.NoError(t, err)
	hr.Seats.AppendBooking(2, ownerBooking)

	repo.On("GetByHostRequestID", mock.Anything, hr.ID).Return(v, nil)

	var saved *venues.Venue
	repo.On("SaveStatusAndProjection", mock.Anything, hr, mock.Anything, false).
		Run(func(args mock.Arguments) {
			saved = args.Get(2).(*venues.Venue)
		}).
		Return(nil)

	require.NoError(t, svc.ApplyStatusTransition(context.Background(), hr))

	require.NotNil(t, saved)
	require.Len(t, saved.Seats[0].Bookings, 1)
	assert.Equal(t, userBooking.ID, saved.Seats[0].Bookings[0].ID)
	require.Len(t, saved.Seats[1].Bookings, 1)
	assert.Equal(t, ownerBooking.ID, saved.Seats[1].Bookings[0].ID)
}

func TestApplyStatusTransitionRejectRemovesProjection(t *testing.T) {
	repo := new(mockVenueRepository)
	hostRepo := new(mockHostRepository)
	svc := venues.NewService(repo, hostRepo, nil)

	hr := &hostrequests.HostRequest{
		ID:     uuid.New(),
		Status: hostrequests.StatusRejected,
	}
	repo.On("SaveStatusAndProjection", mock.Anything, hr, (*venues.Venue)(nil), true).Return(nil)

	require.NoError(t, svc.ApplyStatusTransition(context.Background(), hr))
	repo.AssertExpectations(t)
}

func TestGetByIDPullsForwardStaleProjection(t *testing.T) {
	repo := new(mockVenueRepository)
	hostRepo := new(mockHostRepository)
	svc := venues.NewService(repo, hostRepo, nil)

	v := newVenue(2)
	hr := backingHostRequest(v)
	hr.Name = "Harborview Studio East"
	hr.UpdatedAt = v.UpdatedAt.Add(1)

	repo.On("GetByID", mock.Anything, v.ID).Return(v, nil)
	hostRepo.On("GetByID", mock.Anything, v.HostRequestID).Return(hr, nil)
	repo.On("UpdateProjection", mock.Anything, v).Return(nil)

	resp, err := svc.GetByID(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Harborview Studio East", resp.Name)
	repo.AssertCalled(t, "UpdateProjection", mock.Anything, v)
}

func TestGetByIDSkipsPullForwardWhenFresh(t *testing.T) {
	repo := new(mockVenueRepository)
	hostRepo := new(mockHostRepository)
	svc := venues.NewService(repo, hostRepo, nil)

	v := newVenue(2)
	hr := backingHostRequest(v)

	repo.On("GetByID", mock.Anything, v.ID).Return(v, nil)
	hostRepo.On("GetByID", mock.Anything, v.HostRequestID).Return(hr, nil)

	_, err := svc.GetByID(context.Background(), v.ID)
	require.NoError(t, err)
	repo.AssertNotCalled(t, "UpdateProjection", mock.Anything, mock.Anything)
}

func TestPullForwardPreservesConcurrentBookings(t *testing.T) {
	repo := new(mockVenueRepository)
	hostRepo := new(mockHostRepository)
	svc := venues.NewService(repo, hostRepo, nil)

	// The stored row: a user booking landed through the CAS path after the
	// detail read below took its snapshot.
	row := newVenue(2)
	row.SeatVersion = 5
	landed, err := seats.NewBooking("2026-10-01", "14:00", 2, seats.OriginUser, "late@bookit.dev")
	require.NoError(t, err)
	row.Seats.AppendBooking(2, landed)

	// Stale snapshot: read before the booking committed.
	stale := *row
	stale.Seats = seats.Normalize(nil, 2)
	stale.SeatVersion = 4

	hr := backingHostRequest(row)
	hr.Name = "Harborview Studio East"
	hr.UpdatedAt = stale.UpdatedAt.Add(1)

	repo.On("GetByID", mock.Anything, row.ID).Return(&stale, nil)
	hostRepo.On("GetByID", mock.Anything, row.HostRequestID).Return(hr, nil)

	// Apply the persist the way the repository does: scalar columns only.
	repo.On("UpdateProjection", mock.Anything, &stale).
		Run(func(args mock.Arguments) {
			v := args.Get(1).(*venues.Venue)
			row.Name = v.Name
			row.Address = v.Address
			row.Capacity = v.Capacity
			row.PricePerSeatHour = v.PricePerSeatHour
		}).
		Return(nil)

	resp, err := svc.GetByID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, "Harborview Studio East", resp.Name)

	// The concurrently landed booking and its version are untouched.
	require.Len(t, row.Seats[1].Bookings, 1)
	assert.Equal(t, landed.ID, row.Seats[1].Bookings[0].ID)
	assert.Equal(t, int64(5), row.SeatVersion)
	repo.AssertNotCalled(t, "UpdateSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReplaceSeatsKeepsConcurrentUserBookings(t *testing.T) {
	repo := new(mockVenueRepository)
	hostRepo := new(mockHostRepository)
	svc := venues.NewService(repo, hostRepo, nil)

	v := newVenue(2)
	concurrent, err := seats.NewBooking("2026-10-03", "12:00", 1, seats.OriginUser, "late@bookit.dev")
	require.NoError(t, err)
	v.Seats.AppendBooking(1, concurrent)

	incoming := seats.Normalize(nil, 2)
	ownerBooking, err := seats.NewBooking("2026-10-03", "18:00", 1, seats.OriginOwner, "owner@bookit.dev")
	require.NoError(t, err)
	incoming.AppendBooking(2, ownerBooking)

	repo.On("GetByHostRequestID", mock.Anything, v.HostRequestID).Return(v, nil)

	var written seats.SeatMap
	repo.On("UpdateSeats", mock.Anything, v.ID, mock.Anything, int64(0)).
		Run(func(args mock.Arguments) {
			written = args.Get(2).(seats.SeatMap)
		}).
		Return(nil)

	require.NoError(t, svc.ReplaceSeats(context.Background(), v.HostRequestID, incoming))

	require.Len(t, written[0].Bookings, 1)
	assert.Equal(t, concurrent.ID, written[0].Bookings[0].ID)
	require.Len(t, written[1].Bookings, 1)
	assert.Equal(t, ownerBooking.ID, written[1].Bookings[0].ID)
}

func TestListPaginates(t *testing.T) {
	repo := new(mockVenueRepository)
	hostRepo := new(mockHostRepository)
	svc := venues.NewService(repo, hostRepo, nil)

	v := newVenue(2)
	repo.On("List", mock.Anything, "harbor", 2, 10).Return([]venues.Venue{*v}, int64(11), nil)

	result, err := svc.List(context.Background(), venues.ListVenuesQuery{
		Search:   "harbor",
		Page:     2,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), result.Total)
	assert.Equal(t, 2, result.TotalPages)
	require.Len(t, result.Venues, 1)
	assert.Equal(t, v.Name, result.Venues[0].Name)
}

func TestSeatsForHostRequestMissingProjection(t *testing.T) {
	repo := new(mockVenueRepository)
	hostRepo := new(mockHostRepository)
	svc := venues.NewService(repo, hostRepo, nil)

	id := uuid.New()
	repo.On("GetByHostRequestID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, ok, err := svc.SeatsForHostRequest(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, ok)
}
