package hostrequests_test

import (
	"context"
	"errors"
	"testing"

	"bookit/internal/hostrequests"
	"bookit/internal/seats"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, hr *hostrequests.HostRequest) error {
	args := m.Called(ctx, hr)
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*hostrequests.HostRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hostrequests.HostRequest), args.Error(1)
}

func (m *mockRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]hostrequests.HostRequest, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hostrequests.HostRequest), args.Error(1)
}

func (m *mockRepository) GetAll(ctx context.Context, status string) ([]hostrequests.HostRequest, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hostrequests.HostRequest), args.Error(1)
}

func (m *mockRepository) Save(ctx context.Context, hr *hostrequests.HostRequest) error {
	args := m.Called(ctx, hr)
	return args.Error(0)
}

func (m *mockRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *mockRepository) UpdateSeats(ctx context.Context, id uuid.UUID, seatMap seats.SeatMap, expectedVersion int64) error {
	args := m.Called(ctx, id, seatMap, expectedVersion)
	return args.Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockVenueSync struct {
	mock.Mock
}

func (m *mockVenueSync) ApplyStatusTransition(ctx context.Context, hr *hostrequests.HostRequest) error {
	args := m.Called(ctx, hr)
	return args.Error(0)
}

func (m *mockVenueSync) CascadeDelete(ctx context.Context, hostRequestID uuid.UUID) error {
	args := m.Called(ctx, hostRequestID)
	return args.Error(0)
}

func (m *mockVenueSync) SeatsForHostRequest(ctx context.Context, hostRequestID uuid.UUID) (seats.SeatMap, bool, error) {
	args := m.Called(ctx, hostRequestID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(seats.SeatMap), args.Bool(1), args.Error(2)
}

func (m *mockVenueSync) ReplaceSeats(ctx context.Context, hostRequestID uuid.UUID, seatMap seats.SeatMap) error {
	args := m.Called(ctx, hostRequestID, seatMap)
	return args.Error(0)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) OwnerBookingAdded(ctx context.Context, ownerEmail, venueName string, seatID int, date, startTime string, hours float64) error {
	args := m.Called(ctx, ownerEmail, venueName, seatID, date, startTime, hours)
	return args.Error(0)
}

func (m *mockNotifier) HostRequestStatusChanged(ctx context.Context, ownerEmail, venueName, status string) error {
	args := m.Called(ctx, ownerEmail, venueName, status)
	return args.Error(0)
}

func newHostRequest(ownerID uuid.UUID, capacity int) *hostrequests.HostRequest {
	return &hostrequests.HostRequest{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		OwnerEmail:       "owner@bookit.dev",
		Name:             "Harborview Studio",
		Address:          "12 Quay Street",
		Capacity:         capacity,
		PricePerSeatHour: 10,
		Seats:            seats.Normalize(nil, capacity),
		Status:           hostrequests.StatusPending,
	}
}

func TestCreateNormalizesSeats(t *testing.T) {
	repo := new(mockRepository)
	svc := hostrequests.NewService(repo)
	ownerID := uuid.New()

	var created *hostrequests.HostRequest
	repo.On("Create", mock.Anything, mock.AnythingOfType("*hostrequests.HostRequest")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*hostrequests.HostRequest)
		}).
		Return(nil)

	resp, err := svc.Create(context.Background(), ownerID, "owner@bookit.dev", hostrequests.CreateHostRequestRequest{
		Name:             "Harborview Studio",
		Address:          "12 Quay Street",
		Capacity:         3,
		PricePerSeatHour: 12.5,
		SeatLabels:       []string{"Window", "Corner"},
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	require.Len(t, created.Seats, 3)
	assert.Equal(t, 1, created.Seats[0].ID)
	assert.Equal(t, "Window", created.Seats[0].Label)
	assert.Equal(t, "Corner", created.Seats[1].Label)
	assert.Equal(t, "", created.Seats[2].Label)
	assert.Equal(t, 12.5, created.Seats[2].Price)
	assert.NotNil(t, created.Seats[2].Bookings)
	assert.Equal(t, hostrequests.StatusPending, created.Status)
	assert.Equal(t, hostrequests.StatusPending, resp.Status)
}

func TestGetMineByIDHidesForeignRequests(t *testing.T) {
	repo := new(mockRepository)
	svc := hostrequests.NewService(repo)

	hr := newHostRequest(uuid.New(), 2)
	repo.On("GetByID", mock.Anything, hr.ID).Return(hr, nil)

	_, err := svc.GetMineByID(context.Background(), uuid.New(), hr.ID)
	assert.ErrorIs(t, err, hostrequests.ErrRequestNotFound)
}

func TestGetMineByIDMissingRequest(t *testing.T) {
	repo := new(mockRepository)
	svc := hostrequests.NewService(repo)

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetMineByID(context.Background(), uuid.New(), id)
	assert.ErrorIs(t, err, hostrequests.ErrRequestNotFound)
}

func TestAddOwnerBookingAppendsAndSyncs(t *testing.T) {
	repo := new(mockRepository)
	sync := new(mockVenueSync)
	svc := hostrequests.NewService(repo)
	svc.SetVenueSync(sync)

	ownerID := uuid.New()
	hr := newHostRequest(ownerID, 3)
	hr.SeatVersion = 4

	repo.On("GetByID", mock.Anything, hr.ID).Return(hr, nil)
	sync.On("SeatsForHostRequest", mock.Anything, hr.ID).Return(nil, false, nil)

	var written seats.SeatMap
	repo.On("UpdateSeats", mock.Anything, hr.ID, mock.AnythingOfType("seats.SeatMap"), int64(4)).
		Run(func(args mock.Arguments) {
			written = args.Get(2).(seats.SeatMap)
		}).
		Return(nil)

	_, err := svc.AddOwnerBooking(context.Background(), ownerID, hr.ID, 2, hostrequests.OwnerBookingRequest{
		Date:      "2026-10-01",
		StartTime: "09:30",
		Hours:     1.5,
	})
	require.NoError(t, err)

	require.Len(t, written, 3)
	require.Len(t, written[1].Bookings, 1)
	b := written[1].Bookings[0]
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, "11:00", b.EndTime)
	assert.True(t, b.IsOwner())
	assert.Equal(t, "owner@bookit.dev", b.CreatedByEmail)
}

func TestAddOwnerBookingConflictsWithVenueUserBooking(t *testing.T) {
	repo := new(mockRepository)
	sync := new(mockVenueSync)
	svc := hostrequests.NewService(repo)
	svc.SetVenueSync(sync)

	ownerID := uuid.New()
	hr := newHostRequest(ownerID, 2)
	repo.On("GetByID", mock.Anything, hr.ID).Return(hr, nil)

	// A user already booked seat 1 from 14:00 to 16:00 on the public side.
	venueSeats := seats.Normalize(nil, 2)
	userBooking, err := seats.NewBooking("2026-10-01", "14:00", 2, seats.OriginUser, "user@bookit.dev")
	require.NoError(t, err)
	venueSeats.AppendBooking(1, userBooking)
	sync.On("SeatsForHostRequest", mock.Anything, hr.ID).Return(venueSeats, true, nil)

	_, err = svc.AddOwnerBooking(context.Background(), ownerID, hr.ID, 1, hostrequests.OwnerBookingRequest{
		Date:      "2026-10-01",
		StartTime: "15:00",
		Hours:     1,
	})

	var conflict *seats.ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Failures, 1)
	assert.Equal(t, 1, conflict.Failures[0].SeatID)
	assert.Equal(t, seats.ReasonSeatBooked, conflict.Failures[0].Reason)
	repo.AssertNotCalled(t, "UpdateSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddOwnerBookingUnknownSeat(t *testing.T) {
	repo := new(mockRepository)
	sync := new(mockVenueSync)
	svc := hostrequests.NewService(repo)
	svc.SetVenueSync(sync)

	ownerID := uuid.New()
	hr := newHostRequest(ownerID, 2)
	repo.On("GetByID", mock.Anything, hr.ID).Return(hr, nil)
	sync.On("SeatsForHostRequest", mock.Anything, hr.ID).Return(nil, false, nil)

	_, err := svc.AddOwnerBooking(context.Background(), ownerID, hr.ID, 9, hostrequests.OwnerBookingRequest{
		Date:      "2026-10-01",
		StartTime: "09:00",
		Hours:     1,
	})
	assert.ErrorIs(t, err, hostrequests.ErrSeatNotFound)
}

func TestRemoveOwnerBookingProtectsUserBookings(t *testing.T) {
	repo := new(mockRepository)
	svc := hostrequests.NewService(repo)

	ownerID := uuid.New()
	hr := newHostRequest(ownerID, 2)
	userBooking, err := seats.NewBooking("2026-10-01", "10:00", 1, seats.OriginUser, "user@bookit.dev")
	require.NoError(t, err)
	hr.Seats.AppendBooking(1, userBooking)

	repo.On("GetByID", mock.Anything, hr.ID).Return(hr, nil)

	err = svc.RemoveOwnerBooking(context.Background(), ownerID, hr.ID, 1, userBooking.ID)
	assert.ErrorIs(t, err, hostrequests.ErrUserBookingProtected)
	repo.AssertNotCalled(t, "UpdateSeats", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveOwnerBookingByID(t *testing.T) {
	repo := new(mockRepository)
	svc := hostrequests.NewService(repo)

	ownerID := uuid.New()
	hr := newHostRequest(ownerID, 2)
	keep, err := seats.NewBooking("2026-10-01", "08:00", 1, seats.OriginOwner, "owner@bookit.dev")
	require.NoError(t, err)
	drop, err := seats.NewBooking("2026-10-01", "10:00", 1, seats.OriginOwner, "owner@bookit.dev")
	require.NoError(t, err)
	hr.Seats.AppendBooking(1, keep)
	hr.Seats.AppendBooking(1, drop)

	repo.On("GetByID", mock.Anything, hr.ID).Return(hr, nil)

	var written seats.SeatMap
	repo.On("UpdateSeats", mock.Anything, hr.ID, mock.AnythingOfType("seats.SeatMap"), int64(0)).
		Run(func(args mock.Arguments) {
			written = args.Get(2).(seats.SeatMap)
		}).
		Return(nil)

	err = svc.RemoveOwnerBooking(context.Background(), ownerID, hr.ID, 1, drop.ID)
	require.NoError(t, err)

	require.Len(t, written[0].Bookings, 1)
	assert.Equal(t, keep.ID, written[0].Bookings[0].ID)
}

func TestRemoveOwnerBookingUnknownID(t *testing.T) {
	repo := new(mockRepository)
	svc := hostrequests.NewService(repo)

	ownerID := uuid.New()
	hr := newHostRequest(ownerID, 2)
	repo.On("GetByID", mock.Anything, hr.ID).Return(hr, nil)

	err := svc.RemoveOwnerBooking(context.Background(), ownerID, hr.ID, 1, uuid.New())
	assert.ErrorIs(t, err, hostrequests.ErrBookingNotFound)
}

func TestUpdateStatusRunsTransitionAndNotifies(t *testing.T) {
	repo := new(mockRepository)
	sync := new(mockVenueSync)
	notifier := new(mockNotifier)
	svc := hostrequests.NewService(repo)
	svc.SetVenueSync(sync)
	svc.SetNotifier(notifier)

	hr := newHostRequest(uuid.New(), 2)
	repo.On("GetByID", mock.Anything, hr.ID).Return(hr, nil)
	sync.On("ApplyStatusTransition", mock.Anything, mock.MatchedBy(func(got *hostrequests.HostRequest) bool {
		return got.Status == hostrequests.StatusApproved
	})).Return(nil)
	notifier.On("HostRequestStatusChanged", mock.Anything, "owner@bookit.dev", "Harborview Studio", "approved").Return(nil)

	resp, err := svc.UpdateStatus(context.Background(), hr.ID, "approved")
	require.NoError(t, err)
	assert.Equal(t, hostrequests.StatusApproved, resp.Status)
	sync.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestUpdateStatusNotificationFailureIsSwallowed(t *testing.T) {
	repo := new(mockRepository)
	sync := new(mockVenueSync)
	notifier := new(mockNotifier)
	svc := hostrequests.NewService(repo)
	svc.SetVenueSync(sync)
	svc.SetNotifier(notifier)

	hr := newHostRequest(uuid.New(), 2)
	repo.On("GetByID", mock.Anything, hr.ID).Return(hr, nil)
	sync.On("ApplyStatusTransition", mock.Anything, mock.Anything).Return(nil)
	notifier.On("HostRequestStatusChanged", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp down"))

	_, err := svc.UpdateStatus(context.Background(), hr.ID, "rejected")
	assert.NoError(t, err)
}

func TestSeatWriteRetriesExhaust(t *testing.T) {
	repo := new(mockRepository)
	sync := new(mockVenueSync)
	svc := hostrequests.NewService(repo)
	svc.SetVenueSync(sync)

	ownerID := uuid.New()
	hr := newHostRequest(ownerID, 2)
	repo.On("GetByID", mock.Anything, hr.ID).Return(hr, nil)
	sync.On("SeatsForHostRequest", mock.Anything, hr.ID).Return(nil, false, nil)
	repo.On("UpdateSeats", mock.Anything, hr.ID, mock.Anything, mock.Anything).
		Return(hostrequests.ErrVersionConflict)

	_, err := svc.AddOwnerBooking(context.Background(), ownerID, hr.ID, 1, hostrequests.OwnerBookingRequest{
		Date:      "2026-10-01",
		StartTime: "09:00",
		Hours:     1,
	})
	assert.ErrorIs(t, err, hostrequests.ErrConcurrentUpdate)
	repo.AssertNumberOfCalls(t, "UpdateSeats", 3)
}

func TestDeleteCascadesThroughVenueSync(t *testing.T) {
	repo := new(mockRepository)
	sync := new(mockVenueSync)
	svc := hostrequests.NewService(repo)
	svc.SetVenueSync(sync)

	ownerID := uuid.New()
	hr := newHostRequest(ownerID, 2)
	repo.On("GetByID", mock.Anything, hr.ID).Return(hr, nil)
	sync.On("CascadeDelete", mock.Anything, hr.ID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), ownerID, hr.ID))
	sync.AssertExpectations(t)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
