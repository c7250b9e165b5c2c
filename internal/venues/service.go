package venues

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"bookit/internal/hostrequests"
	"bookit/internal/seats"
	"bookit/internal/shared/constants"
	"bookit/pkg/cache"
	"bookit/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrVenueNotFound = errors.New("venue not found")

const (
	defaultPageSize = 20

	// seatWriteAttempts bounds the reload-and-retry loop around the seat
	// map CAS write.
	seatWriteAttempts = 3
)

// Notifier publishes booking confirmations; failures never affect the caller.
type Notifier interface {
	BookingConfirmed(ctx context.Context, userEmail, venueName string, seatIDs []int, date, startTime string, hours float64) error
}

// Service is the public venue surface. It also implements
// hostrequests.VenueSync so the host side can drive the projection without a
// package cycle.
type Service interface {
	SetNotifier(n Notifier)

	List(ctx context.Context, query ListVenuesQuery) (*PaginatedVenues, error)
	GetByID(ctx context.Context, id uuid.UUID) (*VenueResponse, error)
	BookSeats(ctx context.Context, venueID, userID uuid.UUID, userEmail string, req BookSeatsRequest) (*BookSeatsResponse, error)

	// hostrequests.VenueSync
	ApplyStatusTransition(ctx context.Context, hr *hostrequests.HostRequest) error
	CascadeDelete(ctx context.Context, hostRequestID uuid.UUID) error
	SeatsForHostRequest(ctx context.Context, hostRequestID uuid.UUID) (seats.SeatMap, bool, error)
	ReplaceSeats(ctx context.Context, hostRequestID uuid.UUID, m seats.SeatMap) error
}

type service struct {
	repo     Repository
	hostRepo hostrequests.Repository
	cache    cache.Service
	notifier Notifier
	log      *logger.Logger
}

func NewService(repo Repository, hostRepo hostrequests.Repository, cacheService cache.Service) Service {
	return &service{
		repo:     repo,
		hostRepo: hostRepo,
		cache:    cacheService,
		log:      logger.GetDefault(),
	}
}

func (s *service) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *service) List(ctx context.Context, query ListVenuesQuery) (*PaginatedVenues, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	cacheKey := constants.BuildVenueListKey(page, pageSize, query.Search)
	if s.cache != nil {
		var cached PaginatedVenues
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	venues, total, err := s.repo.List(ctx, query.Search, page, pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]VenueListItem, 0, len(venues))
	for i := range venues {
		items = append(items, venues[i].ToListItem())
	}

	result := &PaginatedVenues{
		Venues:     items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, result, constants.TTL_VENUES_LIST); err != nil {
			s.log.Debug("venue list cache write failed", slog.Any("error", err))
		}
	}
	return result, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*VenueResponse, error) {
	cacheKey := constants.BuildVenueDetailKey(id.String())
	if s.cache != nil {
		var cached VenueResponse
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	s.pullForward(ctx, v)

	resp := v.ToResponse()
	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, resp, constants.TTL_VENUE_DETAIL); err != nil {
			s.log.Debug("venue detail cache write failed", slog.Any("error", err))
		}
	}
	return &resp, nil
}

// pullForward refreshes stale projection fields from the authoritative host
// request at read time. Failures leave the stored snapshot in place. The
// persist is column-scoped: a user booking committed between our read and
// this write must survive, so the seat document is never touched here.
func (s *service) pullForward(ctx context.Context, v *Venue) {
	hr, err := s.hostRepo.GetByID(ctx, v.HostRequestID)
	if err != nil {
		return
	}
	if hr.Status != hostrequests.StatusApproved {
		return
	}
	if !hr.UpdatedAt.After(v.UpdatedAt) {
		return
	}

	v.projectFrom(hr)
	if err := s.repo.UpdateProjection(ctx, v); err != nil {
		s.log.Warn("venue pull-forward persist failed",
			slog.String("venue_id", v.ID.String()),
			slog.Any("error", err),
		)
	}
}

func (s *service) BookSeats(ctx context.Context, venueID, userID uuid.UUID, userEmail string, req BookSeatsRequest) (*BookSeatsResponse, error) {
	interval, err := seats.NewInterval(req.StartTime, req.Hours)
	if err != nil {
		return nil, err
	}
	if !seats.ValidDate(req.Date) {
		return nil, seats.ErrInvalidDate
	}

	var (
		hostRequestID uuid.UUID
		venueName     string
		bookings      []seats.Booking
	)

	booked := false
	for attempt := 0; attempt < seatWriteAttempts && !booked; attempt++ {
		v, err := s.repo.GetByID(ctx, venueID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrVenueNotFound
			}
			return nil, err
		}
		hostRequestID = v.HostRequestID
		venueName = v.Name

		// All-or-nothing: every seat is checked before anything is written,
		// and the response names every seat that failed.
		if failures := v.Seats.CheckSeats(req.SeatIDs, req.Date, interval); len(failures) > 0 {
			return nil, &seats.ConflictError{Failures: failures}
		}

		working := v.Seats.Clone()
		bookings = bookings[:0]
		for _, seatID := range req.SeatIDs {
			booking, err := seats.NewBooking(req.Date, req.StartTime, req.Hours, seats.OriginUser, userEmail)
			if err != nil {
				return nil, err
			}
			if !working.AppendBooking(seatID, booking) {
				return nil, &seats.ConflictError{Failures: []seats.SeatFailure{
					{SeatID: seatID, Reason: seats.ReasonSeatNotFound},
				}}
			}
			bookings = append(bookings, booking)
		}

		err = s.repo.UpdateSeats(ctx, venueID, working, v.SeatVersion)
		switch {
		case err == nil:
			booked = true
		case errors.Is(err, hostrequests.ErrVersionConflict):
			// Lost the race; reload and re-check against the fresh document.
		default:
			return nil, err
		}
	}
	if !booked {
		return nil, hostrequests.ErrConcurrentUpdate
	}

	s.invalidateCaches(ctx)
	s.syncHostRequest(ctx, hostRequestID)
	s.log.LogSeatsBooked(ctx, venueID.String(), userID.String(), len(req.SeatIDs))

	if s.notifier != nil {
		if err := s.notifier.BookingConfirmed(ctx, userEmail, venueName, req.SeatIDs, req.Date, req.StartTime, req.Hours); err != nil {
			s.log.Warn("booking notification failed",
				slog.String("venue_id", venueID.String()),
				slog.Any("error", err),
			)
		}
	}

	return &BookSeatsResponse{
		VenueID:  venueID.String(),
		SeatIDs:  req.SeatIDs,
		Bookings: bookings,
	}, nil
}

func (s *service) ApplyStatusTransition(ctx context.Context, hr *hostrequests.HostRequest) error {
	if hr.Status != hostrequests.StatusApproved {
		// Away from approved: the projection disappears, bookings with it.
		if err := s.repo.SaveStatusAndProjection(ctx, hr, nil, true); err != nil {
			return err
		}
		s.invalidateCaches(ctx)
		return nil
	}

	v, err := s.repo.GetByHostRequestID(ctx, hr.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		v = &Venue{}
	}

	existingSeats := v.Seats
	v.projectFrom(hr)
	v.Seats = seats.Merge(hr.Seats, existingSeats, hr.Capacity, hr.PricePerSeatHour)

	if err := s.repo.SaveStatusAndProjection(ctx, hr, v, false); err != nil {
		return err
	}
	s.invalidateCaches(ctx)
	return nil
}

func (s *service) CascadeDelete(ctx context.Context, hostRequestID uuid.UUID) error {
	if err := s.repo.DeleteWithHostRequest(ctx, hostRequestID); err != nil {
		return err
	}
	s.invalidateCaches(ctx)
	return nil
}

func (s *service) SeatsForHostRequest(ctx context.Context, hostRequestID uuid.UUID) (seats.SeatMap, bool, error) {
	v, err := s.repo.GetByHostRequestID(ctx, hostRequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return v.Seats, true, nil
}

// ReplaceSeats lands a merged document from the host side. The incoming map
// is re-merged against the venue's current seats on every attempt so a user
// booking written in between is never dropped.
func (s *service) ReplaceSeats(ctx context.Context, hostRequestID uuid.UUID, m seats.SeatMap) error {
	for attempt := 0; attempt < seatWriteAttempts; attempt++ {
		v, err := s.repo.GetByHostRequestID(ctx, hostRequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		next := seats.Merge(m, v.Seats, v.Capacity, v.PricePerSeatHour)
		err = s.repo.UpdateSeats(ctx, v.ID, next, v.SeatVersion)
		if err == nil {
			s.invalidateCaches(ctx)
			return nil
		}
		if !errors.Is(err, hostrequests.ErrVersionConflict) {
			return err
		}
	}
	return hostrequests.ErrConcurrentUpdate
}

// syncHostRequest writes the merged seat view back to the host request.
// Best-effort: the venue write already committed, so failures only delay the
// owner's view of user bookings.
func (s *service) syncHostRequest(ctx context.Context, hostRequestID uuid.UUID) {
	hr, err := s.hostRepo.GetByID(ctx, hostRequestID)
	if err != nil {
		s.log.Warn("host sync read failed", slog.String("host_request_id", hostRequestID.String()), slog.Any("error", err))
		return
	}

	v, err := s.repo.GetByHostRequestID(ctx, hostRequestID)
	if err != nil {
		s.log.Warn("host sync venue read failed", slog.String("host_request_id", hostRequestID.String()), slog.Any("error", err))
		return
	}

	merged := seats.Merge(hr.Seats, v.Seats, hr.Capacity, hr.PricePerSeatHour)
	if err := s.hostRepo.UpdateSeats(ctx, hr.ID, merged, hr.SeatVersion); err != nil {
		s.log.Warn("host sync write failed", slog.String("host_request_id", hostRequestID.String()), slog.Any("error", err))
	}
}

func (s *service) invalidateCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, constants.PATTERN_INVALIDATE_VENUES_ALL); err != nil {
		s.log.Debug("venue cache invalidation failed", slog.Any("error", err))
	}
}
