package hostrequests

import (
	"context"
	"errors"
	"log/slog"

	"bookit/internal/seats"
	"bookit/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrRequestNotFound      = errors.New("host request not found")
	ErrSeatNotFound         = errors.New("seat not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrUserBookingProtected = errors.New("bookings made by users cannot be removed by the owner")
	ErrConcurrentUpdate     = errors.New("seats were modified concurrently, please retry")
)

// maxSeatWriteAttempts bounds the reload-and-retry loop around the seat map
// CAS write.
const maxSeatWriteAttempts = 3

// VenueSync is implemented by the venues service. It gives the host side
// access to the public projection without a package cycle: venues imports
// hostrequests, never the other way around.
type VenueSync interface {
	// ApplyStatusTransition persists hr.Status and, in the same transaction,
	// upserts or removes the public venue projection.
	ApplyStatusTransition(ctx context.Context, hr *HostRequest) error
	// CascadeDelete removes the host request and every venue projection
	// linked to it.
	CascadeDelete(ctx context.Context, hostRequestID uuid.UUID) error
	// SeatsForHostRequest returns the linked venue's seats document, or
	// false when no projection exists.
	SeatsForHostRequest(ctx context.Context, hostRequestID uuid.UUID) (seats.SeatMap, bool, error)
	// ReplaceSeats writes a merged seats document to the linked venue.
	ReplaceSeats(ctx context.Context, hostRequestID uuid.UUID, m seats.SeatMap) error
}

// Notifier publishes moderation and booking outcomes; failures never affect
// the caller.
type Notifier interface {
	OwnerBookingAdded(ctx context.Context, ownerEmail, venueName string, seatID int, date, startTime string, hours float64) error
	HostRequestStatusChanged(ctx context.Context, ownerEmail, venueName, status string) error
}

type Service interface {
	SetVenueSync(vs VenueSync)
	SetNotifier(n Notifier)

	// Owner operations
	Create(ctx context.Context, ownerID uuid.UUID, ownerEmail string, req CreateHostRequestRequest) (*HostRequestResponse, error)
	GetMine(ctx context.Context, ownerID uuid.UUID) ([]HostRequestResponse, error)
	GetMineByID(ctx context.Context, ownerID, id uuid.UUID) (*HostRequestResponse, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateHostRequestRequest) (*HostRequestResponse, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	AddOwnerBooking(ctx context.Context, ownerID, id uuid.UUID, seatID int, req OwnerBookingRequest) (*HostRequestResponse, error)
	RemoveOwnerBooking(ctx context.Context, ownerID, id uuid.UUID, seatID int, bookingID uuid.UUID) error

	// Admin operations
	GetAll(ctx context.Context, status string) ([]HostRequestResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*HostRequestResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*HostRequestResponse, error)
}

type service struct {
	repo      Repository
	venueSync VenueSync
	notifier  Notifier
	log       *logger.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		log:  logger.GetDefault(),
	}
}

func (s *service) SetVenueSync(vs VenueSync) {
	s.venueSync = vs
}

func (s *service) SetNotifier(n Notifier) {
	s.notifier = n
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, ownerEmail string, req CreateHostRequestRequest) (*HostRequestResponse, error) {
	seatMap := seats.Normalize(nil, req.Capacity)
	for i := range seatMap {
		seatMap[i].Price = req.PricePerSeatHour
		if i < len(req.SeatLabels) {
			seatMap[i].Label = req.SeatLabels[i]
		}
	}

	hr := &HostRequest{
		OwnerID:          ownerID,
		OwnerEmail:       ownerEmail,
		Name:             req.Name,
		Description:      req.Description,
		Address:          req.Address,
		Capacity:         req.Capacity,
		PricePerSeatHour: req.PricePerSeatHour,
		Images:           req.Images,
		Availability:     req.Availability,
		Seats:            seatMap,
		Status:           StatusPending,
	}

	if err := s.repo.Create(ctx, hr); err != nil {
		return nil, err
	}
	s.log.LogHostRequestSubmitted(ctx, hr.ID.String(), ownerID.String())

	resp := hr.ToResponse()
	return &resp, nil
}

func (s *service) GetMine(ctx context.Context, ownerID uuid.UUID) ([]HostRequestResponse, error) {
	requests, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	responses := make([]HostRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, requests[i].ToResponse())
	}
	return responses, nil
}

func (s *service) GetMineByID(ctx context.Context, ownerID, id uuid.UUID) (*HostRequestResponse, error) {
	hr, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	resp := hr.ToResponse()
	return &resp, nil
}

func (s *service) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateHostRequestRequest) (*HostRequestResponse, error) {
	hr, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
		hr.Capacity = *req.Capacity
	}
	if req.PricePerSeatHour != nil {
		updates["price_per_seat_hour"] = *req.PricePerSeatHour
		hr.PricePerSeatHour = *req.PricePerSeatHour
	}
	if req.Images != nil {
		updates["images"] = req.Images
	}
	if req.Availability != nil {
		updates["availability"] = req.Availability
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	// Seat labels/prices and capacity growth go through the guarded seat
	// write so a concurrent booking's array write is never clobbered.
	if req.Capacity != nil || len(req.Seats) > 0 {
		err := s.updateSeatsWithRetry(ctx, id, func(current seats.SeatMap) (seats.SeatMap, error) {
			working := seats.Normalize(current, seats.TargetLength(hr.Capacity, current))
			for _, edit := range req.Seats {
				if edit.ID < 1 || edit.ID > len(working) {
					return nil, ErrSeatNotFound
				}
				if edit.Label != nil {
					working[edit.ID-1].Label = *edit.Label
				}
				if edit.Price != nil {
					working[edit.ID-1].Price = *edit.Price
				}
			}
			return working, nil
		})
		if err != nil {
			return nil, err
		}
	}

	// Primary write is durable; reconcile the public projection best-effort.
	s.syncLinkedVenue(ctx, id)

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := updated.ToResponse()
	return &resp, nil
}

func (s *service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}

	if s.venueSync != nil {
		return s.venueSync.CascadeDelete(ctx, id)
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) AddOwnerBooking(ctx context.Context, ownerID, id uuid.UUID, seatID int, req OwnerBookingRequest) (*HostRequestResponse, error) {
	hr, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	booking, err := seats.NewBooking(req.Date, req.StartTime, req.Hours, seats.OriginOwner, hr.OwnerEmail)
	if err != nil {
		return nil, err
	}
	interval, err := seats.NewInterval(req.StartTime, req.Hours)
	if err != nil {
		return nil, err
	}

	// Owner bookings must not overlap anything on the seat, user bookings
	// included. The host document may lag behind the venue's user bookings,
	// so the check runs against the merged view of both sides.
	venueSeats, _, venueErr := s.linkedVenueSeats(ctx, id)
	if venueErr != nil {
		return nil, venueErr
	}

	err = s.updateSeatsWithRetry(ctx, id, func(current seats.SeatMap) (seats.SeatMap, error) {
		mergedView := seats.Merge(current, venueSeats, hr.Capacity, hr.PricePerSeatHour)
		seat, ok := mergedView.Get(seatID)
		if !ok {
			return nil, ErrSeatNotFound
		}
		if _, conflict := seat.FirstConflict(req.Date, interval); conflict {
			return nil, &seats.ConflictError{Failures: []seats.SeatFailure{
				{SeatID: seatID, Reason: seats.ReasonSeatBooked},
			}}
		}

		working := seats.Normalize(current, seats.TargetLength(hr.Capacity, current))
		if !working.AppendBooking(seatID, booking) {
			return nil, ErrSeatNotFound
		}
		return working, nil
	})
	if err != nil {
		return nil, err
	}

	s.syncLinkedVenue(ctx, id)

	if s.notifier != nil {
		if err := s.notifier.OwnerBookingAdded(ctx, hr.OwnerEmail, hr.Name, seatID, req.Date, req.StartTime, req.Hours); err != nil {
			s.log.Warn("owner booking notification failed",
				slog.String("host_request_id", id.String()),
				slog.Any("error", err),
			)
		}
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := updated.ToResponse()
	return &resp, nil
}

func (s *service) RemoveOwnerBooking(ctx context.Context, ownerID, id uuid.UUID, seatID int, bookingID uuid.UUID) error {
	hr, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}

	booking, found := hr.Seats.FindBooking(seatID, bookingID)
	if !found {
		if _, ok := hr.Seats.Get(seatID); !ok {
			return ErrSeatNotFound
		}
		return ErrBookingNotFound
	}
	if booking.IsUser() {
		// Hard authorization failure, not a silent no-op.
		return ErrUserBookingProtected
	}

	err = s.updateSeatsWithRetry(ctx, id, func(current seats.SeatMap) (seats.SeatMap, error) {
		working := current.Clone()
		removed, ok := working.RemoveBooking(seatID, bookingID)
		if !ok {
			return nil, ErrBookingNotFound
		}
		if removed.IsUser() {
			return nil, ErrUserBookingProtected
		}
		return working, nil
	})
	if err != nil {
		return err
	}

	s.syncLinkedVenue(ctx, id)
	return nil
}

func (s *service) GetAll(ctx context.Context, status string) ([]HostRequestResponse, error) {
	requests, err := s.repo.GetAll(ctx, status)
	if err != nil {
		return nil, err
	}

	responses := make([]HostRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, requests[i].ToResponse())
	}
	return responses, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*HostRequestResponse, error) {
	hr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	resp := hr.ToResponse()
	return &resp, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*HostRequestResponse, error) {
	hr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}

	hr.Status = RequestStatus(status)

	if s.venueSync != nil {
		// Status write and projection land in one transaction.
		if err := s.venueSync.ApplyStatusTransition(ctx, hr); err != nil {
			return nil, err
		}
	} else {
		if err := s.repo.Update(ctx, id, map[string]interface{}{"status": hr.Status}); err != nil {
			return nil, err
		}
	}
	s.log.LogHostRequestModerated(ctx, id.String(), status)

	if s.notifier != nil {
		if err := s.notifier.HostRequestStatusChanged(ctx, hr.OwnerEmail, hr.Name, status); err != nil {
			s.log.Warn("status notification failed",
				slog.String("host_request_id", id.String()),
				slog.Any("error", err),
			)
		}
	}

	resp := hr.ToResponse()
	return &resp, nil
}

// getOwned loads a host request and enforces ownership. A request owned by
// someone else is indistinguishable from a missing one.
func (s *service) getOwned(ctx context.Context, ownerID, id uuid.UUID) (*HostRequest, error) {
	hr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if hr.OwnerID != ownerID {
		return nil, ErrRequestNotFound
	}
	return hr, nil
}

// updateSeatsWithRetry runs a read-transform-CAS loop on the seats document.
// The transform re-runs against a fresh read after every version conflict.
func (s *service) updateSeatsWithRetry(ctx context.Context, id uuid.UUID, transform func(current seats.SeatMap) (seats.SeatMap, error)) error {
	for attempt := 0; attempt < maxSeatWriteAttempts; attempt++ {
		hr, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}

		next, err := transform(hr.Seats)
		if err != nil {
			return err
		}

		err = s.repo.UpdateSeats(ctx, id, next, hr.SeatVersion)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return err
		}
	}
	return ErrConcurrentUpdate
}

// linkedVenueSeats returns the linked venue's seats, or nil when no
// projection exists or no venue sync is wired.
func (s *service) linkedVenueSeats(ctx context.Context, id uuid.UUID) (seats.SeatMap, bool, error) {
	if s.venueSync == nil {
		return nil, false, nil
	}
	venueSeats, ok, err := s.venueSync.SeatsForHostRequest(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return venueSeats, ok, nil
}

// syncLinkedVenue merges the two seat documents and writes the result back
// to both sides. Best-effort by design: the triggering write is already
// durable, so failures only risk transient skew and are logged, never
// surfaced.
func (s *service) syncLinkedVenue(ctx context.Context, id uuid.UUID) {
	if s.venueSync == nil {
		return
	}

	venueSeats, ok, err := s.venueSync.SeatsForHostRequest(ctx, id)
	if err != nil {
		s.log.Warn("venue sync read failed", slog.String("host_request_id", id.String()), slog.Any("error", err))
		return
	}
	if !ok {
		return
	}

	hr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.log.Warn("venue sync reload failed", slog.String("host_request_id", id.String()), slog.Any("error", err))
		return
	}

	merged := seats.Merge(hr.Seats, venueSeats, hr.Capacity, hr.PricePerSeatHour)

	if err := s.venueSync.ReplaceSeats(ctx, id, merged); err != nil {
		s.log.Warn("venue sync write failed", slog.String("host_request_id", id.String()), slog.Any("error", err))
	}
	if err := s.repo.UpdateSeats(ctx, id, merged, hr.SeatVersion); err != nil {
		s.log.Warn("host seat write-back failed", slog.String("host_request_id", id.String()), slog.Any("error", err))
	}
}
