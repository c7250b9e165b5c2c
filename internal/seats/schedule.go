package seats

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const minutesPerDay = 24 * 60

var (
	ErrInvalidTime  = errors.New("invalid time, expected HH:MM")
	ErrInvalidDate  = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidHours = errors.New("hours must be greater than zero")
)

// Reasons reported for per-seat booking failures.
const (
	ReasonSeatNotFound = "Seat not found"
	ReasonSeatBooked   = "Seat already booked for selected time"
)

// SeatFailure describes why one seat in a booking request was rejected.
type SeatFailure struct {
	SeatID int    `json:"seat_id"`
	Reason string `json:"reason"`
}

// ConflictError rejects a booking request with the full list of per-seat
// failures. The request is all-or-nothing: one failing seat rejects every
// seat in the set.
type ConflictError struct {
	Failures []SeatFailure
}

func (e *ConflictError) Error() string {
	return "seat booking conflict"
}

// Interval is a half-open [Start, End) range of minutes from midnight. End
// is deliberately uncapped: a booking that crosses midnight keeps its raw
// end (23:00 + 2h -> 1620), so overlap checks never treat it as wrapping.
type Interval struct {
	Start int
	End   int
}

// NewInterval builds the interval for a requested start time and duration.
func NewInterval(startTime string, hours float64) (Interval, error) {
	if hours <= 0 {
		return Interval{}, ErrInvalidHours
	}
	start, err := ParseClock(startTime)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: start, End: start + int(math.Round(hours*60))}, nil
}

// Overlaps reports half-open interval intersection. Touching endpoints do
// not conflict.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// EndLabel renders the display end time, wrapped past midnight. Cosmetic
// only.
func (iv Interval) EndLabel() string {
	end := ((iv.End % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", end/60, end%60)
}

// ParseClock converts "HH:MM" to minutes from midnight.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, ErrInvalidTime
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrInvalidTime
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ErrInvalidTime
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, ErrInvalidTime
	}
	return hh*60 + mm, nil
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD token. Stored
// dates are compared as opaque strings; this only guards request input.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// NewBooking creates an identity-bearing booking record with its display end
// time precomputed.
func NewBooking(date, startTime string, hours float64, origin BookingOrigin, email string) (Booking, error) {
	if !ValidDate(date) {
		return Booking{}, ErrInvalidDate
	}
	iv, err := NewInterval(startTime, hours)
	if err != nil {
		return Booking{}, err
	}
	return Booking{
		ID:             uuid.New(),
		Date:           date,
		StartTime:      startTime,
		EndTime:        iv.EndLabel(),
		Hours:          hours,
		CreatedBy:      origin,
		CreatedByEmail: email,
	}, nil
}

// interval reconstructs a stored booking's raw minute interval. Records with
// unparseable times or non-positive hours are skipped by conflict checks.
func (b Booking) interval() (Interval, bool) {
	start, err := ParseClock(b.StartTime)
	if err != nil || b.Hours <= 0 {
		return Interval{}, false
	}
	return Interval{Start: start, End: start + int(math.Round(b.Hours*60))}, true
}

// FirstConflict returns the first stored booking on the seat whose interval
// overlaps the requested one on the same date. All bookings count,
// regardless of origin.
func (s Seat) FirstConflict(date string, iv Interval) (Booking, bool) {
	for _, b := range s.Bookings {
		if b.Date != date {
			continue
		}
		biv, ok := b.interval()
		if !ok {
			continue
		}
		if iv.Overlaps(biv) {
			return b, true
		}
	}
	return Booking{}, false
}

// CheckSeats validates a booking request against every requested seat and
// returns the full list of per-seat failures. An empty result means all
// seats are free for the interval; any failure rejects the whole request.
func (m SeatMap) CheckSeats(seatIDs []int, date string, iv Interval) []SeatFailure {
	var failures []SeatFailure
	for _, id := range seatIDs {
		seat, ok := m.Get(id)
		if !ok {
			failures = append(failures, SeatFailure{SeatID: id, Reason: ReasonSeatNotFound})
			continue
		}
		if _, conflict := seat.FirstConflict(date, iv); conflict {
			failures = append(failures, SeatFailure{SeatID: id, Reason: ReasonSeatBooked})
		}
	}
	return failures
}
