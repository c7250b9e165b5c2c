package seats

import (
	"github.com/google/uuid"
)

// BookingOrigin tags who created a booking. The host request document owns
// owner bookings, the venue document owns user bookings; the merge relies on
// this tag so neither side can clobber the other's records.
type BookingOrigin string

const (
	OriginUser  BookingOrigin = "user"
	OriginOwner BookingOrigin = "owner"
)

// Booking is a reserved time interval on a seat for a given date. Dates are
// opaque "YYYY-MM-DD" tokens compared by exact string match with no timezone
// normalization. EndTime is derived for display only and never enters the
// overlap arithmetic.
type Booking struct {
	ID             uuid.UUID     `json:"id"`
	Date           string        `json:"date"`
	StartTime      string        `json:"start_time"`
	EndTime        string        `json:"end_time"`
	Hours          float64       `json:"hours"`
	CreatedBy      BookingOrigin `json:"created_by"`
	CreatedByEmail string        `json:"created_by_email"`
}

// IsUser reports whether the booking was created through the public venue
// endpoint.
func (b Booking) IsUser() bool {
	return b.CreatedBy == OriginUser
}

// IsOwner reports whether the booking belongs to the owner side. Records
// with no origin tag are treated as owner bookings.
func (b Booking) IsOwner() bool {
	return b.CreatedBy == "" || b.CreatedBy == OriginOwner
}

// Seat is a bookable unit within a venue. Seat identity is positional: ID
// must equal the seat's 1-based index within its SeatMap, and maps are never
// stored with gaps.
type Seat struct {
	ID       int       `json:"id"`
	Label    string    `json:"label"`
	Price    float64   `json:"price"`
	Bookings []Booking `json:"bookings"`
}

// SeatMap is the seats document stored as a single JSONB column on both host
// requests and venues. Updates replace the whole array, guarded by the
// document's seat_version counter.
type SeatMap []Seat

// Get returns the seat with the given 1-based id. The second return value is
// false when the id is out of range.
func (m SeatMap) Get(id int) (Seat, bool) {
	if id < 1 || id > len(m) {
		return Seat{}, false
	}
	return m[id-1], true
}

// AppendBooking adds a booking to the seat with the given id. Returns false
// when the seat does not exist.
func (m SeatMap) AppendBooking(seatID int, b Booking) bool {
	if seatID < 1 || seatID > len(m) {
		return false
	}
	m[seatID-1].Bookings = append(m[seatID-1].Bookings, b)
	return true
}

// FindBooking looks up a booking by id on the seat with the given id.
func (m SeatMap) FindBooking(seatID int, bookingID uuid.UUID) (Booking, bool) {
	seat, ok := m.Get(seatID)
	if !ok {
		return Booking{}, false
	}
	for _, b := range seat.Bookings {
		if b.ID == bookingID {
			return b, true
		}
	}
	return Booking{}, false
}

// RemoveBooking deletes a booking by id from the seat with the given id and
// returns the removed record. Returns false when the seat or booking does
// not exist.
func (m SeatMap) RemoveBooking(seatID int, bookingID uuid.UUID) (Booking, bool) {
	if seatID < 1 || seatID > len(m) {
		return Booking{}, false
	}
	bookings := m[seatID-1].Bookings
	for i, b := range bookings {
		if b.ID == bookingID {
			m[seatID-1].Bookings = append(bookings[:i:i], bookings[i+1:]...)
			return b, true
		}
	}
	return Booking{}, false
}

// Clone returns a deep copy of the seat map so callers can mutate a working
// copy without touching the loaded document.
func (m SeatMap) Clone() SeatMap {
	if m == nil {
		return nil
	}
	out := make(SeatMap, len(m))
	for i, seat := range m {
		bookings := make([]Booking, len(seat.Bookings))
		copy(bookings, seat.Bookings)
		seat.Bookings = bookings
		out[i] = seat
	}
	return out
}
