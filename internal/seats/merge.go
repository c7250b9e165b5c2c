package seats

// Merge reconciles a host request's seats with its linked venue's seats
// after either side was mutated. Per seat, the venue side contributes its
// user-tagged bookings and the host side its owner-tagged (or untagged)
// bookings, user bookings first. Labels and prices come from the host side
// when the host document has the seat, falling back to the venue side, then
// to an empty label and defaultPrice. The merged array is intended to be
// written back to both documents.
func Merge(hostSeats, venueSeats SeatMap, capacity int, defaultPrice float64) SeatMap {
	n := TargetLength(capacity, hostSeats, venueSeats)
	merged := make(SeatMap, n)

	for i := 0; i < n; i++ {
		id := i + 1
		hostSeat, hostOK := hostSeats.Get(id)
		venueSeat, venueOK := venueSeats.Get(id)

		var label string
		var price float64
		switch {
		case hostOK:
			label, price = hostSeat.Label, hostSeat.Price
		case venueOK:
			label, price = venueSeat.Label, venueSeat.Price
		default:
			price = defaultPrice
		}

		userBookings := filterBookings(venueSeat.Bookings, Booking.IsUser)
		ownerBookings := filterBookings(hostSeat.Bookings, Booking.IsOwner)

		bookings := make([]Booking, 0, len(userBookings)+len(ownerBookings))
		bookings = append(bookings, userBookings...)
		bookings = append(bookings, ownerBookings...)

		merged[i] = Seat{ID: id, Label: label, Price: price, Bookings: bookings}
	}

	return merged
}

func filterBookings(in []Booking, keep func(Booking) bool) []Booking {
	out := make([]Booking, 0, len(in))
	for _, b := range in {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}
