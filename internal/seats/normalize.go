package seats

// Normalize returns a seat array of exactly n entries with ids 1..n.
// Existing seats keep their content at matching indices; missing indices are
// filled with empty seats. Normalizing an already normalized array of the
// same length yields an equal array.
func Normalize(m SeatMap, n int) SeatMap {
	if n < 0 {
		n = 0
	}
	out := make(SeatMap, n)
	for i := 0; i < n; i++ {
		if i < len(m) {
			out[i] = m[i]
			if out[i].Bookings == nil {
				out[i].Bookings = []Booking{}
			}
		} else {
			out[i] = Seat{Bookings: []Booking{}}
		}
		out[i].ID = i + 1
	}
	return out
}

// TargetLength computes the normalized length for a set of seat documents:
// the larger of the configured capacity and any side's current length. A
// capacity decrease never drops seats that still exist on either document.
func TargetLength(capacity int, sides ...SeatMap) int {
	n := capacity
	for _, side := range sides {
		if len(side) > n {
			n = len(side)
		}
	}
	return n
}
