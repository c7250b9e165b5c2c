package venues

// ListVenuesQuery filters and paginates the public browsing listing.
type ListVenuesQuery struct {
	Search   string `form:"search" binding:"omitempty,max=255"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// BookSeatsRequest books one time slot across one or more seats. The whole
// request succeeds or fails as a unit.
type BookSeatsRequest struct {
	SeatIDs   []int   `json:"seat_ids" binding:"required,min=1,dive,min=1"`
	Date      string  `json:"date" binding:"required"`
	StartTime string  `json:"start_time" binding:"required"`
	Hours     float64 `json:"hours" binding:"required,gt=0"`
}
