package booking

import "github.com/iliyamo/restaurant-booking/internal/model"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is one slice of a sorted booking list plus the numbers a pager needs.
type Page struct {
	Bookings    []model.Booking `json:"bookings"`
	TotalItems  int             `json:"total_items"`
	TotalPages  int             `json:"total_pages"`
	CurrentPage int             `json:"current_page"`
	PageSize    int             `json:"page_size"`
}

// ClampPageSize keeps size within [1, MaxPageSize]; non-positive input
// selects DefaultPageSize.
func ClampPageSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Paginate returns the 1-indexed page of bookings. The page number is
// clamped to [1, TotalPages]; an empty input yields page 1 of 0.
func Paginate(bookings []model.Booking, page, pageSize int) Page {
	size := ClampPageSize(pageSize)
	total := len(bookings)
	pages := (total + size - 1) / size

	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	items := make([]model.Booking, end-start)
	copy(items, bookings[start:end])
	return Page{
		Bookings:    items,
		TotalItems:  total,
		TotalPages:  pages,
		CurrentPage: page,
		PageSize:    size,
	}
}
