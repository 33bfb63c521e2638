package model

// Table statuses.
const (
	TableAvailable = "available"
	TableReserved  = "reserved"
	TableOccupied  = "occupied"
	TableCleaning  = "cleaning"
)

// Table shapes understood by the floor-plan editor.
const (
	ShapeRound     = "round"
	ShapeSquare    = "square"
	ShapeRectangle = "rectangle"
)

// Table is one seating unit on a location's floor plan. Position and size
// are in editor canvas units; Rotation is in degrees.
type Table struct {
	ID         uint64  `json:"id"`
	LocationID uint64  `json:"location_id"`
	Label      string  `json:"label"`
	Capacity   int     `json:"capacity"`
	Status     string  `json:"status"`
	Shape      string  `json:"shape"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Rotation   float64 `json:"rotation"`
}

// ValidTableStatus reports whether s is a known table status.
func ValidTableStatus(s string) bool {
	switch s {
	case TableAvailable, TableReserved, TableOccupied, TableCleaning:
		return true
	}
	return false
}

// ValidTableShape reports whether s is a known table shape.
func ValidTableShape(s string) bool {
	return s == ShapeRound || s == ShapeSquare || s == ShapeRectangle
}
