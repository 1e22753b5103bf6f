package entities

// DefaultSettings holds the starting hat placement applied when a request
// doesn't override it. Scale is the hat width as a fraction of the portrait
// width, OffsetY is the absolute y-coordinate of the hat's top edge, and
// Rotation is in degrees with positive values tilting counter-clockwise.
type DefaultSettings struct {
	MemberID string  `json:"member_id"`
	Scale    float64 `json:"scale"`
	OffsetX  int     `json:"offset_x"`
	OffsetY  int     `json:"offset_y"`
	Rotation int     `json:"rotation"`
}
