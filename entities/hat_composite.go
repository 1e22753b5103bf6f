package entities

import "time"

// HatComposite records the placement used for one posted result message, so
// that adjustment buttons can re-render from the same source image.
type HatComposite struct {
	ID             int64     `json:"id"`
	InteractionID  string    `json:"interaction_id"`
	MessageID      string    `json:"message_id"`
	MemberID       string    `json:"member_id"`
	SourceImageURL string    `json:"source_image_url"`
	BaseWidth      int       `json:"base_width"`
	BaseHeight     int       `json:"base_height"`
	Scale          float64   `json:"scale"`
	OffsetX        int       `json:"offset_x"`
	OffsetY        int       `json:"offset_y"`
	Rotation       int       `json:"rotation"`
	CreatedAt      time.Time `json:"created_at"`
}
