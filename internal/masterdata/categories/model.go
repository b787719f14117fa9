package categories

import "time"

// Category groups items.
type Category struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code" validate:"required,max=64"`
	Description string    `json:"description" validate:"max=255"`
	Image       string    `json:"image" validate:"omitempty,max=512"`
	CreatedAt   time.Time `json:"createdAt"`
}
