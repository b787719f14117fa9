package suppliers

import "time"

// Supplier represents a vendor goods are purchased from.
type Supplier struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code" validate:"required,max=64"`
	Name      string    `json:"name" validate:"required,max=255"`
	Email     string    `json:"email" validate:"required,email"`
	Address   string    `json:"address" validate:"required"`
	TP1       string    `json:"tp1" validate:"required,max=32"`
	TP2       string    `json:"tp2" validate:"omitempty,max=32"`
	Date      string    `json:"date" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
}
