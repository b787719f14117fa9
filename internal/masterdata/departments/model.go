package departments

import "time"

// Department is an internal unit stock is issued to.
type Department struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name" validate:"required,max=255"`
	Code        string    `json:"code" validate:"required,max=64"`
	Description string    `json:"description" validate:"required"`
	DateCreated time.Time `json:"dateCreated"`
}
