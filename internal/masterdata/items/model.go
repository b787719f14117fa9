package items

import "time"

// Item is a stock keeping unit. UnitPrice and ReOrder are kept as entered;
// reports coerce unparsable values to zero.
type Item struct {
	ID          int64     `json:"id"`
	ItemCode    string    `json:"itemCode" validate:"required,max=64"`
	Category    string    `json:"category" validate:"max=64"`
	UnitPrice   string    `json:"unitPrice" validate:"max=32"`
	Unit        string    `json:"unit" validate:"max=32"`
	ImagePath   string    `json:"imagePath"`
	RackNumber  string    `json:"rackNumber" validate:"max=64"`
	Supplier    string    `json:"supplier" validate:"max=255"`
	ReOrder     string    `json:"reOrder" validate:"max=32"`
	Description string    `json:"description" validate:"max=1024"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
