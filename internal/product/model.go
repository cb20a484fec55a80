package product

import "time"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Image       string    `json:"image"`
	Quantity    int       `json:"quantity"`
	Status      string    `json:"status"`
	Price       float64   `json:"price"`
	CategoryID  int64     `json:"category_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Fields carries the validated attributes for create and update.
type Fields struct {
	Name        string
	Description *string
	Image       string
	Quantity    int
	Status      string
	Price       float64
	CategoryID  int64
}
