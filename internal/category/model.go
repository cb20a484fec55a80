package category

import "time"

// DefaultID is the id of the seeded "No category" row that products are
// reassigned to when their category is deleted.
const DefaultID int64 = 1

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
