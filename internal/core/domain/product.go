package domain

import "time"

// Review is embedded in its product and addressed by ID.
type Review struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	DateCreated time.Time `json:"dateCreated"`
}

// Product is a catalog entry.
type Product struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Category      string    `json:"category,omitempty"`
	StockQuantity int       `json:"stockQuantity"`
	Reviews       []Review  `json:"reviews"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// FindReview returns the review with the given id, or nil.
func (p *Product) FindReview(reviewID string) *Review {
	for i := range p.Reviews {
		if p.Reviews[i].ID == reviewID {
			return &p.Reviews[i]
		}
	}
	return nil
}

// ProductPatch carries the fields of a partial update. Nil fields are left untouched.
type ProductPatch struct {
	Title         *string
	Description   *string
	Price         *float64
	Category      *string
	StockQuantity *int
}

// Empty reports whether the patch changes nothing.
func (p ProductPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.StockQuantity == nil
}
