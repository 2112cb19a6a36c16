package ports

import (
	"context"

	"github.com/shopline/shop-api/internal/core/domain"
)

type ReviewInput struct {
	Rating  int    `json:"rating"  validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// ReviewUpdate is what UpdateReview reports back.
type ReviewUpdate struct {
	NewRating  int    `json:"newRating"`
	NewComment string `json:"newComment"`
}

type ReviewService interface {
	AddReview(ctx context.Context, userID, productID string, in ReviewInput) ([]domain.Review, error)
	// UpdateReview is restricted to the review's author and admins.
	UpdateReview(ctx context.Context, claims Claims, productID, reviewID string, in ReviewInput) (*ReviewUpdate, error)
}
