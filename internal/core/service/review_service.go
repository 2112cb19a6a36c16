package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopline/shop-api/internal/core/domain"
	"github.com/shopline/shop-api/internal/core/ports"
)

// ReviewService appends and edits reviews embedded in products.
type ReviewService struct {
	users    ports.UserRepository
	products ports.ProductRepository
	validate InputValidator
	log      zerolog.Logger
	now      func() time.Time
}

func NewReviewService(users ports.UserRepository, products ports.ProductRepository, validate InputValidator, log zerolog.Logger) *ReviewService {
	return &ReviewService{users: users, products: products, validate: validate, log: log, now: time.Now}
}

func (s *ReviewService) AddReview(ctx context.Context, userID, productID string, in ports.ReviewInput) ([]domain.Review, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	reviews, err := s.products.AddReview(ctx, productID, domain.Review{
		UserID:      userID,
		Rating:      in.Rating,
		Comment:     in.Comment,
		DateCreated: s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("add review: %w", err)
	}

	s.log.Info().Str("user_id", userID).Str("product_id", productID).Int("rating", in.Rating).Msg("review added")
	return reviews, nil
}

// UpdateReview overwrites rating and comment. Author and creation date
// are preserved. Only the author or an admin may edit.
func (s *ReviewService) UpdateReview(ctx context.Context, claims ports.Claims, productID, reviewID string, in ports.ReviewInput) (*ports.ReviewUpdate, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, claims.UserID); err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	review := product.FindReview(reviewID)
	if review == nil {
		return nil, domain.ErrReviewNotFound
	}
	if review.UserID != claims.UserID && claims.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	if err := s.products.UpdateReview(ctx, productID, reviewID, in.Rating, in.Comment); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", claims.UserID).Str("review_id", reviewID).Msg("review updated")
	return &ports.ReviewUpdate{NewRating: in.Rating, NewComment: in.Comment}, nil
}
