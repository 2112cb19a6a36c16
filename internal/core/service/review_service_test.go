package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopline/shop-api/internal/core/domain"
	"github.com/shopline/shop-api/internal/core/ports"
)

type reviewFixture struct {
	users     *stubUserRepo
	products  *stubProductRepo
	svc       *ReviewService
	authorID  string
	otherID   string
	productID string
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	ctx := context.Background()
	users := newStubUserRepo()
	products := newStubProductRepo()

	author, err := users.Create(ctx, &domain.User{Name: "Ada", Email: "ada@example.com", Role: domain.RoleUser})
	require.NoError(t, err)
	other, err := users.Create(ctx, &domain.User{Name: "Bob", Email: "bob@example.com", Role: domain.RoleUser})
	require.NoError(t, err)
	p, err := products.Create(ctx, &domain.Product{Title: "Kettle", Description: "described", Reviews: []domain.Review{}})
	require.NoError(t, err)

	return &reviewFixture{
		users:     users,
		products:  products,
		svc:       NewReviewService(users, products, testValidator, discardLogger),
		authorID:  author.ID,
		otherID:   other.ID,
		productID: p.ID,
	}
}

func (f *reviewFixture) addReview(t *testing.T) domain.Review {
	t.Helper()
	reviews, err := f.svc.AddReview(context.Background(), f.authorID, f.productID, ports.ReviewInput{Rating: 4, Comment: "solid"})
	require.NoError(t, err)
	require.NotEmpty(t, reviews)
	return reviews[len(reviews)-1]
}

func TestReviewService_AddReview(t *testing.T) {
	f := newReviewFixture(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return fixed }

	reviews, err := f.svc.AddReview(context.Background(), f.authorID, f.productID, ports.ReviewInput{Rating: 5, Comment: "great"})
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	r := reviews[0]
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, f.authorID, r.UserID)
	assert.Equal(t, 5, r.Rating)
	assert.Equal(t, "great", r.Comment)
	assert.True(t, r.DateCreated.Equal(fixed))
}

func TestReviewService_AddReview_Appends(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddReview(ctx, f.authorID, f.productID, ports.ReviewInput{Rating: 3})
	require.NoError(t, err)
	reviews, err := f.svc.AddReview(ctx, f.otherID, f.productID, ports.ReviewInput{Rating: 1, Comment: "broke"})
	require.NoError(t, err)

	require.Len(t, reviews, 2)
	assert.Equal(t, f.authorID, reviews[0].UserID)
	assert.Equal(t, f.otherID, reviews[1].UserID)
}

func TestReviewService_AddReview_Errors(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddReview(ctx, f.authorID, f.productID, ports.ReviewInput{Rating: 6})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.AddReview(ctx, f.authorID, f.productID, ports.ReviewInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.AddReview(ctx, f.authorID, "missing", ports.ReviewInput{Rating: 3})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = f.svc.AddReview(ctx, "ghost", f.productID, ports.ReviewInput{Rating: 3})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	assert.Empty(t, f.products.byID[f.productID].Reviews)
}

func TestReviewService_UpdateReview_PreservesAuthorAndDate(t *testing.T) {
	f := newReviewFixture(t)
	original := f.addReview(t)

	res, err := f.svc.UpdateReview(context.Background(),
		ports.Claims{UserID: f.authorID, Role: domain.RoleUser},
		f.productID, original.ID, ports.ReviewInput{Rating: 2, Comment: "changed my mind"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.NewRating)
	assert.Equal(t, "changed my mind", res.NewComment)

	stored := f.products.byID[f.productID].FindReview(original.ID)
	require.NotNil(t, stored)
	assert.Equal(t, 2, stored.Rating)
	assert.Equal(t, "changed my mind", stored.Comment)
	assert.Equal(t, f.authorID, stored.UserID)
	assert.True(t, stored.DateCreated.Equal(original.DateCreated))
}

func TestReviewService_UpdateReview_NonAuthorForbidden(t *testing.T) {
	f := newReviewFixture(t)
	original := f.addReview(t)

	_, err := f.svc.UpdateReview(context.Background(),
		ports.Claims{UserID: f.otherID, Role: domain.RoleUser},
		f.productID, original.ID, ports.ReviewInput{Rating: 1})
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 4, f.products.byID[f.productID].FindReview(original.ID).Rating)
}

func TestReviewService_UpdateReview_AdminAllowed(t *testing.T) {
	f := newReviewFixture(t)
	original := f.addReview(t)

	_, err := f.svc.UpdateReview(context.Background(),
		ports.Claims{UserID: f.otherID, Role: domain.RoleAdmin},
		f.productID, original.ID, ports.ReviewInput{Rating: 1, Comment: "moderated"})
	require.NoError(t, err)
	assert.Equal(t, f.authorID, f.products.byID[f.productID].FindReview(original.ID).UserID)
}

func TestReviewService_UpdateReview_NotFound(t *testing.T) {
	f := newReviewFixture(t)
	claims := ports.Claims{UserID: f.authorID, Role: domain.RoleUser}
	ctx := context.Background()

	_, err := f.svc.UpdateReview(ctx, claims, f.productID, "missing", ports.ReviewInput{Rating: 3})
	assert.ErrorIs(t, err, domain.ErrReviewNotFound)

	_, err = f.svc.UpdateReview(ctx, claims, "missing", "missing", ports.ReviewInput{Rating: 3})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
