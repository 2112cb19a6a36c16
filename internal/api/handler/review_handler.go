package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopline/shop-api/internal/core/ports"
)

type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Add handles POST /products/:id/reviews.
//
// @Summary      Review a product
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      string             true  "Product id"
// @Param        body  body      ports.ReviewInput  true  "Rating 1-5 and comment"
// @Success      200   {object}  Envelope{data=[]domain.Review}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /products/{id}/reviews [post]
func (h *ReviewHandler) Add(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var in ports.ReviewInput
	if err := bind(c, &in); err != nil {
		return err
	}

	reviews, err := h.service.AddReview(c.Request().Context(), claims.UserID, c.Param("id"), in)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Review added", reviews)
}

// Update handles PATCH /products/:id/reviews/:reviewId.
//
// @Summary      Edit a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id        path      string             true  "Product id"
// @Param        reviewId  path      string             true  "Review id"
// @Param        body      body      ports.ReviewInput  true  "New rating and comment"
// @Success      200       {object}  Envelope{data=ports.ReviewUpdate}
// @Failure      403       {object}  Envelope
// @Failure      404       {object}  Envelope
// @Router       /products/{id}/reviews/{reviewId} [patch]
func (h *ReviewHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var in ports.ReviewInput
	if err := bind(c, &in); err != nil {
		return err
	}

	res, err := h.service.UpdateReview(c.Request().Context(), claims, c.Param("id"), c.Param("reviewId"), in)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Review updated", res)
}
