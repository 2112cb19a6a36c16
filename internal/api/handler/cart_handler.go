package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopline/shop-api/internal/core/ports"
)

type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// Add handles POST /user/cart.
//
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        body  body      ports.AddCartItemInput  true  "Product and quantity (default 1)"
// @Success      200   {object}  Envelope{data=[]domain.CartLine}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /user/cart [post]
func (h *CartHandler) Add(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var in ports.AddCartItemInput
	if err := bind(c, &in); err != nil {
		return err
	}

	lines, err := h.service.AddItem(c.Request().Context(), claims.UserID, in)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Product added to the cart", lines)
}

// List handles GET /user/cart.
//
// @Summary      List cart items with their products
// @Tags         cart
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  Envelope{data=[]ports.CartItem}
// @Failure      404  {object}  Envelope
// @Router       /user/cart [get]
func (h *CartHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	items, err := h.service.ListItems(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return successList(c, http.StatusOK, "Cart retrieved successfully", items)
}

// Update handles PATCH /user/cart/:id.
//
// @Summary      Change a cart line quantity
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      string                     true  "Cart line id"
// @Param        body  body      ports.UpdateCartItemInput  true  "New quantity"
// @Success      200   {object}  Envelope{data=domain.CartLine}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /user/cart/{id} [patch]
func (h *CartHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var in ports.UpdateCartItemInput
	if err := bind(c, &in); err != nil {
		return err
	}

	line, err := h.service.UpdateItem(c.Request().Context(), claims.UserID, c.Param("id"), in)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Cart item updated", line)
}

// Remove handles DELETE /user/cart/:id.
//
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      string  true  "Cart line id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /user/cart/{id} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.service.RemoveItem(c.Request().Context(), claims.UserID, c.Param("id")); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Cart item removed", nil)
}

// Checkout handles POST /user/cart/checkout.
//
// @Summary      Check out the cart
// @Tags         cart
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  Envelope{data=ports.CheckoutResult}
// @Failure      400  {object}  Envelope
// @Failure      409  {object}  Envelope
// @Router       /user/cart/checkout [post]
func (h *CartHandler) Checkout(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	result, err := h.service.Checkout(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Checkout completed", result)
}
