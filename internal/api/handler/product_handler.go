package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopline/shop-api/internal/core/ports"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service ports.CatalogService
}

func NewProductHandler(service ports.CatalogService) *ProductHandler {
	return &ProductHandler{service: service}
}

type stockResponse struct {
	StockQuantity int `json:"stockQuantity"`
}

// Create handles POST /products.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        body  body      ports.CreateProductInput  true  "Product"
// @Success      201   {object}  Envelope{data=domain.Product}
// @Failure      400   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var in ports.CreateProductInput
	if err := bind(c, &in); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), in, claims.Role)
	if err != nil {
		return err
	}
	return success(c, http.StatusCreated, "Product added successfully", p)
}

// List handles GET /products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200  {object}  Envelope{data=[]domain.Product}
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return successList(c, http.StatusOK, "Products fetched successfully", products)
}

// Get handles GET /products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  Envelope{data=domain.Product}
// @Failure      404  {object}  Envelope
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Product fetched successfully", p)
}

// Update handles PATCH /products/:id. Only the fields present are changed.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      string                    true  "Product id"
// @Param        body  body      ports.UpdateProductInput  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.Product}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /products/{id} [patch]
func (h *ProductHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var in ports.UpdateProductInput
	if err := bind(c, &in); err != nil {
		return err
	}

	p, err := h.service.Update(c.Request().Context(), c.Param("id"), in, claims.Role)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Product updated successfully", p)
}

// Delete handles DELETE /products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), c.Param("id"), claims.Role); err != nil {
		return err
	}
	return success(c, http.StatusOK, "Product deleted successfully", nil)
}

// FilterByPrice handles GET /products/filter/price.
//
// @Summary      Filter products by price range (inclusive)
// @Tags         products
// @Produce      json
// @Security     TokenAuth
// @Param        minPrice  query     number  true  "Lower bound"
// @Param        maxPrice  query     number  true  "Upper bound"
// @Success      200       {object}  Envelope{data=[]domain.Product}
// @Failure      400       {object}  Envelope
// @Router       /products/filter/price [get]
func (h *ProductHandler) FilterByPrice(c echo.Context) error {
	var in ports.PriceRangeInput
	if err := bind(c, &in); err != nil {
		return err
	}

	products, err := h.service.FilterByPriceRange(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return successList(c, http.StatusOK, "Products fetched successfully", products)
}

// FilterByTitle handles GET /products/filter/title.
//
// @Summary      Filter products by exact title
// @Tags         products
// @Produce      json
// @Security     TokenAuth
// @Param        titleName  query     string  true  "Title"
// @Success      200        {object}  Envelope{data=[]domain.Product}
// @Router       /products/filter/title [get]
func (h *ProductHandler) FilterByTitle(c echo.Context) error {
	products, err := h.service.FilterByTitle(c.Request().Context(), c.QueryParam("titleName"))
	if err != nil {
		return err
	}
	return successList(c, http.StatusOK, "Products fetched successfully", products)
}

// FilterByCategory handles GET /products/filter/category.
//
// @Summary      Filter products by category substring
// @Tags         products
// @Produce      json
// @Param        categoryName  query     string  true  "Category, case-insensitive"
// @Success      200           {object}  Envelope{data=[]domain.Product}
// @Router       /products/filter/category [get]
func (h *ProductHandler) FilterByCategory(c echo.Context) error {
	products, err := h.service.FilterByCategory(c.Request().Context(), c.QueryParam("categoryName"))
	if err != nil {
		return err
	}
	return successList(c, http.StatusOK, "Products fetched successfully", products)
}

// Search handles GET /products/search.
//
// @Summary      Full-text product search
// @Tags         products
// @Produce      json
// @Param        query  query     string  true  "Search terms"
// @Success      200    {object}  Envelope{data=[]domain.Product}
// @Router       /products/search [get]
func (h *ProductHandler) Search(c echo.Context) error {
	products, err := h.service.Search(c.Request().Context(), c.QueryParam("query"))
	if err != nil {
		return err
	}
	return successList(c, http.StatusOK, "Products fetched successfully", products)
}

// GetStock handles GET /products/:id/stock.
//
// @Summary      Read stock level
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  Envelope{data=stockResponse}
// @Failure      404  {object}  Envelope
// @Router       /products/{id}/stock [get]
func (h *ProductHandler) GetStock(c echo.Context) error {
	n, err := h.service.GetStock(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Stock fetched successfully", stockResponse{StockQuantity: n})
}

// SetStock handles PATCH /products/:id/stock.
//
// @Summary      Set stock level
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      string               true  "Product id"
// @Param        body  body      ports.SetStockInput  true  "New stock level"
// @Success      200   {object}  Envelope{data=stockResponse}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /products/{id}/stock [patch]
func (h *ProductHandler) SetStock(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var in ports.SetStockInput
	if err := bind(c, &in); err != nil {
		return err
	}

	n, err := h.service.SetStock(c.Request().Context(), c.Param("id"), in, claims.Role)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "Stock updated successfully", stockResponse{StockQuantity: n})
}
