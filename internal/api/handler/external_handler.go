package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopline/shop-api/internal/core/ports"
)

type ExternalHandler struct {
	catalog ports.ExternalCatalog
}

func NewExternalHandler(catalog ports.ExternalCatalog) *ExternalHandler {
	return &ExternalHandler{catalog: catalog}
}

// Fetch handles GET /fetch-external-api and relays the upstream document.
//
// @Summary      Proxy the external product catalog
// @Tags         external
// @Produce      json
// @Success      200  {object}  Envelope
// @Failure      502  {object}  Envelope
// @Router       /fetch-external-api [get]
func (h *ExternalHandler) Fetch(c echo.Context) error {
	body, err := h.catalog.Fetch(c.Request().Context())
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, "External data fetched successfully", body)
}
