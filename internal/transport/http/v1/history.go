package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// GetHistory retrieves the authenticated user's recent exchanges.
// GET /v1/history?limit=50
func (h *Handler) GetHistory(c echo.Context) error {
	user, ok := h.authedUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing or invalid token"})
	}

	limit := 50
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = val
		}
	}

	records, err := h.service.History(c.Request().Context(), user.ID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"records": records,
	})
}

// ReloadCatalog swaps in a fresh keyword table.
// POST /v1/admin/reload
func (h *Handler) ReloadCatalog(c echo.Context) error {
	entries := h.service.ReloadCatalog(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}
