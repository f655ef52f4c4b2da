// Package review lists the newest items of the manual review queue
package review

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

// Lister reads review items, newest first
type Lister interface {
	List(ctx context.Context, count int64) ([]models.ReviewItem, error)
}

// Handler serves the review queue
type Handler struct {
	lister Lister
}

// NewHandler creates a Handler
func NewHandler(lister Lister) *Handler {
	return &Handler{lister: lister}
}

// Register registers review routes
func (h *Handler) Register(g *echo.Group) {
	g.GET("", h.List)
}

// List returns up to ?count= items (default 100, max 1000)
func (h *Handler) List(c echo.Context) error {
	count := int64(100)
	if raw := c.QueryParam("count"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > 1000 {
			return httperror.NewHTTPError(http.StatusBadRequest, "count must be between 1 and 1000")
		}
		count = n
	}

	items, err := h.lister.List(c.Request().Context(), count)
	if err != nil {
		return httperror.NewHTTPError(http.StatusServiceUnavailable, "review queue unavailable")
	}
	return c.JSON(http.StatusOK, items)
}
