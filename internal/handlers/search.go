package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shopsoft/storefront/internal/search"
	"github.com/shopsoft/storefront/internal/util"
)

type SearchHandler struct {
	Search *search.Client
}

func (h *SearchHandler) Handler(c echo.Context) error {
	if !h.Search.Enabled() {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not available")
	}

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query error")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, size := util.Calculate(page, size)

	total, items, err := h.Search.Search(c.Request().Context(), q, from, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "items": items})
}
