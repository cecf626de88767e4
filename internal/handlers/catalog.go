package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shopsoft/storefront/internal/models"
	"github.com/shopsoft/storefront/internal/util"
)

const msgItemUnavailable = "item does not exist or is sold out"

type CatalogHandler struct {
	DB *gorm.DB
}

type itemListing struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
}

// List serves both the customer catalog and the staff view: a
// paginated id+name listing.
func (h *CatalogHandler) List(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.Item{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var items []itemListing
	if err := h.DB.Model(&models.Item{}).
		Order("item_id ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

// ItemDetail is public up to the availability gate: a missing or
// sold-out item answers the same way before any session handling.
func (h *CatalogHandler) ItemDetail(c echo.Context) error {
	itemID := c.Param("itemID")

	var item models.Item
	if err := h.DB.Where("item_id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, msgItemUnavailable)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if item.Quantity < 1 {
		return echo.NewHTTPError(http.StatusNotFound, msgItemUnavailable)
	}

	var urls []string
	if err := h.DB.Model(&models.ItemImage{}).
		Where("item_id = ?", itemID).
		Pluck("image_url", &urls).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"item_id":     item.ItemID,
		"name":        item.Name,
		"description": item.Description,
		"price":       item.Price,
		"quantity":    item.Quantity,
		"image_urls":  urls,
	})
}
