package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shopsoft/storefront/internal/events"
	"github.com/shopsoft/storefront/internal/models"
	"github.com/shopsoft/storefront/internal/search"
)

const msgIncompleteInfo = "incomplete information"

type InventoryHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
	Search   *search.Client
}

func (h *InventoryHandler) List(c echo.Context) error {
	var items []models.Item
	if err := h.DB.Order("item_id ASC").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

// Upsert creates an item, or replaces it wholesale when the ID is
// taken. Replacing resets the sold count: that is the product's
// stated meaning of re-listing an item.
func (h *InventoryHandler) Upsert(c echo.Context) error {
	var req struct {
		ItemID      string   `json:"item_id"`
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Price       float64  `json:"price"`
		Quantity    int      `json:"quantity"`
		ImageURLs   []string `json:"image_urls"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgIncompleteInfo)
	}
	if req.ItemID == "" || req.Name == "" || req.Price < 0 || req.Quantity < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, msgIncompleteInfo)
	}

	item := models.Item{
		ItemID:      req.ItemID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Sold:        0,
	}

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", req.ItemID).Delete(&models.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_id = ?", req.ItemID).Delete(&models.ItemImage{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		for _, url := range req.ImageURLs {
			img := models.ItemImage{ItemID: req.ItemID, ImageURL: url}
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	if err := h.Search.IndexItem(c.Request().Context(), item); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}

	publish(c, h.Producer, map[string]any{
		"type":    "item_upserted",
		"item_id": item.ItemID,
		"name":    item.Name,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"item":     item,
		"redirect": "/staff",
	})
}
