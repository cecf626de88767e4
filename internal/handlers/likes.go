package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shopsoft/storefront/internal/events"
	mwauth "github.com/shopsoft/storefront/internal/middleware/auth"
	"github.com/shopsoft/storefront/internal/models"
)

type LikeHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

// Toggle likes an item the account has not liked yet, and unlikes one
// it has. The existence check and the write share a transaction so
// the toggle cannot double-fire.
func (h *LikeHandler) Toggle(c echo.Context) error {
	email := c.Get(mwauth.ContextEmail).(string)
	itemID := c.Param("itemID")

	var item models.Item
	if err := h.DB.Where("item_id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, msgItemUnavailable)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var liked bool
	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Like
		err := tx.Where("email = ? AND item_id = ?", email, itemID).First(&existing).Error
		switch {
		case err == nil:
			liked = false
			return tx.Delete(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			liked = true
			return tx.Create(&models.Like{Email: email, ItemID: itemID}).Error
		default:
			return err
		}
	})
	if txErr != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	publish(c, h.Producer, map[string]any{
		"type":    "like_toggled",
		"email":   email,
		"item_id": itemID,
		"liked":   liked,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"item_id":  itemID,
		"liked":    liked,
		"redirect": "/item/" + itemID,
	})
}

func (h *LikeHandler) ListLiked(c echo.Context) error {
	email := c.Get(mwauth.ContextEmail).(string)

	var ids []string
	if err := h.DB.Model(&models.Like{}).
		Where("email = ?", email).
		Pluck("item_id", &ids).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	listings := []itemListing{}
	if len(ids) > 0 {
		if err := h.DB.Model(&models.Item{}).
			Where("item_id IN ?", ids).
			Order("item_id ASC").
			Find(&listings).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, listings)
}
