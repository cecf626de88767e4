package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shopsoft/storefront/internal/events"
	mwauth "github.com/shopsoft/storefront/internal/middleware/auth"
	"github.com/shopsoft/storefront/internal/models"
	"github.com/shopsoft/storefront/internal/session"
)

type CartHandler struct {
	DB       *gorm.DB
	Sessions *session.Store
	Producer *events.Producer
}

type cartEntry struct {
	ID       uint   `json:"id"`
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Quantity uint   `json:"quantity"`
}

// AddToCart sits on the public item route: the availability gate runs
// first, the session is required only for the cart write. Every call
// inserts a fresh row, repeated adds are not merged.
func (h *CartHandler) AddToCart(c echo.Context) error {
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

	email, err := mwauth.ResolveEmail(c, h.Sessions)
	if err != nil {
		return err
	}

	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	row := models.CartItem{
		Email:    email,
		ItemID:   itemID,
		Quantity: req.Quantity,
	}
	if err := h.DB.Create(&row).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, map[string]any{
		"type":     "cart_item_added",
		"email":    email,
		"item_id":  itemID,
		"quantity": req.Quantity,
	})

	return c.JSON(http.StatusCreated, row)
}

func (h *CartHandler) GetCart(c echo.Context) error {
	email := c.Get(mwauth.ContextEmail).(string)

	entries, err := h.loadCart(h.DB, email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *CartHandler) loadCart(db *gorm.DB, email string) ([]cartEntry, error) {
	var rows []models.CartItem
	if err := db.Where("email = ?", email).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ItemID)
	}
	names := map[string]string{}
	if len(ids) > 0 {
		var items []models.Item
		if err := db.Where("item_id IN ?", ids).Find(&items).Error; err != nil {
			return nil, err
		}
		for _, it := range items {
			names[it.ItemID] = it.Name
		}
	}

	entries := make([]cartEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, cartEntry{
			ID:       r.ID,
			ItemID:   r.ItemID,
			Name:     names[r.ItemID],
			Quantity: r.Quantity,
		})
	}
	return entries, nil
}

// Checkout turns the cart into a purchase in one transaction: the
// purchase row, one line per cart row, stock adjustment, a message to
// every staff account per item, and the cart cleared. The purchase ID
// comes from the generated key.
func (h *CartHandler) Checkout(c echo.Context) error {
	email := c.Get(mwauth.ContextEmail).(string)

	var (
		purchase models.Purchase
		lines    []models.PurchaseItem
	)

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var rows []models.CartItem
		if err := tx.Where("email = ?", email).Order("id ASC").Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "no items in cart")
		}

		purchase = models.Purchase{Email: email, CreatedAt: time.Now().UTC()}
		if err := tx.Create(&purchase).Error; err != nil {
			return err
		}

		var staff []string
		if err := tx.Model(&models.Account{}).
			Where("role = ?", models.RoleStaff).
			Pluck("email", &staff).Error; err != nil {
			return err
		}

		lines = make([]models.PurchaseItem, 0, len(rows))
		for _, r := range rows {
			var item models.Item
			if err := tx.Where("item_id = ?", r.ItemID).First(&item).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusBadRequest, msgItemUnavailable)
				}
				return err
			}

			item.Quantity -= int(r.Quantity)
			item.Sold += int(r.Quantity)
			if err := tx.Save(&item).Error; err != nil {
				return err
			}

			line := models.PurchaseItem{
				PurchaseID: purchase.ID,
				ItemID:     r.ItemID,
				Quantity:   r.Quantity,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
			lines = append(lines, line)

			for _, to := range staff {
				msg := models.Message{
					Content:   fmt.Sprintf("Item ID: %s\nQuantity: %d\nOrder Number: %d", r.ItemID, r.Quantity, purchase.ID),
					Subject:   fmt.Sprintf("Order #%d", purchase.ID),
					FromEmail: email,
					ToEmail:   to,
					SentAt:    time.Now().UTC(),
				}
				if err := tx.Create(&msg).Error; err != nil {
					return err
				}
			}
		}

		return tx.Where("email = ?", email).Delete(&models.CartItem{}).Error
	})
	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			return he
		}
		return echo.NewHTTPError(http.StatusInternalServerError, txErr.Error())
	}

	publish(c, h.Producer, map[string]any{
		"type":        "order_placed",
		"email":       email,
		"purchase_id": purchase.ID,
		"lines":       len(lines),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"purchase_id": purchase.ID,
		"items":       lines,
		"redirect":    "/catalog",
	})
}
