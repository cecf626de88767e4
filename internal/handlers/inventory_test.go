package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopsoft/storefront/internal/models"
)

func TestUpsertCreatesItem(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.authedRequest(http.MethodPost, "/inventory", map[string]any{
		"item_id":     "sku-1",
		"name":        "Widget",
		"description": "a widget",
		"price":       9.99,
		"quantity":    5,
		"image_urls":  []string{"http://img/1.png"},
	}, "staff@example.com")
	require.NoError(t, env.Inventory.Upsert(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.Item
	require.NoError(t, env.DB.Where("item_id = ?", "sku-1").First(&item).Error)
	require.Equal(t, "Widget", item.Name)
	require.Equal(t, 5, item.Quantity)
	require.Zero(t, item.Sold)

	var images int64
	require.NoError(t, env.DB.Model(&models.ItemImage{}).
		Where("item_id = ?", "sku-1").Count(&images).Error)
	require.Equal(t, int64(1), images)
}

func TestUpsertReplaceResetsSold(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.DB.Create(&models.Item{
		ItemID: "sku-1", Name: "Old Widget", Price: 5, Quantity: 1, Sold: 7,
	}).Error)
	require.NoError(t, env.DB.Create(&models.ItemImage{
		ItemID: "sku-1", ImageURL: "http://img/old.png",
	}).Error)

	_, c := env.authedRequest(http.MethodPost, "/inventory", map[string]any{
		"item_id":    "sku-1",
		"name":       "New Widget",
		"price":      7.5,
		"quantity":   10,
		"image_urls": []string{"http://img/new1.png", "http://img/new2.png"},
	}, "staff@example.com")
	require.NoError(t, env.Inventory.Upsert(c))

	var items []models.Item
	require.NoError(t, env.DB.Where("item_id = ?", "sku-1").Find(&items).Error)
	require.Len(t, items, 1)
	require.Equal(t, "New Widget", items[0].Name)
	require.Equal(t, 10, items[0].Quantity)
	require.Zero(t, items[0].Sold)

	var urls []string
	require.NoError(t, env.DB.Model(&models.ItemImage{}).
		Where("item_id = ?", "sku-1").Pluck("image_url", &urls).Error)
	require.Len(t, urls, 2)
	require.NotContains(t, urls, "http://img/old.png")
}

func TestUpsertIncompleteInformation(t *testing.T) {
	env := newTestEnv(t)

	cases := []map[string]any{
		{"name": "No ID", "price": 1.0, "quantity": 1},
		{"item_id": "sku-1", "price": 1.0, "quantity": 1},
		{"item_id": "sku-1", "name": "Bad Price", "price": -1.0, "quantity": 1},
		{"item_id": "sku-1", "name": "Bad Quantity", "price": 1.0, "quantity": -1},
	}
	for _, payload := range cases {
		_, c := env.authedRequest(http.MethodPost, "/inventory", payload, "staff@example.com")
		he := requireHTTPError(t, env.Inventory.Upsert(c), http.StatusBadRequest)
		require.Equal(t, msgIncompleteInfo, he.Message)
	}

	var count int64
	require.NoError(t, env.DB.Model(&models.Item{}).Count(&count).Error)
	require.Zero(t, count)
}
