package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shopsoft/storefront/internal/models"
)

type CustomerHandler struct {
	DB *gorm.DB
}

// List returns every customer account for the staff back office.
func (h *CustomerHandler) List(c echo.Context) error {
	var accounts []models.Account
	if err := h.DB.Where("role = ?", models.RoleCustomer).
		Order("email ASC").
		Find(&accounts).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, accounts)
}
