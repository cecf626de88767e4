package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shopsoft/storefront/internal/events"
	"github.com/shopsoft/storefront/internal/hash"
	"github.com/shopsoft/storefront/internal/models"
	"github.com/shopsoft/storefront/internal/session"
)

const (
	msgBadCredentials = "incorrect username or password"
	msgAccountExists  = "an account with that information already exists"
)

type AuthHandler struct {
	DB       *gorm.DB
	Sessions *session.Store
	Producer *events.Producer
}

func CreateCookie(name string, value string, path string, exp_time time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  exp_time,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}

	return cookie
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		Name       string `json:"name"`
		Address    string `json:"address"`
		Phone      string `json:"phone"`
		PostalCode string `json:"postal_code"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgAccountExists)
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, msgAccountExists)
	}

	var existing models.Account
	result := h.DB.Where("email = ?", req.Email).First(&existing)
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusBadRequest, msgAccountExists)
	}

	pwhash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	account := models.Account{
		Email:      req.Email,
		Hash:       pwhash,
		Role:       models.RoleCustomer,
		Name:       req.Name,
		Address:    req.Address,
		Phone:      req.Phone,
		PostalCode: req.PostalCode,
	}
	if err := h.DB.Create(&account).Error; err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgAccountExists)
	}

	publish(c, h.Producer, map[string]any{
		"type":  "account_registered",
		"email": account.Email,
	})

	return c.JSON(http.StatusCreated, account)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, msgBadCredentials)
	}

	var account models.Account
	if err := h.DB.Where("email = ?", req.Email).First(&account).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, msgBadCredentials)
	}
	if !hash.CheckPassword(account.Hash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, msgBadCredentials)
	}

	sid, err := h.Sessions.Create(account.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create session")
	}
	c.SetCookie(CreateCookie("sid", sid, "/", time.Now().Add(h.Sessions.TTL())))

	redirect := "/catalog"
	if account.Role != models.RoleCustomer {
		redirect = "/staff"
	}

	publish(c, h.Producer, map[string]any{
		"type":  "account_logged_in",
		"email": account.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"email":    account.Email,
		"redirect": redirect,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie("sid")
	if err == nil && cookie.Value != "" {
		h.Sessions.Revoke(cookie.Value)
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(CreateCookie("sid", "", "/", expired))

	return c.JSON(http.StatusOK, echo.Map{
		"message": "logged out",
	})
}
