package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shopsoft/storefront/internal/models"
	"github.com/shopsoft/storefront/internal/session"
)

const (
	// Context key under which the resolved account email is stored.
	ContextEmail = "email"

	MsgSessionExpired = "session expired, please log in again"
	MsgForbidden      = "your account does not have permission to access this feature"
)

// ResolveEmail returns the account email for the request's sid cookie.
// Handlers mounted without middleware use it to gate cart interaction
// after the public availability check.
func ResolveEmail(c echo.Context, store *session.Store) (string, error) {
	if v, ok := c.Get(ContextEmail).(string); ok && v != "" {
		return v, nil
	}

	cookie, err := c.Cookie("sid")
	if err != nil || cookie.Value == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, MsgSessionExpired)
	}
	email, ok := store.Resolve(cookie.Value)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, MsgSessionExpired)
	}
	return email, nil
}

// Authorize checks role membership against the accounts table.
func Authorize(db *gorm.DB, email string, roles ...int) (bool, error) {
	var count int64
	err := db.Model(&models.Account{}).
		Where("email = ? AND role IN ?", email, roles).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func Require(store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, err := ResolveEmail(c, store)
			if err != nil {
				return err
			}
			c.Set(ContextEmail, email)
			return next(c)
		}
	}
}

func RequireRoles(store *session.Store, db *gorm.DB, roles ...int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, err := ResolveEmail(c, store)
			if err != nil {
				return err
			}
			ok, err := Authorize(db, email, roles...)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
			if !ok {
				return echo.NewHTTPError(http.StatusForbidden, MsgForbidden)
			}
			c.Set(ContextEmail, email)
			return next(c)
		}
	}
}
