package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shopsoft/storefront/internal/events"
	mwauth "github.com/shopsoft/storefront/internal/middleware/auth"
	"github.com/shopsoft/storefront/internal/models"
)

const msgMessageForbidden = "your account does not have permission to access this message"

type MessageHandler struct {
	DB       *gorm.DB
	Producer *events.Producer
}

type inboxEntry struct {
	ID        uint      `json:"id"`
	FromEmail string    `json:"from_email"`
	SentAt    time.Time `json:"sent_at"`
	Subject   string    `json:"subject"`
}

func (h *MessageHandler) Inbox(c echo.Context) error {
	email := c.Get(mwauth.ContextEmail).(string)

	var inbox []inboxEntry
	if err := h.DB.Model(&models.Message{}).
		Where("to_email = ?", email).
		Order("sent_at DESC").
		Find(&inbox).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, inbox)
}

// MessageStaff broadcasts one message per staff account.
func (h *MessageHandler) MessageStaff(c echo.Context) error {
	email := c.Get(mwauth.ContextEmail).(string)

	var req struct {
		Content string `json:"content"`
		Subject string `json:"subject"`
	}
	if err := c.Bind(&req); err != nil || req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, msgIncompleteInfo)
	}

	var staff []string
	if err := h.DB.Model(&models.Account{}).
		Where("role = ?", models.RoleStaff).
		Pluck("email", &staff).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	for _, to := range staff {
		msg := models.Message{
			Content:   req.Content,
			Subject:   req.Subject,
			FromEmail: email,
			ToEmail:   to,
			SentAt:    time.Now().UTC(),
		}
		if err := h.DB.Create(&msg).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	publish(c, h.Producer, map[string]any{
		"type":       "message_sent",
		"email":      email,
		"recipients": len(staff),
	})

	return c.JSON(http.StatusOK, echo.Map{
		"sent":     len(staff),
		"redirect": "/catalog",
	})
}

// Send delivers a message to one recipient. Staff and manager only.
func (h *MessageHandler) Send(c echo.Context) error {
	email := c.Get(mwauth.ContextEmail).(string)

	var req struct {
		Content string `json:"content"`
		Subject string `json:"subject"`
		ToEmail string `json:"to_email"`
	}
	if err := c.Bind(&req); err != nil || req.Content == "" || req.ToEmail == "" {
		return echo.NewHTTPError(http.StatusBadRequest, msgIncompleteInfo)
	}

	msg := models.Message{
		Content:   req.Content,
		Subject:   req.Subject,
		FromEmail: email,
		ToEmail:   req.ToEmail,
		SentAt:    time.Now().UTC(),
	}
	if err := h.DB.Create(&msg).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, map[string]any{
		"type":       "message_sent",
		"email":      email,
		"recipients": 1,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"id":       msg.ID,
		"redirect": "/staff",
	})
}

// ViewMessage returns one message, to its recipient only.
func (h *MessageHandler) ViewMessage(c echo.Context) error {
	email := c.Get(mwauth.ContextEmail).(string)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid message id")
	}

	var msg models.Message
	if err := h.DB.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusForbidden, msgMessageForbidden)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if msg.ToEmail != email {
		return echo.NewHTTPError(http.StatusForbidden, msgMessageForbidden)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"from_email": msg.FromEmail,
		"subject":    msg.Subject,
		"content":    msg.Content,
	})
}
