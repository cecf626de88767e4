package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopsoft/storefront/internal/models"
)

func createMessage(t *testing.T, env *testEnv, from, to, subject string) models.Message {
	t.Helper()
	msg := models.Message{
		Content:   "hello",
		Subject:   subject,
		FromEmail: from,
		ToEmail:   to,
		SentAt:    time.Now().UTC(),
	}
	require.NoError(t, env.DB.Create(&msg).Error)
	return msg
}

func TestViewMessageRecipientOnly(t *testing.T) {
	env := newTestEnv(t)
	msg := createMessage(t, env, "staff@example.com", "alice@example.com", "hi")

	_, c := env.authedRequest(http.MethodGet, "/message/1", nil, "bob@example.com")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(msg.ID))
	he := requireHTTPError(t, env.Messages.ViewMessage(c), http.StatusForbidden)
	require.Equal(t, msgMessageForbidden, he.Message)

	rec, c2 := env.authedRequest(http.MethodGet, "/message/1", nil, "alice@example.com")
	c2.SetParamNames("id")
	c2.SetParamValues(fmt.Sprint(msg.ID))
	require.NoError(t, env.Messages.ViewMessage(c2))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "hello", resp["content"])
	require.Equal(t, "staff@example.com", resp["from_email"])
}

func TestInboxListsReceivedOnly(t *testing.T) {
	env := newTestEnv(t)
	createMessage(t, env, "staff@example.com", "alice@example.com", "for alice")
	createMessage(t, env, "staff@example.com", "bob@example.com", "for bob")

	rec, c := env.authedRequest(http.MethodGet, "/inbox", nil, "alice@example.com")
	require.NoError(t, env.Messages.Inbox(c))

	var inbox []inboxEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inbox))
	require.Len(t, inbox, 1)
	require.Equal(t, "for alice", inbox[0].Subject)
}

func TestMessageStaffBroadcast(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount("staff1@example.com", "password", models.RoleStaff)
	env.createAccount("staff2@example.com", "password", models.RoleStaff)
	env.createAccount("manager@example.com", "password", models.RoleManager)

	rec, c := env.authedRequest(http.MethodPost, "/messagestaff", map[string]string{
		"content": "my order never arrived",
		"subject": "complaint",
	}, "customer@example.com")
	require.NoError(t, env.Messages.MessageStaff(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var messages []models.Message
	require.NoError(t, env.DB.Find(&messages).Error)
	require.Len(t, messages, 2)
	for _, m := range messages {
		require.NotEqual(t, "manager@example.com", m.ToEmail)
		require.Equal(t, "customer@example.com", m.FromEmail)
		require.Equal(t, "complaint", m.Subject)
	}
}

func TestSendDirectMessage(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.authedRequest(http.MethodPost, "/message", map[string]string{
		"content":  "your order shipped",
		"subject":  "shipping",
		"to_email": "customer@example.com",
	}, "staff@example.com")
	require.NoError(t, env.Messages.Send(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var msg models.Message
	require.NoError(t, env.DB.Where("to_email = ?", "customer@example.com").First(&msg).Error)
	require.Equal(t, "staff@example.com", msg.FromEmail)
	require.Equal(t, "your order shipped", msg.Content)
}

func TestSendMissingFields(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.authedRequest(http.MethodPost, "/message", map[string]string{
		"subject": "no content or recipient",
	}, "staff@example.com")
	he := requireHTTPError(t, env.Messages.Send(c), http.StatusBadRequest)
	require.Equal(t, msgIncompleteInfo, he.Message)
}
