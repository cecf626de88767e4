package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shopsoft/storefront/internal/config"
	"github.com/shopsoft/storefront/internal/hash"
	mwauth "github.com/shopsoft/storefront/internal/middleware/auth"
	"github.com/shopsoft/storefront/internal/models"
	"github.com/shopsoft/storefront/internal/session"
)

type testEnv struct {
	T         *testing.T
	E         *echo.Echo
	DB        *gorm.DB
	Sessions  *session.Store
	Auth      *AuthHandler
	Catalog   *CatalogHandler
	Inventory *InventoryHandler
	Cart      *CartHandler
	Likes     *LikeHandler
	Messages  *MessageHandler
	Customers *CustomerHandler
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	store := session.NewStore(time.Hour)
	t.Cleanup(store.Close)

	env := &testEnv{
		T:        t,
		E:        echo.New(),
		DB:       db,
		Sessions: store,
	}
	env.Auth = &AuthHandler{DB: db, Sessions: store}
	env.Catalog = &CatalogHandler{DB: db}
	env.Inventory = &InventoryHandler{DB: db}
	env.Cart = &CartHandler{DB: db, Sessions: store}
	env.Likes = &LikeHandler{DB: db}
	env.Messages = &MessageHandler{DB: db}
	env.Customers = &CustomerHandler{DB: db}
	return env
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// authedRequest mimics the session middleware by setting the email
// context value directly.
func (env *testEnv) authedRequest(method, path string, body interface{}, email string) (*httptest.ResponseRecorder, echo.Context) {
	rec, c := env.doJSONRequest(method, path, body)
	c.Set(mwauth.ContextEmail, email)
	return rec, c
}

func (env *testEnv) createAccount(email, password string, role int) models.Account {
	pwhash, err := hash.HashPassword(password)
	require.NoError(env.T, err)
	account := models.Account{
		Email: email,
		Hash:  pwhash,
		Role:  role,
		Name:  "Test User",
	}
	require.NoError(env.T, env.DB.Create(&account).Error)
	return account
}

func (env *testEnv) sidCookie(email string) *http.Cookie {
	sid, err := env.Sessions.Create(email)
	require.NoError(env.T, err)
	return &http.Cookie{Name: "sid", Value: sid, Path: "/"}
}

func (env *testEnv) createItem(id, name string, price float64, quantity int) models.Item {
	item := models.Item{
		ItemID:      id,
		Name:        name,
		Description: "test description",
		Price:       price,
		Quantity:    quantity,
	}
	require.NoError(env.T, env.DB.Create(&item).Error)
	return item
}

func requireHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
	return he
}
