package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shopsoft/storefront/internal/handlers"
	mwauth "github.com/shopsoft/storefront/internal/middleware/auth"
	"github.com/shopsoft/storefront/internal/models"
	"github.com/shopsoft/storefront/internal/session"
)

type Deps struct {
	DB        *gorm.DB
	Sessions  *session.Store
	Auth      *handlers.AuthHandler
	Catalog   *handlers.CatalogHandler
	Inventory *handlers.InventoryHandler
	Cart      *handlers.CartHandler
	Likes     *handlers.LikeHandler
	Messages  *handlers.MessageHandler
	Customers *handlers.CustomerHandler
	Search    *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	// Form pages are rendered client-side; their GETs just answer.
	form := func(c echo.Context) error { return c.JSON(http.StatusOK, echo.Map{}) }

	e.GET("/", form)
	e.POST("/", d.Auth.Login)
	e.GET("/register", form)
	e.POST("/register", d.Auth.Register)
	e.POST("/logout", d.Auth.Logout)

	// Item detail and add-to-cart check availability before any
	// session handling, so they mount outside the authed group.
	e.GET("/item/:itemID", d.Catalog.ItemDetail)
	e.POST("/item/:itemID", d.Cart.AddToCart)

	authed := e.Group("", mwauth.Require(d.Sessions))
	authed.GET("/catalog", d.Catalog.List)
	authed.GET("/search", d.Search.Handler)
	authed.GET("/inbox", d.Messages.Inbox)
	authed.GET("/item/:itemID/like", d.Likes.Toggle)
	authed.GET("/viewlikeditems", d.Likes.ListLiked)
	authed.GET("/viewcart", d.Cart.GetCart)
	authed.POST("/viewcart", d.Cart.Checkout)
	authed.GET("/messagestaff", form)
	authed.POST("/messagestaff", d.Messages.MessageStaff)
	authed.GET("/message/:id", d.Messages.ViewMessage)

	// Only role 1 sees the staff listing; role 2 passes the wider
	// staff-or-manager checks below but not this one.
	staffOnly := mwauth.RequireRoles(d.Sessions, d.DB, models.RoleStaff)
	e.GET("/staff", d.Catalog.List, staffOnly)

	backoffice := mwauth.RequireRoles(d.Sessions, d.DB, models.RoleStaff, models.RoleManager)
	e.GET("/inventory", d.Inventory.List, backoffice)
	e.POST("/inventory", d.Inventory.Upsert, backoffice)
	e.GET("/customerinfo", d.Customers.List, backoffice)
	e.GET("/message", form, backoffice)
	e.POST("/message", d.Messages.Send, backoffice)
}
