package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/ezwallet/pkg/middleware/auth"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Auth         *AuthHTTP
	Users        *UsersHTTP
	Groups       *GroupsHTTP
	Categories   *CategoriesHTTP
	Transactions *TransactionsHTTP
	Authorizer   *authmw.Authorizer
	Store        Pinger
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := d.Store.Ping(c.Request().Context()); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "store unavailable")
		}
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api")
	simple, admin := d.Authorizer.RequireSimple, d.Authorizer.RequireAdmin

	api.POST("/register", d.Auth.Register)
	api.POST("/admin", d.Auth.RegisterAdmin)
	api.POST("/login", d.Auth.Login)
	api.POST("/logout", d.Auth.Logout)

	api.GET("/users", d.Users.List, admin)
	api.GET("/users/:username", d.Users.Get)
	api.DELETE("/users", d.Users.Delete, admin)

	api.POST("/groups", d.Groups.Create, simple)
	api.GET("/groups", d.Groups.List, admin)
	api.GET("/groups/:name", d.Groups.Get)
	api.PATCH("/groups/:name/add", d.Groups.Add)
	api.PATCH("/groups/:name/insert", d.Groups.Insert, admin)
	api.PATCH("/groups/:name/remove", d.Groups.Remove)
	api.PATCH("/groups/:name/pull", d.Groups.Pull, admin)
	api.DELETE("/groups", d.Groups.Delete, admin)

	api.POST("/categories", d.Categories.Create, admin)
	api.PATCH("/categories/:type", d.Categories.Update, admin)
	api.DELETE("/categories", d.Categories.Delete, admin)
	api.GET("/categories", d.Categories.List, simple)

	tx := d.Transactions
	api.POST("/users/:username/transactions", tx.Create)
	api.GET("/users/:username/transactions", tx.ListByUser)
	api.GET("/users/:username/transactions/category/:category", tx.ListByUserCategory)
	api.DELETE("/users/:username/transactions", tx.Delete)
	api.GET("/groups/:name/transactions", tx.ListByGroup)
	api.GET("/groups/:name/transactions/category/:category", tx.ListByGroup)

	api.GET("/transactions", tx.ListAll, admin)
	api.DELETE("/transactions", tx.DeleteMany, admin)
	api.GET("/transactions/users/:username", tx.AdminListByUser, admin)
	api.GET("/transactions/users/:username/category/:category", tx.AdminListByUser, admin)
	api.GET("/transactions/groups/:name", tx.AdminListByGroup, admin)
	api.GET("/transactions/groups/:name/category/:category", tx.AdminListByGroup, admin)
}
