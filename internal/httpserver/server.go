package httpserver

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/ezwallet/internal/auth"
	"github.com/Skotchmaster/ezwallet/internal/service"
	"github.com/Skotchmaster/ezwallet/pkg/events"
	authmw "github.com/Skotchmaster/ezwallet/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/ezwallet/pkg/middleware/logging"
	"github.com/Skotchmaster/ezwallet/pkg/tokens"
)

// New builds the echo instance with every service wired over store.
func New(store service.Store, codec *tokens.Codec, pub events.Publisher, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.Secure())
	e.Use(loggingmw.RequestLogger(logger))

	authorizer := authmw.New(auth.NewEngine(codec), store)
	groups := service.NewGroupService(store, pub)

	Register(e, &Deps{
		Auth:         &AuthHTTP{Svc: service.NewAuthService(store, codec, pub)},
		Users:        &UsersHTTP{Svc: service.NewUserService(store, pub), Auth: authorizer},
		Groups:       &GroupsHTTP{Svc: groups, Auth: authorizer},
		Categories:   &CategoriesHTTP{Svc: service.NewCategoryService(store, pub)},
		Transactions: &TransactionsHTTP{Svc: service.NewTransactionService(store, pub), Groups: groups, Auth: authorizer},
		Authorizer:   authorizer,
		Store:        store,
	})
	return e
}
