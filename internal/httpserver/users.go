package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ezwallet/internal/auth"
	"github.com/Skotchmaster/ezwallet/internal/service"
	"github.com/Skotchmaster/ezwallet/internal/transport"
	authmw "github.com/Skotchmaster/ezwallet/pkg/middleware/auth"
)

type UsersHTTP struct {
	Svc  *service.UserService
	Auth *authmw.Authorizer
}

func (h *UsersHTTP) List(c echo.Context) error {
	users, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, users)
}

// Get is open to the user themself and to admins.
func (h *UsersHTTP) Get(c echo.Context) error {
	username := c.Param("username")
	if res := h.Auth.Verify(c, auth.User{Username: username}, auth.Admin{}); !res.Authorized {
		return unauthorized(res)
	}
	user, err := h.Svc.Get(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return ok(c, user)
}

func (h *UsersHTTP) Delete(c echo.Context) error {
	var req transport.EmailRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	res, err := h.Svc.Delete(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return ok(c, res)
}
