package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ezwallet/internal/service"
	"github.com/Skotchmaster/ezwallet/internal/transport"
	"github.com/Skotchmaster/ezwallet/pkg/cookies"
	"github.com/Skotchmaster/ezwallet/pkg/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	var req transport.RegisterRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := h.Svc.Register(c.Request().Context(), req); err != nil {
		return err
	}
	return message(c, "User added successfully")
}

func (h *AuthHTTP) RegisterAdmin(c echo.Context) error {
	var req transport.RegisterRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := h.Svc.RegisterAdmin(c.Request().Context(), req); err != nil {
		return err
	}
	return message(c, "Admin added successfully")
}

func (h *AuthHTTP) Login(c echo.Context) error {
	var req transport.LoginRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	res, err := h.Svc.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}

	c.SetCookie(cookies.Access(res.AccessToken))
	c.SetCookie(cookies.Refresh(res.RefreshToken))
	return ok(c, res)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	var refresh string
	if ck, err := c.Cookie(cookies.RefreshName); err == nil {
		refresh = ck.Value
	}
	if err := h.Svc.Logout(ctx, refresh); err != nil {
		return err
	}

	c.SetCookie(cookies.DeleteCookie(cookies.AccessName))
	c.SetCookie(cookies.DeleteCookie(cookies.RefreshName))
	logging.FromContext(ctx).Info("logout_cookies_cleared")
	return message(c, "User logged out")
}
