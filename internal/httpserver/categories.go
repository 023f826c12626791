package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ezwallet/internal/service"
	"github.com/Skotchmaster/ezwallet/internal/transport"
)

type CategoriesHTTP struct {
	Svc *service.CategoryService
}

func (h *CategoriesHTTP) Create(c echo.Context) error {
	var req transport.CategoryRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	cat, err := h.Svc.Create(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return ok(c, cat)
}

func (h *CategoriesHTTP) Update(c echo.Context) error {
	var req transport.CategoryRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	res, err := h.Svc.Update(c.Request().Context(), c.Param("type"), req)
	if err != nil {
		return err
	}
	return ok(c, res)
}

func (h *CategoriesHTTP) Delete(c echo.Context) error {
	var req transport.TypesRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	res, err := h.Svc.Delete(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return ok(c, res)
}

func (h *CategoriesHTTP) List(c echo.Context) error {
	cats, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, cats)
}
