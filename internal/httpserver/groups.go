package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ezwallet/internal/auth"
	"github.com/Skotchmaster/ezwallet/internal/models"
	"github.com/Skotchmaster/ezwallet/internal/service"
	"github.com/Skotchmaster/ezwallet/internal/transport"
	authmw "github.com/Skotchmaster/ezwallet/pkg/middleware/auth"
)

type GroupsHTTP struct {
	Svc  *service.GroupService
	Auth *authmw.Authorizer
}

func (h *GroupsHTTP) Create(c echo.Context) error {
	claims, _ := authmw.Claims(c)
	var req transport.CreateGroupRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	res, err := h.Svc.Create(c.Request().Context(), claims.Email, req)
	if err != nil {
		return err
	}
	return ok(c, res)
}

func (h *GroupsHTTP) List(c echo.Context) error {
	groups, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, groups)
}

// Get is open to the group's members and to admins.
func (h *GroupsHTTP) Get(c echo.Context) error {
	g, err := h.memberOrAdmin(c)
	if err != nil {
		return err
	}
	return ok(c, service.GroupView(*g))
}

func (h *GroupsHTTP) Add(c echo.Context) error {
	g, err := h.member(c)
	if err != nil {
		return err
	}
	return h.add(c, g)
}

func (h *GroupsHTTP) Insert(c echo.Context) error {
	g, err := h.Svc.Find(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return h.add(c, g)
}

func (h *GroupsHTTP) add(c echo.Context, g *models.Group) error {
	var req transport.EmailsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	res, err := h.Svc.AddMembers(c.Request().Context(), g, req)
	if err != nil {
		return err
	}
	return ok(c, res)
}

func (h *GroupsHTTP) Remove(c echo.Context) error {
	g, err := h.member(c)
	if err != nil {
		return err
	}
	return h.remove(c, g)
}

func (h *GroupsHTTP) Pull(c echo.Context) error {
	g, err := h.Svc.Find(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return h.remove(c, g)
}

func (h *GroupsHTTP) remove(c echo.Context, g *models.Group) error {
	var req transport.EmailsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	res, err := h.Svc.RemoveMembers(c.Request().Context(), g, req)
	if err != nil {
		return err
	}
	return ok(c, res)
}

func (h *GroupsHTTP) Delete(c echo.Context) error {
	var req transport.NameRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), req); err != nil {
		return err
	}
	return message(c, "Group has been deleted")
}

// member loads the :name group and requires the caller to belong to it.
func (h *GroupsHTTP) member(c echo.Context) (*models.Group, error) {
	g, err := h.Svc.Find(c.Request().Context(), c.Param("name"))
	if err != nil {
		return nil, err
	}
	if res := h.Auth.Verify(c, auth.Group{Emails: service.MemberEmails(g)}); !res.Authorized {
		return nil, unauthorized(res)
	}
	return g, nil
}

func (h *GroupsHTTP) memberOrAdmin(c echo.Context) (*models.Group, error) {
	g, err := h.Svc.Find(c.Request().Context(), c.Param("name"))
	if err != nil {
		return nil, err
	}
	if res := h.Auth.Verify(c, auth.Group{Emails: service.MemberEmails(g)}, auth.Admin{}); !res.Authorized {
		return nil, unauthorized(res)
	}
	return g, nil
}
