package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ezwallet/internal/apperr"
	"github.com/Skotchmaster/ezwallet/internal/auth"
	"github.com/Skotchmaster/ezwallet/internal/repo"
	"github.com/Skotchmaster/ezwallet/internal/service"
	"github.com/Skotchmaster/ezwallet/internal/transport"
	authmw "github.com/Skotchmaster/ezwallet/pkg/middleware/auth"
)

type TransactionsHTTP struct {
	Svc    *service.TransactionService
	Groups *service.GroupService
	Auth   *authmw.Authorizer
}

func (h *TransactionsHTTP) owner(c echo.Context) (string, error) {
	username := c.Param("username")
	if res := h.Auth.Verify(c, auth.User{Username: username}); !res.Authorized {
		return "", unauthorized(res)
	}
	return username, nil
}

func (h *TransactionsHTTP) Create(c echo.Context) error {
	username, err := h.owner(c)
	if err != nil {
		return err
	}
	var req transport.TransactionRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	tx, err := h.Svc.Create(c.Request().Context(), username, req)
	if err != nil {
		return err
	}
	return ok(c, tx)
}

func (h *TransactionsHTTP) ListAll(c echo.Context) error {
	views, err := h.Svc.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, views)
}

// ListByUser serves the owner's route, which accepts date and amount filters.
func (h *TransactionsHTTP) ListByUser(c echo.Context) error {
	username, err := h.owner(c)
	if err != nil {
		return err
	}
	var q transport.TransactionQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return apperr.Validation("invalid query")
	}
	filter, err := q.Filter()
	if err != nil {
		return err
	}
	return h.listUser(c, username, "", filter)
}

func (h *TransactionsHTTP) ListByUserCategory(c echo.Context) error {
	username, err := h.owner(c)
	if err != nil {
		return err
	}
	return h.listUser(c, username, c.Param("category"), repo.TransactionFilter{})
}

// AdminListByUser serves both admin user routes, with or without :category.
func (h *TransactionsHTTP) AdminListByUser(c echo.Context) error {
	return h.listUser(c, c.Param("username"), c.Param("category"), repo.TransactionFilter{})
}

func (h *TransactionsHTTP) listUser(c echo.Context, username, category string, filter repo.TransactionFilter) error {
	views, err := h.Svc.ListByUser(c.Request().Context(), username, category, filter)
	if err != nil {
		return err
	}
	return ok(c, views)
}

func (h *TransactionsHTTP) ListByGroup(c echo.Context) error {
	g, err := h.Groups.Find(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	if res := h.Auth.Verify(c, auth.Group{Emails: service.MemberEmails(g)}); !res.Authorized {
		return unauthorized(res)
	}
	views, err := h.Svc.ListByGroup(c.Request().Context(), g, c.Param("category"))
	if err != nil {
		return err
	}
	return ok(c, views)
}

func (h *TransactionsHTTP) AdminListByGroup(c echo.Context) error {
	g, err := h.Groups.Find(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	views, err := h.Svc.ListByGroup(c.Request().Context(), g, c.Param("category"))
	if err != nil {
		return err
	}
	return ok(c, views)
}

func (h *TransactionsHTTP) Delete(c echo.Context) error {
	username, err := h.owner(c)
	if err != nil {
		return err
	}
	var req transport.IDRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if err := h.Svc.Delete(c.Request().Context(), username, req); err != nil {
		return err
	}
	return message(c, "Transaction deleted")
}

func (h *TransactionsHTTP) DeleteMany(c echo.Context) error {
	var req transport.IDsRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	n, err := h.Svc.DeleteMany(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return ok(c, transport.CountMessage{Message: "Transactions deleted", Count: n})
}
