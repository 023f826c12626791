package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ezwallet/internal/apperr"
	"github.com/Skotchmaster/ezwallet/internal/auth"
	authmw "github.com/Skotchmaster/ezwallet/pkg/middleware/auth"
)

type envelope struct {
	Data                  any    `json:"data"`
	RefreshedTokenMessage string `json:"refreshedTokenMessage,omitempty"`
}

// ok writes the success envelope, carrying the renewal notice when the access
// token was refreshed during this request.
func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{Data: data, RefreshedTokenMessage: authmw.RenewalMessage(c)})
}

func message(c echo.Context, msg string) error {
	return ok(c, echo.Map{"message": msg})
}

func unauthorized(res auth.Result) error {
	return echo.NewHTTPError(http.StatusUnauthorized, res.Cause)
}

// bindBody decodes the JSON body only; path and query values never leak into DTOs.
func bindBody(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return apperr.Validation("invalid body")
	}
	return nil
}

// ErrorHandler renders every failure as {"error": message}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, msg := http.StatusInternalServerError, "internal error"
	var (
		ae *apperr.Error
		he *echo.HTTPError
	)
	switch {
	case errors.As(err, &ae):
		status, msg = apperr.Status(ae.Kind), ae.Message
	case errors.As(err, &he):
		status = he.Code
		if s, isString := he.Message.(string); isString {
			msg = s
		} else {
			msg = fmt.Sprint(he.Message)
		}
		if status >= http.StatusInternalServerError {
			msg = "internal error"
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, echo.Map{"error": msg})
}
