// Package authmw adapts the Decision Engine to echo: it reads the session
// cookies, applies renewals to the response and checks revocation.
package authmw

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ezwallet/internal/auth"
	"github.com/Skotchmaster/ezwallet/pkg/cookies"
	"github.com/Skotchmaster/ezwallet/pkg/logging"
	"github.com/Skotchmaster/ezwallet/pkg/tokens"
)

const (
	ctxClaims         = "auth_claims"
	ctxRenewalMessage = "refreshedTokenMessage"
	ctxRenewed        = "auth_access_renewed"
)

// SessionStore tells whether refreshToken is still the one on file for username.
type SessionStore interface {
	RefreshTokenMatches(ctx context.Context, username, refreshToken string) (bool, error)
}

type Authorizer struct {
	engine   *auth.Engine
	sessions SessionStore
}

// New builds an Authorizer. sessions may be nil, which skips the revocation
// check on renewal.
func New(engine *auth.Engine, sessions SessionStore) *Authorizer {
	return &Authorizer{engine: engine, sessions: sessions}
}

// Verify runs the engine for the request cookies. It may be called more than
// once per request; the renewed access cookie is only written the first time.
func (a *Authorizer) Verify(c echo.Context, capabilities ...auth.Capability) auth.Result {
	res := a.engine.VerifyAny(cookieValue(c, cookies.AccessName), cookieValue(c, cookies.RefreshName), capabilities...)
	if res.Renewal == nil {
		if res.Claims != nil {
			c.Set(ctxClaims, res.Claims)
		}
		return res
	}

	l := logging.FromContext(c.Request().Context()).With("component", "authorizer")
	if a.sessions != nil {
		ok, err := a.sessions.RefreshTokenMatches(c.Request().Context(), res.Claims.Username, cookieValue(c, cookies.RefreshName))
		if err != nil {
			l.Error("revocation_check_failed", "username", res.Claims.Username, "err", err)
		}
		if err != nil || !ok {
			l.Warn("renewal_refused", "username", res.Claims.Username, "reason", "refresh token revoked")
			return auth.Result{Cause: auth.CauseLoginAgain}
		}
	}

	if renewed, _ := c.Get(ctxRenewed).(bool); !renewed {
		c.SetCookie(cookies.Access(res.Renewal.AccessToken))
		c.Set(ctxRenewed, true)
		l.Info("access_renewed", "username", res.Claims.Username)
	}
	c.Set(ctxRenewalMessage, res.Renewal.Message)
	c.Set(ctxClaims, res.Claims)
	return res
}

// Require guards a route with static capabilities.
func (a *Authorizer) Require(capabilities ...auth.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if res := a.Verify(c, capabilities...); !res.Authorized {
				return echo.NewHTTPError(http.StatusUnauthorized, res.Cause)
			}
			return next(c)
		}
	}
}

func (a *Authorizer) RequireSimple(next echo.HandlerFunc) echo.HandlerFunc {
	return a.Require(auth.Simple{})(next)
}

func (a *Authorizer) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return a.Require(auth.Admin{})(next)
}

// Claims returns the identity established by the last successful Verify.
func Claims(c echo.Context) (*tokens.Claims, bool) {
	claims, ok := c.Get(ctxClaims).(*tokens.Claims)
	return claims, ok
}

// RenewalMessage returns the notice recorded when the access token was renewed.
func RenewalMessage(c echo.Context) string {
	msg, _ := c.Get(ctxRenewalMessage).(string)
	return msg
}

func cookieValue(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
