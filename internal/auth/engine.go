// Package auth decides whether a pair of session tokens grants a capability.
//
// The engine is pure: it never touches the credential store and never writes
// to the response. When the access token has expired but the refresh token is
// still valid, the verdict carries a Renewal the caller applies as a new
// access cookie.
package auth

import (
	"errors"

	"github.com/Skotchmaster/ezwallet/pkg/tokens"
)

const RenewalMessage = "Access token has been refreshed. Remember to copy the new one in the headers of subsequent calls"

type Renewal struct {
	AccessToken string
	Message     string
}

type Result struct {
	Authorized bool
	Cause      string
	// Claims is the authoritative identity: the access claims, or the
	// refresh claims when a renewal happened. Nil when the session is unusable.
	Claims  *tokens.Claims
	Renewal *Renewal
}

type Engine struct {
	codec *tokens.Codec
}

func NewEngine(codec *tokens.Codec) *Engine {
	return &Engine{codec: codec}
}

// Verify decides a single capability.
func (e *Engine) Verify(accessToken, refreshToken string, capability Capability) Result {
	return e.VerifyAny(accessToken, refreshToken, capability)
}

// VerifyAny authorizes when any capability holds, checked in order. A failed
// verdict reports the cause of the last capability. With no capabilities the
// session alone is checked, like Simple.
func (e *Engine) VerifyAny(accessToken, refreshToken string, capabilities ...Capability) Result {
	s := e.session(accessToken, refreshToken)
	if s.cause != "" {
		return Result{Cause: s.cause}
	}

	res := Result{Claims: s.claims, Renewal: s.renewal}
	if len(capabilities) == 0 {
		capabilities = []Capability{Simple{}}
	}
	for _, capability := range capabilities {
		ok, cause := capability.check(s.claims)
		res.Cause = cause
		if ok {
			res.Authorized = true
			return res
		}
	}
	return res
}

type session struct {
	claims  *tokens.Claims
	renewal *Renewal
	cause   string
}

func (e *Engine) session(accessToken, refreshToken string) session {
	if accessToken == "" || refreshToken == "" {
		return session{cause: CauseNoSession}
	}

	access, err := e.codec.Verify(accessToken)
	switch {
	case errors.Is(err, tokens.ErrExpired):
		return e.renew(refreshToken)
	case err != nil:
		return session{cause: tokens.Reason(err)}
	}

	refresh, err := e.codec.Verify(refreshToken)
	switch {
	case errors.Is(err, tokens.ErrExpired):
		return session{cause: CauseLoginAgain}
	case err != nil:
		return session{cause: tokens.Reason(err)}
	}

	if !access.Complete() || !refresh.Complete() {
		return session{cause: CauseIncomplete}
	}
	if !access.SameIdentity(refresh) {
		return session{cause: CauseMismatch}
	}
	return session{claims: access}
}

// renew handles an expired access token: the refresh token becomes the
// identity and a fresh access token is signed from its claims.
func (e *Engine) renew(refreshToken string) session {
	refresh, err := e.codec.Verify(refreshToken)
	switch {
	case errors.Is(err, tokens.ErrExpired):
		return session{cause: CauseLoginAgain}
	case err != nil:
		return session{cause: tokens.Reason(err)}
	}
	if !refresh.Complete() {
		return session{cause: CauseIncomplete}
	}

	access, err := e.codec.Sign(refresh.Identity(), tokens.AccessTTL)
	if err != nil {
		return session{cause: tokens.ReasonInvalid}
	}
	return session{
		claims:  refresh,
		renewal: &Renewal{AccessToken: access, Message: RenewalMessage},
	}
}
