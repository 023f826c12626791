package cookies

import (
	"net/http"
	"time"

	"github.com/Skotchmaster/ezwallet/pkg/tokens"
)

const (
	AccessName  = "accessToken"
	RefreshName = "refreshToken"
	Path        = "/api"
)

func CreateCookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     Path,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}

func Access(value string) *http.Cookie {
	return CreateCookie(AccessName, value, tokens.AccessTTL)
}

func Refresh(value string) *http.Cookie {
	return CreateCookie(RefreshName, value, tokens.RefreshTTL)
}

func DeleteCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     Path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	}
}
