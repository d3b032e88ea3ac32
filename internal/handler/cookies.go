package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/paulo1403/ehr-solutions-renewed/internal/middleware"
	"github.com/paulo1403/ehr-solutions-renewed/pkg/config"
)

var (
	secureCookies    bool
	accessCookieTTL  = 24 * time.Hour
	refreshCookieTTL = 7 * 24 * time.Hour
)

// Initialize wires handler-level settings from configuration. The Secure
// cookie flag is only set in production so local development over plain HTTP
// keeps working.
func Initialize(cfg *config.Config) {
	secureCookies = cfg.Server.IsProduction()
	accessCookieTTL = cfg.JWT.AccessTTL
	refreshCookieTTL = cfg.JWT.RefreshTTL
}

func newCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		HttpOnly: true,
		Secure:   secureCookies,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   maxAge,
		Path:     "/",
	}
}

func setAuthCookie(c echo.Context, token string) {
	c.SetCookie(newCookie(middleware.AuthCookieName, token, int(accessCookieTTL.Seconds())))
}

func setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(newCookie(middleware.RefreshCookieName, token, int(refreshCookieTTL.Seconds())))
}

// clearAuthCookies expires both session cookies on the client. There is no
// server-side session state to destroy.
func clearAuthCookies(c echo.Context) {
	c.SetCookie(newCookie(middleware.AuthCookieName, "", -1))
	c.SetCookie(newCookie(middleware.RefreshCookieName, "", -1))
}
