package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/paulo1403/ehr-solutions-renewed/pkg/jwtutil"
	"github.com/paulo1403/ehr-solutions-renewed/pkg/logger"
	"github.com/paulo1403/ehr-solutions-renewed/prometheus"
)

// AuthCookieName is the cookie carrying the access token.
const AuthCookieName = "auth-token"

// RefreshCookieName is the cookie carrying the refresh token.
const RefreshCookieName = "refresh-token"

// Context keys populated by AuthMiddleware for downstream handlers.
const (
	ClaimsKey   = "claims"
	UserIDKey   = "user_id"
	ClinicIDKey = "clinic_id"
	RoleKey     = "role"
	EmailKey    = "email"
)

// publicPages are page paths reachable without a session.
var publicPages = map[string]bool{
	"/":         true,
	"/login":    true,
	"/register": true,
}

// publicAPIRoutes are API paths reachable without a session, plus the
// infrastructure endpoints (health, metrics) that monitoring hits without
// credentials.
var publicAPIRoutes = map[string]bool{
	"/api/auth/login":    true,
	"/api/auth/register": true,
	// refresh is called with an expired access token; the handler verifies
	// the refresh cookie on its own.
	"/api/auth/refresh": true,
	"/health":           true,
	"/metrics":          true,
}

// IsPublicPath classifies a request path. Static assets (framework asset
// prefixes, or any path containing a file extension) are always public.
func IsPublicPath(path string) bool {
	if publicPages[path] || publicAPIRoutes[path] {
		return true
	}
	if strings.HasPrefix(path, "/_next") || strings.HasPrefix(path, "/static") {
		return true
	}
	return strings.Contains(path, ".")
}

// AuthMiddleware is the access gate. It runs on every inbound request: public
// paths pass unconditionally; everything else needs a verifiable access token.
// The gate only authenticates — role and tenant checks belong to the
// handlers. Denial is always a redirect to the login page, never a 401.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path

		if IsPublicPath(path) {
			return next(c)
		}

		log := logger.FromEcho(c)

		token := tokenFromRequest(c)
		if token == "" {
			prometheus.RecordAuthError("missing_token")
			return c.Redirect(http.StatusFound, "/login")
		}

		claims := jwtutil.VerifyAccessToken(token)
		if claims == nil {
			// Expired, malformed, and forged tokens all land here on purpose.
			log.Debug("Rejected access token", zap.String("path", path))
			prometheus.RecordAuthError("invalid_token")
			return c.Redirect(http.StatusFound, "/login")
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Set(ClinicIDKey, claims.ClinicID)
		c.Set(RoleKey, claims.Role)
		c.Set(EmailKey, claims.Email)

		return next(c)
	}
}

// tokenFromRequest reads the access token from the auth cookie, falling back
// to a Bearer Authorization header for API clients that do not hold cookies.
func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// ClaimsFromContext returns the verified claims set by AuthMiddleware, or nil
// when the request never passed the gate.
func ClaimsFromContext(c echo.Context) *jwtutil.Claims {
	claims, ok := c.Get(ClaimsKey).(*jwtutil.Claims)
	if !ok {
		return nil
	}
	return claims
}
