package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AccessDeniedMessage is the body sent on any role mismatch.
const AccessDeniedMessage = "Access Denied: You do not have the required permissions."

// RequireRoles gates a route behind a fixed allow-list of role labels.
// Membership is a flat, case-sensitive comparison; there is no role
// hierarchy, so a route that should admit Administrator must list it
// explicitly. The allow-list is captured once at route construction and
// never mutated.
func RequireRoles(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := CurrentUser(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}
			if _, ok := allowed[claims.RoleName]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, AccessDeniedMessage)
			}
			return next(c)
		}
	}
}
