package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vanshdigitals/edutrack/internal/auth"
	"github.com/vanshdigitals/edutrack/internal/utils/logger"
)

var log = logger.New("auth_middleware")

// identityKey is the echo context key the decoded claims are stored under.
// Handlers read the identity only through CurrentUser, never by re-parsing
// headers.
const identityKey = "identity"

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: jwtSecret}
}

// Middleware authenticates the request from its bearer token.
//
// A missing token is 401 while a present-but-invalid token is 403.
// Existing clients distinguish the two cases; do not collapse them to 401.
func (m *AuthMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get("Authorization"))
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
			}

			claims, err := auth.ParseToken(m.jwtSecret, token)
			if err != nil {
				log.Warn("rejected token: %v", err)
				return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
			}

			c.Set(identityKey, claims)
			return next(c)
		}
	}
}

// ParseBearer validates a raw token string outside the middleware chain.
// The websocket endpoint uses it because the upgrade request may carry the
// token in a query parameter instead of a header.
func (m *AuthMiddleware) ParseBearer(token string) (*auth.Claims, error) {
	return auth.ParseToken(m.jwtSecret, token)
}

// CurrentUser returns the identity attached by the authentication gate, or
// nil on routes that never passed through it.
func CurrentUser(c echo.Context) *auth.Claims {
	if claims, ok := c.Get(identityKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// SetCurrentUser attaches an identity directly; only tests use it.
func SetCurrentUser(c echo.Context, claims *auth.Claims) {
	c.Set(identityKey, claims)
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
