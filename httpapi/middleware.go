package httpapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cliptube/accounts"
	"github.com/cliptube/accounts/jwt"
)

const claimsContextKey = "httpapi.claims"

// claimsFrom returns the authenticated caller's access claims, when
// RequireAuth ran for this request.
func claimsFrom(c echo.Context) (*jwt.AccessClaims, bool) {
	claims, ok := c.Get(claimsContextKey).(*jwt.AccessClaims)
	return claims, ok
}

// RequireAuth resolves the caller's identity from the accessToken cookie
// or an Authorization bearer header and injects the claims into the
// request context. Requests without a valid access token get the 401
// envelope.
func RequireAuth(service Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ""
			if cookie, err := c.Cookie(accessCookie); err == nil {
				token = cookie.Value
			}
			if token == "" {
				token = bearerToken(c.Request().Header.Get("Authorization"))
			}
			if token == "" {
				return respondError(c, accounts.ErrUnauthorized)
			}

			claims, err := service.ParseAccess(token)
			if err != nil {
				return respondError(c, accounts.ErrUnauthorized)
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

func bearerToken(value string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(value, prefix) {
		return ""
	}
	return strings.TrimSpace(value[len(prefix):])
}
