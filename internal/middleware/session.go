package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/files-manager/internal/auth"
	"github.com/iliyamo/files-manager/internal/model"
)

// userContextKey is where resolving middleware stores the *model.User.
const userContextKey = "user"

// CurrentUser returns the resolved user stored in the echo context, or
// nil when the request carried no valid credentials.
func CurrentUser(c echo.Context) *model.User {
	if u, ok := c.Get(userContextKey).(*model.User); ok {
		return u
	}
	return nil
}

// RequireSession validates the X-Token header against the session store
// and injects the resolved user into the request context.  Requests
// without a live session are rejected with 401; store failures map to a
// 500 so they are not mistaken for bad credentials.
func RequireSession(r *auth.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, err := r.FromToken(c.Request().Context(), c.Request().Header.Get("X-Token"))
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
			}
			if u == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
			}
			c.Set(userContextKey, u)
			return next(c)
		}
	}
}

// OptionalSession resolves the X-Token header when present but never
// rejects the request.  Content retrieval uses it so public files stay
// reachable without a session.
func OptionalSession(r *auth.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, err := r.FromToken(c.Request().Context(), c.Request().Header.Get("X-Token"))
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
			}
			if u != nil {
				c.Set(userContextKey, u)
			}
			return next(c)
		}
	}
}

// RequireBasicAuth validates an Authorization: Basic header against the
// identity store and injects the resolved user.  Anything short of a
// correct email/password pair is a 401.
func RequireBasicAuth(r *auth.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, err := r.FromBasicAuth(c.Request().Context(), c.Request().Header.Get("Authorization"))
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
			}
			if u == nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
			}
			c.Set(userContextKey, u)
			return next(c)
		}
	}
}
