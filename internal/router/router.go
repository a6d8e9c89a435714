package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/files-manager/internal/auth"
	"github.com/iliyamo/files-manager/internal/config"
	"github.com/iliyamo/files-manager/internal/handler"
	"github.com/iliyamo/files-manager/internal/middleware"
)

// Register wires the full HTTP surface of the service onto e.  The
// session middleware guards everything user-scoped; /connect is the only
// Basic-authenticated route, and content retrieval carries an optional
// session so public files need no credentials at all.
func Register(e *echo.Echo, app *handler.AppHandler, a *handler.AuthHandler, files *handler.FilesHandler, resolver *auth.Resolver, rdb *redis.Client, rl config.RateLimitConfig) {
	limited := middleware.RateLimit(rl, rdb)
	session := middleware.RequireSession(resolver)

	// Store health and counters.
	e.GET("/status", app.Status)
	e.GET("/stats", app.Stats)

	// Session lifecycle.
	e.GET("/connect", a.Connect, limited, middleware.RequireBasicAuth(resolver))
	e.GET("/disconnect", a.Disconnect, session)

	// Users.
	e.POST("/users", a.CreateUser, limited)
	e.GET("/users/me", a.Me, session)

	// File hierarchy.
	e.POST("/files", files.Upload, session)
	e.GET("/files", files.List, session)
	e.GET("/files/:id", files.Get, session)
	e.PUT("/files/:id/publish", files.Publish, session)
	e.PUT("/files/:id/unpublish", files.Unpublish, session)
	e.GET("/files/:id/data", files.GetContent, middleware.OptionalSession(resolver))

	// Unmatched routes answer a generic "cannot METHOD /path" body.  The
	// error handler catches method mismatches on known paths, which echo
	// would otherwise answer with a 405.
	e.RouteNotFound("/*", notFound)
	e.HTTPErrorHandler = errorHandler(e)
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{
		"error": "cannot " + c.Request().Method + " " + c.Request().URL.Path,
	})
}

func errorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if he, ok := err.(*echo.HTTPError); ok {
			if he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed {
				if !c.Response().Committed {
					_ = notFound(c)
				}
				return
			}
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
