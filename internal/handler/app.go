package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/files-manager/internal/repository"
)

// AppHandler exposes liveness and aggregate counters for the two backing
// stores.
type AppHandler struct {
	Sessions repository.SessionStore
	Users    repository.UserStore
	Files    repository.FileStore
}

func NewAppHandler(sessions repository.SessionStore, users repository.UserStore, files repository.FileStore) *AppHandler {
	return &AppHandler{Sessions: sessions, Users: users, Files: files}
}

// Status reports whether each store answers a probe.  Both probes run
// independently and never produce an error response.
func (h *AppHandler) Status(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	return c.JSON(http.StatusOK, echo.Map{
		"redis": h.Sessions.Alive(ctx),
		"db":    h.Users.Alive(ctx),
	})
}

// Stats returns the user and file totals.  A failure in either count is
// a single aggregate failure, never partial data.
func (h *AppHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve stats"})
	}
	files, err := h.Files.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to retrieve stats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users, "files": files})
}
