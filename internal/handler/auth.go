package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/files-manager/internal/auth"
	"github.com/iliyamo/files-manager/internal/middleware"
	"github.com/iliyamo/files-manager/internal/queue"
	"github.com/iliyamo/files-manager/internal/repository"
	"github.com/iliyamo/files-manager/internal/utils"
)

// AuthHandler bundles dependencies for session and user endpoints.
type AuthHandler struct {
	Resolver   *auth.Resolver
	Users      repository.UserStore
	Jobs       *queue.Dispatcher
	BcryptCost int
}

func NewAuthHandler(r *auth.Resolver, users repository.UserStore, jobs *queue.Dispatcher, bcryptCost int) *AuthHandler {
	return &AuthHandler{Resolver: r, Users: users, Jobs: jobs, BcryptCost: bcryptCost}
}

// ----- DTOs -----

type createUserReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResp struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Connect establishes a session for the Basic-authenticated user and
// returns the opaque token.  RequireBasicAuth has already resolved the
// user into the context.
func (h *AuthHandler) Connect(c echo.Context) error {
	user := middleware.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	token, err := h.Resolver.EstablishSession(ctx, user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// Disconnect terminates the session named by the X-Token header.  The
// delete is idempotent, so a token raced by its own expiry still yields
// a 204.
func (h *AuthHandler) Disconnect(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Resolver.TerminateSession(ctx, c.Request().Header.Get("X-Token")); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateUser registers a new account and schedules the welcome email.
func (h *AuthHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing email"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing email"})
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing password"})
	}

	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to create user"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, hash)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Already exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Unable to create user"})
	}

	h.Jobs.EnqueueWelcomeEmail(u.ID)

	return c.JSON(http.StatusCreated, userResp{ID: u.ID, Email: u.Email})
}

// Me returns the authenticated user's public details.
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	return c.JSON(http.StatusOK, userResp{ID: user.ID, Email: user.Email})
}
