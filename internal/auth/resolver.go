// Package auth turns inbound credentials into resolved users and manages
// the token sessions kept in the session store.  Absent or invalid
// credentials are a normal negative result (nil user, nil error); only
// store failures surface as errors.
package auth

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/files-manager/internal/model"
	"github.com/iliyamo/files-manager/internal/repository"
	"github.com/iliyamo/files-manager/internal/utils"
)

// sessionKeyPrefix namespaces session tokens in the key-value store.
const sessionKeyPrefix = "auth_"

// Resolver bundles the stores consulted during credential resolution.
type Resolver struct {
	Sessions repository.SessionStore
	Users    repository.UserStore
	TTL      time.Duration
}

func NewResolver(sessions repository.SessionStore, users repository.UserStore, ttl time.Duration) *Resolver {
	return &Resolver{Sessions: sessions, Users: users, TTL: ttl}
}

// FromBasicAuth resolves a user from an Authorization header of the exact
// shape "Basic " + base64(email:password).  Any other shape, an unknown
// email or a wrong password resolves to nil without error.
func (r *Resolver) FromBasicAuth(ctx context.Context, header string) (*model.User, error) {
	if header == "" {
		return nil, nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Basic" {
		return nil, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, nil
	}
	creds := string(decoded)
	sep := strings.Index(creds, ":")
	if sep < 0 {
		return nil, nil
	}
	email, password := creds[:sep], creds[sep+1:]

	u, err := r.Users.GetByEmail(ctx, email)
	if err == repository.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, nil
	}
	return &u, nil
}

// FromToken resolves a user from an opaque session token.  A missing
// token, an expired session or a vanished user resolves to nil.
func (r *Resolver) FromToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}
	userID, err := r.Sessions.Get(ctx, sessionKeyPrefix+token)
	if err == repository.ErrSessionMiss {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u, err := r.Users.GetByID(ctx, userID)
	if err == repository.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// EstablishSession creates a fresh opaque token bound to userID for the
// configured TTL and returns it.
func (r *Resolver) EstablishSession(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := r.Sessions.SetWithTTL(ctx, sessionKeyPrefix+token, userID, r.TTL); err != nil {
		return "", err
	}
	return token, nil
}

// TerminateSession deletes the session for token.  Deleting a session
// that is already gone is not an error.
func (r *Resolver) TerminateSession(ctx context.Context, token string) error {
	return r.Sessions.Del(ctx, sessionKeyPrefix+token)
}
