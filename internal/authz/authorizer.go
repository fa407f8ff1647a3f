// Package authz resolves bearer tokens to identities and gates routes by role.
package authz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/task_service/internal/domain"
	"github.com/Skotchmaster/task_service/internal/store"
	"github.com/Skotchmaster/task_service/pkg/logging"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrExpiredCredential = errors.New("expired credential")
	ErrUnknownSubject    = errors.New("unknown subject")
	ErrInsufficientRole  = errors.New("insufficient role")
	ErrBackend           = errors.New("authorization backend failure")
)

type Authorizer struct {
	Tokens store.TokenStore
	Users  store.UserStore
	Now    func() time.Time
}

func NewAuthorizer(tokens store.TokenStore, users store.UserStore) *Authorizer {
	return &Authorizer{Tokens: tokens, Users: users, Now: time.Now}
}

// BearerToken extracts the token from an Authorization header value of the
// form "Bearer <token>". It returns "" for anything else.
func BearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Authorize resolves header to an identity allowed by allowed. It performs one
// token read and, only when the token exists, one user read. Store failures
// are wrapped in ErrBackend and never admit the caller.
func (a *Authorizer) Authorize(ctx context.Context, header string, allowed domain.RoleSet) (domain.Identity, error) {
	l := logging.FromContext(ctx).With("mw", "authz")

	raw := BearerToken(header)
	if raw == "" {
		l.Warn("authz_denied", "status", 401, "reason", "token not provided")
		return domain.Identity{}, ErrMissingCredential
	}

	tok, err := a.Tokens.FindToken(ctx, raw)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("authz_denied", "status", 401, "reason", "token not found")
			return domain.Identity{}, ErrInvalidCredential
		}
		l.Error("authz_failed", "status", 500, "reason", "token lookup failed", "error", err)
		return domain.Identity{}, fmt.Errorf("%w: token lookup: %w", ErrBackend, err)
	}

	if tok.Expired(a.now()) {
		l.Warn("authz_denied", "status", 401, "reason", "token expired", "user_id", tok.UserID, "expires_at", tok.ExpiresAt)
		return domain.Identity{}, ErrExpiredCredential
	}

	user, err := a.Users.GetUser(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Error("authz_dangling_token", "status", 401, "reason", "token references missing user", "user_id", tok.UserID)
			return domain.Identity{}, ErrUnknownSubject
		}
		l.Error("authz_failed", "status", 500, "reason", "user lookup failed", "error", err)
		return domain.Identity{}, fmt.Errorf("%w: user lookup: %w", ErrBackend, err)
	}

	if !allowed.Contains(user.Role) {
		if !user.Role.Valid() {
			l.Warn("authz_denied", "status", 403, "reason", "user has no known role", "user_id", user.ID)
		} else {
			l.Warn("authz_denied", "status", 403, "reason", "insufficient role", "user_id", user.ID, "role", user.Role.String(), "allowed", allowed.String())
		}
		return domain.Identity{}, ErrInsufficientRole
	}

	l.Debug("authz_ok", "user_id", user.ID, "role", user.Role.String())
	return domain.Identity{ID: user.ID, Role: user.Role}, nil
}

func (a *Authorizer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
