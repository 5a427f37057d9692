// Package session issues and resolves server-side login sessions.
//
// A session lives in Redis under "session:<id>" with a fixed absolute TTL. The
// client only ever holds a signed token naming that id, so the cookie carries no
// user or password material and a forged cookie is rejected before any Redis lookup.
package session

import (
	"context" // Context for Redis operations
	"fmt"     // Error formatting
	"time"    // Session lifetime

	"kindred/internal/domain" // Importing domain models
	"kindred/internal/utils"  // Token and cache helpers

	"github.com/google/uuid"       // Random session ids
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// CookieName is the name of the session cookie
const CookieName = "kindred_session"

// Info is the identity bound to a session
type Info struct {
	UserID uint        `json:"id"`    // User ID
	Name   string      `json:"name"`  // User display name
	Email  string      `json:"email"` // Normalized user email
	Role   domain.Role `json:"role"`  // User role at login time
}

// Manager creates, resolves and destroys sessions
type Manager struct {
	rdb    *redis.Client // Session store
	secret string        // Token signing key
	ttl    time.Duration // Absolute session lifetime
}

// NewManager returns a session manager backed by the given Redis client
func NewManager(rdb *redis.Client, secret string, ttl time.Duration) *Manager {
	return &Manager{rdb: rdb, secret: secret, ttl: ttl}
}

// TTL returns the session lifetime
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create stores a new session for the user and returns the token to hand to the client
func (m *Manager) Create(ctx context.Context, user *domain.User) (string, *Info, error) {
	info := &Info{UserID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
	id := uuid.NewString() // Random v4 id
	if err := utils.SetCache(ctx, m.rdb, key(id), info, m.ttl); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}
	token, err := utils.GenerateSessionToken(id, m.secret, m.ttl)
	if err != nil {
		_ = utils.DeleteCache(ctx, m.rdb, key(id)) // Do not leave an unreachable session behind
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, info, nil
}

// Resolve returns the session for a token. Missing, malformed, expired or
// destroyed sessions resolve to false; Resolve never returns an error.
func (m *Manager) Resolve(ctx context.Context, token string) (*Info, bool) {
	if token == "" {
		return nil, false
	}
	claims, err := utils.ParseSessionToken(token, m.secret)
	if err != nil {
		return nil, false // Tampered or expired token
	}
	var info Info
	found, err := utils.GetCache(ctx, m.rdb, key(claims.ID), &info)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"session_id": claims.ID,   // Session id
			"error":      err.Error(), // Error message
		}).Warn("Session lookup failed")
		return nil, false
	}
	if !found {
		return nil, false // Logged out or expired in the store
	}
	return &info, true
}

// Destroy removes the session named by the token; unknown tokens are ignored
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := utils.ParseSessionToken(token, m.secret)
	if err != nil {
		return nil // Nothing server-side can be named by an invalid token
	}
	if err := utils.DeleteCache(ctx, m.rdb, key(claims.ID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// key returns the Redis key of a session id
func key(id string) string {
	return "session:" + id
}
