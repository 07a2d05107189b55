// Package intent remembers which plan a user last selected so that the next payment proof
// can be labelled with it. Entries are ephemeral and expire after a TTL.
package intent

import (
	"context"

	"plan-access-bot/internal/models"
)

// Cache maps a user to the plan type they most recently selected.
type Cache interface {
	SetIntent(ctx context.Context, userID int64, plan models.Tier) error
	// GetIntent returns def when nothing (or nothing valid) is recorded.
	GetIntent(ctx context.Context, userID int64, def models.Tier) models.Tier
}

// Session is one user's view of the cache, handed to the handlers that read or write intent.
type Session struct {
	cache  Cache
	userID int64
}

func NewSession(c Cache, userID int64) *Session {
	return &Session{cache: c, userID: userID}
}

func (s *Session) UserID() int64 { return s.userID }

func (s *Session) Select(ctx context.Context, plan models.Tier) error {
	return s.cache.SetIntent(ctx, s.userID, plan)
}

// Plan returns the selected plan, NORMAL if none. Reading does not clear the entry.
func (s *Session) Plan(ctx context.Context) models.Tier {
	return s.cache.GetIntent(ctx, s.userID, models.TierNormal)
}
