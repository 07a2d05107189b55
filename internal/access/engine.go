// Package access is the single authority consulted before any content is listed or served.
package access

import (
	"context"

	"plan-access-bot/internal/models"
	"plan-access-bot/internal/subscription"
)

// Decision is the outcome of DecideAccess.
type Decision struct {
	Entitled bool
	Tier     models.Tier
}

// Folders returns the catalog folders unlocked by the decision, in display order.
func (d Decision) Folders() []string {
	if !d.Entitled {
		return nil
	}
	if d.Tier == models.TierVIP {
		return []string{string(models.TierNormal), string(models.TierVIP)}
	}
	return []string{string(models.TierNormal)}
}

// Allows reports whether a file from folder may be sent.
func (d Decision) Allows(folder string) bool {
	for _, f := range d.Folders() {
		if f == folder {
			return true
		}
	}
	return false
}

// Ledger is the part of the subscription ledger the engine reads.
type Ledger interface {
	Evaluate(ctx context.Context, userID int64) subscription.Standing
}

type Engine struct {
	ledger Ledger
}

func NewEngine(ledger Ledger) *Engine {
	return &Engine{ledger: ledger}
}

// DecideAccess: Entitled is the ledger's active flag and Tier its classification, both
// taken from the same read.
func (e *Engine) DecideAccess(ctx context.Context, userID int64) Decision {
	standing := e.ledger.Evaluate(ctx, userID)
	return Decision{Entitled: standing.Active, Tier: standing.Tier}
}
