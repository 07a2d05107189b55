// Package subscription is the ledger of paid access plans: activation, deactivation and
// the read-time expiry evaluation every entitlement decision is based on.
package subscription

import (
	"context"
	"sort"
	"strconv"
	"time"

	"plan-access-bot/internal/common/clock"
	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/metrics"
	"plan-access-bot/internal/models"
	"plan-access-bot/internal/store"
)

// Resolver removes a user's pending payment proof once access is granted.
type Resolver interface {
	Resolve(ctx context.Context, userID int64) error
}

// Activation describes a subscription written by Activate.
type Activation struct {
	UserID int64
	Tier   models.Tier
	Days   int
	Expiry time.Time
}

// Standing is the evaluation of one user's record at a point in time.
type Standing struct {
	Active bool
	Tier   models.Tier
}

type Ledger struct {
	store   store.Store
	pending Resolver
	clock   clock.Clock
	loc     *time.Location
	logger  logger.Logger
}

// NewLedger builds a ledger. loc is used to read timestamps persisted without an offset;
// nil means the local zone.
func NewLedger(s store.Store, pending Resolver, clk clock.Clock, loc *time.Location, log logger.Logger) *Ledger {
	if loc == nil {
		loc = time.Local
	}
	return &Ledger{
		store:   s,
		pending: pending,
		clock:   clk,
		loc:     loc,
		logger:  log.WithFields(map[string]interface{}{"component": "subscription-ledger"}),
	}
}

// Activate grants tier to userID for days from now, overwriting any earlier record, and
// resolves the user's pending request.
func (l *Ledger) Activate(ctx context.Context, userID int64, days int, tier models.Tier) (*Activation, error) {
	if days <= 0 {
		return nil, apperrors.NewValidationError("Days must be a positive integer", strconv.Itoa(days))
	}
	if days > MaxDays {
		return nil, apperrors.NewValidationError(daysTooLargeMessage, strconv.Itoa(days))
	}
	if !tier.Valid() {
		return nil, apperrors.NewValidationError("Tier must be VIP or NORMAL", string(tier))
	}

	expiry := l.clock.Now().AddDate(0, 0, days)
	raw, err := store.Encode(models.SubscriptionRecord{
		Type:   tier,
		Expiry: models.FormatTimestamp(expiry),
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	key := strconv.FormatInt(userID, 10)
	err = l.store.Update(ctx, store.Subscriptions, func(r store.Records) error {
		r[key] = raw
		return nil
	})
	if err != nil {
		return nil, err
	}

	if l.pending != nil {
		if err := l.pending.Resolve(ctx, userID); err != nil {
			// The subscription is already written; a leftover request is harmless.
			l.logger.Warn("failed to resolve pending request", map[string]interface{}{
				"userId": userID,
				"error":  err,
			})
		}
	}

	metrics.SubscriptionsActivated.WithLabelValues(string(tier)).Inc()
	l.logger.Info("subscription activated", map[string]interface{}{
		"userId": userID,
		"tier":   string(tier),
		"days":   days,
		"expiry": models.FormatTimestamp(expiry),
	})

	return &Activation{UserID: userID, Tier: tier, Days: days, Expiry: expiry}, nil
}

// Deactivate removes the user's record. A missing record is reported as a NotFound error
// and leaves the store untouched.
func (l *Ledger) Deactivate(ctx context.Context, userID int64) error {
	key := strconv.FormatInt(userID, 10)
	err := l.store.Update(ctx, store.Subscriptions, func(r store.Records) error {
		if _, ok := r[key]; !ok {
			return apperrors.NewNotFoundError("Active subscription", key)
		}
		delete(r, key)
		return nil
	})
	if err != nil {
		return err
	}

	l.logger.Info("subscription deactivated", map[string]interface{}{"userId": userID})
	return nil
}

// Evaluate reads the user's record once and computes both the active flag and the
// effective tier from that snapshot. Corrupt records evaluate as inactive NORMAL.
func (l *Ledger) Evaluate(ctx context.Context, userID int64) Standing {
	records := l.store.Load(ctx, store.Subscriptions)
	return l.evaluate(records, strconv.FormatInt(userID, 10))
}

func (l *Ledger) evaluate(records store.Records, key string) Standing {
	inactive := Standing{Active: false, Tier: models.TierNormal}

	raw, ok := records[key]
	if !ok {
		return inactive
	}
	rec, ok := store.DecodeSubscription(raw)
	if !ok {
		return inactive
	}
	expiry, ok := models.ParseTimestamp(rec.Expiry, l.loc)
	if !ok || !l.clock.Now().Before(expiry) {
		return inactive
	}

	tier := models.TierNormal
	if t, ok := models.ParseTier(string(rec.Type)); ok && t == models.TierVIP {
		tier = models.TierVIP
	}
	return Standing{Active: true, Tier: tier}
}

// IsActive reports whether the user has a record whose expiry parses and lies in the future.
func (l *Ledger) IsActive(ctx context.Context, userID int64) bool {
	return l.Evaluate(ctx, userID).Active
}

// Classify returns VIP only for an active VIP record; everyone else sees NORMAL content.
func (l *Ledger) Classify(ctx context.Context, userID int64) models.Tier {
	return l.Evaluate(ctx, userID).Tier
}

// List returns every record ordered by user id. Each entry is evaluated on its own; a
// corrupt entry is reported with status unknown.
func (l *Ledger) List(ctx context.Context) []models.SubscriptionEntry {
	records := l.store.Load(ctx, store.Subscriptions)
	now := l.clock.Now()

	entries := make([]models.SubscriptionEntry, 0, len(records))
	for key, raw := range records {
		entries = append(entries, l.describe(key, raw, now))
	}

	sort.Slice(entries, func(i, j int) bool {
		return lessUserKey(entries[i].UserID, entries[j].UserID)
	})
	return entries
}

func (l *Ledger) describe(key string, raw []byte, now time.Time) models.SubscriptionEntry {
	entry := models.SubscriptionEntry{UserID: key, Tier: "UNKNOWN", Status: models.StatusUnknown}

	rec, ok := store.DecodeSubscription(raw)
	if !ok {
		return entry
	}
	if rec.Type != "" {
		entry.Tier = string(rec.Type)
	}

	expiry, ok := models.ParseTimestamp(rec.Expiry, l.loc)
	if !ok {
		return entry
	}

	if rec.Type == "" {
		entry.Tier = string(models.TierNormal)
	}
	entry.Expires = expiry.In(l.loc).Format("2006-01-02 15:04")
	if now.Before(expiry) {
		entry.Status = models.StatusActive
	} else {
		entry.Status = models.StatusExpired
	}
	return entry
}

// lessUserKey orders numeric keys numerically and anything else after them, lexically.
func lessUserKey(a, b string) bool {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}
