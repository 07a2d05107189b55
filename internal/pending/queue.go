// Package pending tracks the single outstanding payment-proof submission per user.
package pending

import (
	"context"
	"strconv"

	"plan-access-bot/internal/common/clock"
	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/common/logger"
	"plan-access-bot/internal/common/metrics"
	"plan-access-bot/internal/models"
	"plan-access-bot/internal/store"
)

type Queue struct {
	store  store.Store
	clock  clock.Clock
	logger logger.Logger
}

func NewQueue(s store.Store, clk clock.Clock, log logger.Logger) *Queue {
	return &Queue{
		store:  s,
		clock:  clk,
		logger: log.WithFields(map[string]interface{}{"component": "pending-queue"}),
	}
}

// Submit records proofRef as the user's request for plan, replacing any earlier one.
func (q *Queue) Submit(ctx context.Context, userID int64, plan models.Tier, proofRef string) (*models.PendingRequest, error) {
	if !plan.Valid() {
		return nil, apperrors.NewValidationError("Plan must be VIP or NORMAL", string(plan))
	}
	if proofRef == "" {
		return nil, apperrors.NewValidationError("Payment proof is missing", "empty proof reference")
	}

	req := &models.PendingRequest{
		UserID:         userID,
		PlanType:       plan,
		ProofReference: proofRef,
		SubmittedAt:    models.FormatTimestamp(q.clock.Now()),
	}
	raw, err := store.Encode(req)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	key := strconv.FormatInt(userID, 10)
	err = q.store.Update(ctx, store.PendingRequests, func(r store.Records) error {
		r[key] = raw
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PendingRequestsSubmitted.WithLabelValues(string(plan)).Inc()
	q.logger.Info("pending request submitted", map[string]interface{}{
		"userId": userID,
		"plan":   string(plan),
	})
	return req, nil
}

// Resolve removes the user's request. Absence is not an error.
func (q *Queue) Resolve(ctx context.Context, userID int64) error {
	key := strconv.FormatInt(userID, 10)
	return q.store.Update(ctx, store.PendingRequests, func(r store.Records) error {
		if _, ok := r[key]; !ok {
			return store.ErrNoChange
		}
		delete(r, key)
		return nil
	})
}

// Get returns the user's request; found is false when there is none or it is corrupt.
func (q *Queue) Get(ctx context.Context, userID int64) (*models.PendingRequest, bool) {
	records := q.store.Load(ctx, store.PendingRequests)
	raw, ok := records[strconv.FormatInt(userID, 10)]
	if !ok {
		return nil, false
	}
	req, ok := store.DecodePending(raw)
	if !ok {
		return nil, false
	}
	return &req, true
}

// ListByPlan returns every decodable request for plan. Order is unspecified.
func (q *Queue) ListByPlan(ctx context.Context, plan models.Tier) []models.PendingRequest {
	records := q.store.Load(ctx, store.PendingRequests)

	var out []models.PendingRequest
	for key, raw := range records {
		req, ok := store.DecodePending(raw)
		if !ok {
			q.logger.Debug("skipping corrupt pending request", map[string]interface{}{"key": key})
			continue
		}
		if req.PlanType == plan {
			out = append(out, req)
		}
	}
	return out
}
