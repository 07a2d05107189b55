// internal/store/decode.go
package store

import (
	"encoding/json"

	"plan-access-bot/internal/models"
)

// DecodeSubscription is the typed decode at the store boundary. ok is false when the
// record is corrupt; callers treat a corrupt record as an inactive one.
func DecodeSubscription(raw json.RawMessage) (models.SubscriptionRecord, bool) {
	var rec models.SubscriptionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return models.SubscriptionRecord{}, false
	}
	return rec, true
}

// DecodePending decodes a pending request. A request with no proof reference is corrupt.
func DecodePending(raw json.RawMessage) (models.PendingRequest, bool) {
	var req models.PendingRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return models.PendingRequest{}, false
	}
	if req.ProofReference == "" {
		return models.PendingRequest{}, false
	}
	return req, true
}

// Encode marshals a record for storage.
func Encode(v interface{}) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}
