// internal/models/pending.go
package models

// PendingRequest is an unresolved proof-of-payment submission. ProofReference is the
// transport's file handle; the image itself is never copied.
type PendingRequest struct {
	UserID         int64  `json:"user_id"`
	PlanType       Tier   `json:"plan_type"`
	ProofReference string `json:"photo_file_id"`
	SubmittedAt    string `json:"timestamp"`
}
