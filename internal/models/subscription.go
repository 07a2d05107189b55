package models

// SubscriptionRecord is the persisted form of a user's access plan, keyed by the
// stringified user id in the subscriptions collection.
type SubscriptionRecord struct {
	Type   Tier   `json:"type"`
	Expiry string `json:"expiry"`
}

// SubscriptionStatus is the computed state of a record at listing time.
type SubscriptionStatus string

const (
	StatusActive  SubscriptionStatus = "active"
	StatusExpired SubscriptionStatus = "expired"
	StatusUnknown SubscriptionStatus = "unknown"
)

// SubscriptionEntry is one row of the administrative listing.
type SubscriptionEntry struct {
	UserID  string             `json:"userId"`
	Tier    string             `json:"tier"`
	Status  SubscriptionStatus `json:"status"`
	Expires string             `json:"expires,omitempty"`
}
