// internal/models/plan.go
package models

import (
	"strings"
	"time"
)

// Tier is the access level a subscription grants.
type Tier string

const (
	TierNormal Tier = "NORMAL"
	TierVIP    Tier = "VIP"
)

// Tiers lists the recognized tiers in catalog order.
var Tiers = []Tier{TierNormal, TierVIP}

// ParseTier normalizes raw admin or callback input. Matching is case-insensitive.
func ParseTier(raw string) (Tier, bool) {
	switch Tier(strings.ToUpper(strings.TrimSpace(raw))) {
	case TierNormal:
		return TierNormal, true
	case TierVIP:
		return TierVIP, true
	}
	return "", false
}

func (t Tier) Valid() bool {
	return t == TierNormal || t == TierVIP
}

func (t Tier) String() string {
	return string(t)
}

// Timestamp layouts accepted when reading persisted records. The naive layouts cover
// files written by earlier deployments, which stored local time without an offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp parses a persisted timestamp. Values without an offset are read in loc.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp is the layout used for every timestamp this service writes.
func FormatTimestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
