// internal/subscription/args.go
package subscription

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/models"
)

const (
	ActivateUsage   = "Usage: /activate <user_id> <days> <VIP/NORMAL>"
	DeactivateUsage = "Usage: /unactivate <user_id>"
)

// MaxDays keeps expiries inside the four-digit years RFC3339 can store.
const MaxDays = 1_000_000

var daysTooLargeMessage = fmt.Sprintf("Days must be at most %d", MaxDays)

// ActivateArgs is a parsed /activate command.
type ActivateArgs struct {
	UserID int64
	Days   int
	Tier   models.Tier
}

// ParseActivateArgs parses "<user_id> <days> <tier>". The tier is case-insensitive.
func ParseActivateArgs(args string) (*ActivateArgs, error) {
	fields := strings.Fields(args)
	if len(fields) != 3 {
		return nil, apperrors.NewValidationError(ActivateUsage, args)
	}

	userID, err := ParseUserID(fields[0])
	if err != nil {
		return nil, err
	}

	days, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, apperrors.NewValidationError("Days must be an integer", fields[1])
	}
	if days <= 0 {
		return nil, apperrors.NewValidationError("Days must be a positive integer", fields[1])
	}
	if days > MaxDays {
		return nil, apperrors.NewValidationError(daysTooLargeMessage, fields[1])
	}

	tier, ok := models.ParseTier(fields[2])
	if !ok {
		return nil, apperrors.NewValidationError("Tier must be VIP or NORMAL", fields[2])
	}

	return &ActivateArgs{UserID: userID, Days: days, Tier: tier}, nil
}

// ParseDeactivateArgs parses "<user_id>".
func ParseDeactivateArgs(args string) (int64, error) {
	fields := strings.Fields(args)
	if len(fields) != 1 {
		return 0, apperrors.NewValidationError(DeactivateUsage, args)
	}
	return ParseUserID(fields[0])
}

// ParseUserID parses a numeric user identifier.
func ParseUserID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, apperrors.NewValidationError("User ID must be an integer", raw)
	}
	return id, nil
}
