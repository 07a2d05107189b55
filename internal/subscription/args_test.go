package subscription

import (
	"testing"

	apperrors "plan-access-bot/internal/common/errors"
	"plan-access-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActivateArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		want    *ActivateArgs
		wantMsg string
	}{
		{"valid", "1001 7 VIP", &ActivateArgs{UserID: 1001, Days: 7, Tier: models.TierVIP}, ""},
		{"lowercase tier", "  55  30 normal ", &ActivateArgs{UserID: 55, Days: 30, Tier: models.TierNormal}, ""},
		{"missing tier", "1001 7", nil, ActivateUsage},
		{"extra field", "1001 7 VIP now", nil, ActivateUsage},
		{"bad user id", "bob 7 VIP", nil, "User ID must be an integer"},
		{"bad days", "1001 week VIP", nil, "Days must be an integer"},
		{"zero days", "1001 0 VIP", nil, "Days must be a positive integer"},
		{"bad tier", "1001 7 GOLD", nil, "Tier must be VIP or NORMAL"},
		{"long activation", "42 200000 VIP", &ActivateArgs{UserID: 42, Days: 200000, Tier: models.TierVIP}, ""},
		{"days above limit", "42 1000001 VIP", nil, "Days must be at most 1000000"},
		{"days overflow int", "42 99999999999999999999 VIP", nil, "Days must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseActivateArgs(tt.args)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.wantMsg, apperrors.Normalize(err).Message)
		})
	}
}

func TestParseDeactivateArgs(t *testing.T) {
	id, err := ParseDeactivateArgs(" 123 ")
	require.NoError(t, err)
	assert.Equal(t, int64(123), id)

	_, err = ParseDeactivateArgs("")
	assert.True(t, apperrors.IsValidation(err))

	_, err = ParseDeactivateArgs("1 2")
	assert.True(t, apperrors.IsValidation(err))

	_, err = ParseDeactivateArgs("x")
	assert.True(t, apperrors.IsValidation(err))
}
