// internal/handlers/user/select-plan/models.go
package selectplan

import (
	"plan-access-bot/internal/common/transport"
	"plan-access-bot/internal/models"
)

type Input struct {
	UserID int64       `json:"userId"`
	Plan   models.Tier `json:"plan"`
}

type Output struct {
	Plan        models.Tier        `json:"plan"`
	IntentSaved bool               `json:"intentSaved"`
	Text        string             `json:"text"`
	Keyboard    transport.Keyboard `json:"-"`
}
