// internal/handlers/user/submit-proof/models.go
package submitproof

import "plan-access-bot/internal/models"

type Input struct {
	User     models.User `json:"user"`
	ProofRef string      `json:"proofRef"`
}

type Output struct {
	Request       *models.PendingRequest `json:"request"`
	Notifications []models.Notification  `json:"notifications"`
}
