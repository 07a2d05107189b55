// internal/handlers/admin/activate-subscription/models.go
package activatesubscription

import "plan-access-bot/internal/models"

type Input struct {
	AdminID int64       `json:"adminId"`
	UserID  int64       `json:"userId"`
	Days    int         `json:"days"`
	Tier    models.Tier `json:"tier"`
}

type Output struct {
	UserID int64       `json:"userId"`
	Tier   models.Tier `json:"tier"`
	Days   int         `json:"days"`
	Expiry string      `json:"expiry"`
}
