// internal/handlers/admin/list-pending/models.go
package listpending

import "plan-access-bot/internal/models"

type Input struct {
	AdminID int64       `json:"adminId"`
	Plan    models.Tier `json:"plan"`
}

type Output struct {
	Plan     models.Tier             `json:"plan"`
	Requests []models.PendingRequest `json:"requests"`
}
