// internal/handlers/admin/get-proof/models.go
package getproof

import "plan-access-bot/internal/models"

type Input struct {
	AdminID int64 `json:"adminId"`
	UserID  int64 `json:"userId"`
}

type Output struct {
	Found   bool                   `json:"found"`
	Request *models.PendingRequest `json:"request,omitempty"`
}
