// internal/handlers/admin/list-subscriptions/models.go
package listsubscriptions

import "plan-access-bot/internal/models"

type Input struct {
	AdminID int64 `json:"adminId"`
}

type Output struct {
	Entries []models.SubscriptionEntry `json:"entries"`
	Pages   []string                   `json:"pages"`
}
