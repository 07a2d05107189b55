// internal/handlers/user/show-offer/models.go
package showoffer

import "plan-access-bot/internal/models"

const (
	MethodUC    = "uc"
	MethodStars = "stars"
)

type Input struct {
	Plan   models.Tier `json:"plan"`
	Method string      `json:"method"`
}

type Output struct {
	Lines []PriceLine `json:"lines"`
	Text  string      `json:"text"`
}

type PriceLine struct {
	Price string `json:"price"`
	Days  int    `json:"days"`
}
