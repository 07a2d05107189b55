// internal/handlers/user/show-offer/config.go
package showoffer

import (
	"time"

	"plan-access-bot/internal/common/config"
)

type Config struct {
	Timeout          time.Duration
	PubgID           string
	TelegramUsername string
	Offers           []config.OfferConfig
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Offers:  config.DefaultOffers(),
	}
}
