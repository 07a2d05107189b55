// internal/handlers/admin/activate-subscription/config.go
package activatesubscription

import "time"

type Config struct {
	Timeout time.Duration
	// NotifyUser sends the activated user a confirmation message.
	NotifyUser bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    20 * time.Second,
		NotifyUser: true,
	}
}
