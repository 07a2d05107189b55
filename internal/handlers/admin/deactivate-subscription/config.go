// internal/handlers/admin/deactivate-subscription/config.go
package deactivatesubscription

import "time"

type Config struct {
	Timeout    time.Duration
	NotifyUser bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    20 * time.Second,
		NotifyUser: true,
	}
}
