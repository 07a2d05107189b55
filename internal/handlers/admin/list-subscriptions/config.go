// internal/handlers/admin/list-subscriptions/config.go
package listsubscriptions

import "time"

type Config struct {
	Timeout time.Duration
	// MaxMessageLength splits long listings across several messages.
	MaxMessageLength int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:          20 * time.Second,
		MaxMessageLength: 4000,
	}
}
