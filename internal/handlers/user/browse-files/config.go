// internal/handlers/user/browse-files/config.go
package browsefiles

import "time"

type Config struct {
	Timeout time.Duration
	// MaxFilesPerFolder caps the buttons rendered for one folder.
	MaxFilesPerFolder int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:           20 * time.Second,
		MaxFilesPerFolder: 50,
	}
}
