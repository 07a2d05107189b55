// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// Enable ENV override like TELEGRAM_TOKEN
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	// 1. base config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// 2. environment overlay, optional
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	if err := overrideEmptyConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile looks for a .env file in the working directory, its parents and the module root.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars replaces ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills values from the environment names earlier deployments used.
func overrideEmptyConfig(cfg *Config) error {
	if cfg.Telegram.Token == "" {
		if val := os.Getenv("BOT_TOKEN"); val != "" {
			cfg.Telegram.Token = val
		}
	}

	if len(cfg.Admin.IDs) == 0 {
		if val := os.Getenv("ADMIN_ID"); val != "" {
			ids, err := parseIDList(val)
			if err != nil {
				return fmt.Errorf("ADMIN_ID: %w", err)
			}
			cfg.Admin.IDs = ids
		}
	}

	if cfg.Catalog.GitHub.BaseURL == "" {
		if val := os.Getenv("GITHUB_BASE_URL"); val != "" {
			cfg.Catalog.GitHub.BaseURL = val
		}
	}

	if cfg.Payment.PubgID == "" {
		if val := os.Getenv("PUBG_ID"); val != "" {
			cfg.Payment.PubgID = val
		}
	}
	if cfg.Payment.TelegramUsername == "" {
		if val := os.Getenv("TELEGRAM_USERNAME"); val != "" {
			cfg.Payment.TelegramUsername = strings.TrimPrefix(val, "@")
		}
	}

	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
	return nil
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// DefaultOffers is the price list used when payment.offers is not configured.
func DefaultOffers() []OfferConfig {
	return []OfferConfig{
		{Plan: "NORMAL", Method: "uc", Price: "300 UC", Days: 7},
		{Plan: "NORMAL", Method: "uc", Price: "660 UC", Days: 15},
		{Plan: "VIP", Method: "uc", Price: "1500 UC", Days: 10},
		{Plan: "VIP", Method: "uc", Price: "3850 UC", Days: 30},
		{Plan: "NORMAL", Method: "stars", Price: "50 stars", Days: 7},
		{Plan: "NORMAL", Method: "stars", Price: "100 stars", Days: 15},
		{Plan: "VIP", Method: "stars", Price: "150 stars", Days: 10},
		{Plan: "VIP", Method: "stars", Price: "300 stars", Days: 30},
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "plan-access-bot"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Telegram.PollTimeout == 0 {
		cfg.Telegram.PollTimeout = 60
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = StorageFile
	}
	if cfg.Storage.Dir == "" {
		cfg.Storage.Dir = "."
	}
	if cfg.Storage.KeyPrefix == "" {
		cfg.Storage.KeyPrefix = "planbot:"
	}
	if cfg.Storage.Table == "" {
		cfg.Storage.Table = "plan_access_records"
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Intent.Backend == "" {
		cfg.Intent.Backend = IntentMemory
	}
	if cfg.Intent.TTLMinutes == 0 {
		cfg.Intent.TTLMinutes = 24 * 60
	}
	if cfg.Intent.MaxEntries == 0 {
		cfg.Intent.MaxEntries = 10000
	}

	if cfg.Catalog.Backend == "" {
		cfg.Catalog.Backend = CatalogGitHub
	}
	if cfg.Catalog.GitHub.RawHost == "" {
		cfg.Catalog.GitHub.RawHost = "https://raw.githubusercontent.com"
	}
	if cfg.Catalog.GitHub.Branch == "" {
		cfg.Catalog.GitHub.Branch = "main"
	}
	if cfg.Catalog.GitHub.ListTimeout == 0 {
		cfg.Catalog.GitHub.ListTimeout = 5000
	}
	if cfg.Catalog.GitHub.DownloadTimeout == 0 {
		cfg.Catalog.GitHub.DownloadTimeout = 15000
	}

	if len(cfg.Payment.Offers) == 0 {
		cfg.Payment.Offers = DefaultOffers()
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":8080"
	}

	for key, handler := range cfg.Handlers {
		if handler.Timeout == 0 {
			handler.Timeout = 20000
		}
		cfg.Handlers[key] = handler
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}

	switch cfg.Storage.Backend {
	case StorageFile:
	case StorageRedis:
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required for the redis storage backend")
		}
	case StoragePostgres:
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if cfg.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	default:
		return fmt.Errorf("storage.backend %q is not supported", cfg.Storage.Backend)
	}

	switch cfg.Intent.Backend {
	case IntentMemory:
	case IntentRedis:
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required for the redis intent backend")
		}
	default:
		return fmt.Errorf("intent.backend %q is not supported", cfg.Intent.Backend)
	}

	switch cfg.Catalog.Backend {
	case CatalogGitHub:
		if cfg.Catalog.GitHub.BaseURL == "" {
			return fmt.Errorf("catalog.github.base_url is required")
		}
	case CatalogS3:
		if cfg.Catalog.S3.Bucket == "" {
			return fmt.Errorf("catalog.s3.bucket is required")
		}
	default:
		return fmt.Errorf("catalog.backend %q is not supported", cfg.Catalog.Backend)
	}

	if cfg.Notifications.SNS.Enabled && cfg.Notifications.SNS.TopicARN == "" {
		return fmt.Errorf("notifications.sns.topic_arn is required when sns is enabled")
	}
	if cfg.Notifications.SES.Enabled && (cfg.Notifications.SES.FromEmail == "" || len(cfg.Notifications.SES.ToEmails) == 0) {
		return fmt.Errorf("notifications.ses.from_email and to_emails are required when ses is enabled")
	}

	return nil
}

// NeedsRedis reports whether any configured component talks to Redis.
func (c *Config) NeedsRedis() bool {
	return c.Storage.Backend == StorageRedis || c.Intent.Backend == IntentRedis
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetHandlerConfig retrieves handler-specific configuration with fallback to defaults
func GetHandlerConfig(cfg *Config, taskType string) HandlerConfig {
	if handler, exists := cfg.Handlers[taskType]; exists {
		return handler
	}

	return HandlerConfig{
		Enabled: true,
		Timeout: 20000,
	}
}

// IsHandlerEnabled checks if a specific handler is enabled
func IsHandlerEnabled(cfg *Config, taskType string) bool {
	if handler, exists := cfg.Handlers[taskType]; exists {
		return handler.Enabled
	}
	return true
}
