// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig                `mapstructure:"app"`
	Telegram      TelegramConfig           `mapstructure:"telegram"`
	Admin         AdminConfig              `mapstructure:"admin"`
	Storage       StorageConfig            `mapstructure:"storage"`
	Database      DatabaseConfig           `mapstructure:"database"`
	Intent        IntentConfig             `mapstructure:"intent"`
	Catalog       CatalogConfig            `mapstructure:"catalog"`
	Notifications NotificationConfig       `mapstructure:"notifications"`
	Payment       PaymentConfig            `mapstructure:"payment"`
	Handlers      map[string]HandlerConfig `mapstructure:"handlers"`
	Logging       LoggingConfig            `mapstructure:"logging"`
	Metrics       MetricsConfig            `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type TelegramConfig struct {
	Token       string `mapstructure:"token"`
	PollTimeout int    `mapstructure:"poll_timeout"` // seconds
	Debug       bool   `mapstructure:"debug"`
}

// AdminConfig lists the user ids allowed to run admin commands.
type AdminConfig struct {
	IDs []int64 `mapstructure:"ids"`
}

// Storage backends
const (
	StorageFile     = "file"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

type StorageConfig struct {
	Backend   string `mapstructure:"backend"`
	Dir       string `mapstructure:"dir"`
	KeyPrefix string `mapstructure:"key_prefix"` // redis
	Table     string `mapstructure:"table"`      // postgres
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Intent cache backends
const (
	IntentMemory = "memory"
	IntentRedis  = "redis"
)

type IntentConfig struct {
	Backend    string `mapstructure:"backend"`
	TTLMinutes int    `mapstructure:"ttl_minutes"`
	MaxEntries int    `mapstructure:"max_entries"` // memory backend only
}

// Catalog backends
const (
	CatalogGitHub = "github"
	CatalogS3     = "s3"
)

type CatalogConfig struct {
	Backend string `mapstructure:"backend"`

	GitHub struct {
		BaseURL         string `mapstructure:"base_url"` // https://github.com/<user>/<repo>
		RawHost         string `mapstructure:"raw_host"`
		Branch          string `mapstructure:"branch"`
		ListTimeout     int    `mapstructure:"list_timeout"`     // milliseconds
		DownloadTimeout int    `mapstructure:"download_timeout"` // milliseconds
	} `mapstructure:"github"`

	S3 struct {
		Bucket          string `mapstructure:"bucket"`
		Region          string `mapstructure:"region"`
		Endpoint        string `mapstructure:"endpoint"`
		Prefix          string `mapstructure:"prefix"`
		AccessKeyID     string `mapstructure:"access_key_id"`
		SecretAccessKey string `mapstructure:"secret_access_key"`
	} `mapstructure:"s3"`
}

// NotificationConfig holds settings for admin notifications.
type NotificationConfig struct {
	Telegram struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"telegram"`
	SNS struct {
		Enabled  bool   `mapstructure:"enabled"`
		TopicARN string `mapstructure:"topic_arn"`
	} `mapstructure:"sns"`
	SES struct {
		Enabled   bool     `mapstructure:"enabled"`
		FromEmail string   `mapstructure:"from_email"`
		ToEmails  []string `mapstructure:"to_emails"`
	} `mapstructure:"ses"`
	AWS struct {
		Region   string `mapstructure:"region"`
		Endpoint string `mapstructure:"endpoint"` // localstack and similar
	} `mapstructure:"aws"`
}

// PaymentConfig describes how users pay; nothing here is verified automatically.
type PaymentConfig struct {
	PubgID           string        `mapstructure:"pubg_id"`
	TelegramUsername string        `mapstructure:"telegram_username"`
	Offers           []OfferConfig `mapstructure:"offers"`
}

// OfferConfig is one line of a price list.
type OfferConfig struct {
	Plan   string `mapstructure:"plan"`   // NORMAL or VIP
	Method string `mapstructure:"method"` // uc or stars
	Price  string `mapstructure:"price"`
	Days   int    `mapstructure:"days"`
}

// HandlerConfig holds the core settings applicable to every event handler.
type HandlerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Timeout int  `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}
