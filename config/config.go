package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	Development = "development"
	Staging     = "staging"
	Production  = "production"
)

type Config struct {
	Env       string
	DB        DBConfig
	HTTP      HTTPConfig
	Auth      AuthConfig
	OneSignal OneSignalConfig
	Telegram  TelegramConfig
	Consul    ConsulConfig
	// AutoMigrate applies embedded migrations on serve.
	AutoMigrate bool
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type HTTPConfig struct {
	Port int
}

type AuthConfig struct {
	JWTSecret      string
	JWTTTL         time.Duration
	GoogleClientID string // audience for one-tap ID tokens
}

type OneSignalConfig struct {
	AppID  string
	APIKey string
	APIURL string
}

type TelegramConfig struct {
	Token string // partner console bot; empty disables it
}

type ConsulConfig struct {
	Host        string // empty disables registration
	ServiceName string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	ttl, err := time.ParseDuration(v.GetString("JWT_TTL"))
	if err != nil {
		ttl = 24 * time.Hour
	}

	return &Config{
		Env: v.GetString("ENV"),
		DB: DBConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Database: v.GetString("DB_NAME"),
		},
		HTTP: HTTPConfig{
			Port: v.GetInt("HTTP_PORT"),
		},
		Auth: AuthConfig{
			JWTSecret:      v.GetString("JWT_SECRET"),
			JWTTTL:         ttl,
			GoogleClientID: v.GetString("GOOGLE_CLIENT_ID"),
		},
		OneSignal: OneSignalConfig{
			AppID:  v.GetString("ONESIGNAL_APP_ID"),
			APIKey: v.GetString("ONESIGNAL_API_KEY"),
			APIURL: v.GetString("ONESIGNAL_API_URL"),
		},
		Telegram: TelegramConfig{
			Token: v.GetString("TOKEN"),
		},
		Consul: ConsulConfig{
			Host:        v.GetString("CONSUL_HOST"),
			ServiceName: v.GetString("SERVICE_NAME"),
		},
		AutoMigrate: isTruthy(v.GetString("AUTO_MIGRATE")),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", Development)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "yumzy")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("JWT_SECRET", "changeme")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("ONESIGNAL_APP_ID", "")
	v.SetDefault("ONESIGNAL_API_KEY", "")
	v.SetDefault("ONESIGNAL_API_URL", "https://onesignal.com/api/v1/notifications")
	v.SetDefault("TOKEN", "")
	v.SetDefault("CONSUL_HOST", "")
	v.SetDefault("SERVICE_NAME", "yumzy-partner")
	v.SetDefault("AUTO_MIGRATE", "")
}

func isTruthy(s string) bool {
	s = strings.TrimSpace(s)
	return s == "1" || strings.EqualFold(s, "true")
}
