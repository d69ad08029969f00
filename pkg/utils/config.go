package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Feeds    FeedConfig
	Stripe   StripeConfig
	BTCPay   BTCPayConfig
	Email    EmailConfig
	Admin    AdminConfig
	Manual   ManualPaymentConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
	BaseURL string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type CacheConfig struct {
	// Backend is "redis" or "memory".
	Backend string
	TTL     time.Duration
}

type FeedConfig struct {
	Timeout time.Duration
	// URLs maps property id to its exported Airbnb iCal URL.
	URLs map[string]string
}

type StripeConfig struct {
	SecretKey     string
	PublicKey     string
	WebhookSecret string
}

type BTCPayConfig struct {
	ServerURL string
	StoreID   string
	APIKey    string
}

type EmailConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	FromName   string
	AdminEmail string
}

type AdminConfig struct {
	User string
	// PasswordHash is a bcrypt hash of the dashboard password.
	PasswordHash string
}

type ManualPaymentConfig struct {
	VenmoUsername   string
	CashAppUsername string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_BACKEND", "redis")
	viper.SetDefault("CACHE_TTL_SECONDS", 3600)
	viper.SetDefault("FEED_TIMEOUT_SECONDS", 30)
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("FROM_NAME", "SmartStayz")
	viper.SetDefault("ADMIN_USER", "admin")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
			BaseURL: viper.GetString("BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Backend: viper.GetString("CACHE_BACKEND"),
			TTL:     time.Duration(viper.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
		Feeds: FeedConfig{
			Timeout: time.Duration(viper.GetInt("FEED_TIMEOUT_SECONDS")) * time.Second,
			URLs: map[string]string{
				"stone":  viper.GetString("PROPERTY_ICAL_STONE"),
				"copper": viper.GetString("PROPERTY_ICAL_COPPER"),
				"cedar":  viper.GetString("PROPERTY_ICAL_CEDAR"),
			},
		},
		Stripe: StripeConfig{
			SecretKey:     viper.GetString("STRIPE_SECRET_KEY"),
			PublicKey:     viper.GetString("STRIPE_PUBLIC_KEY"),
			WebhookSecret: viper.GetString("STRIPE_WEBHOOK_SECRET"),
		},
		BTCPay: BTCPayConfig{
			ServerURL: viper.GetString("BTCPAY_SERVER_URL"),
			StoreID:   viper.GetString("BTCPAY_STORE_ID"),
			APIKey:    viper.GetString("BTCPAY_API_KEY"),
		},
		Email: EmailConfig{
			Host:       viper.GetString("SMTP_HOST"),
			Port:       viper.GetInt("SMTP_PORT"),
			User:       viper.GetString("SMTP_USER"),
			Password:   viper.GetString("SMTP_PASS"),
			From:       viper.GetString("FROM_EMAIL"),
			FromName:   viper.GetString("FROM_NAME"),
			AdminEmail: viper.GetString("ADMIN_EMAIL"),
		},
		Admin: AdminConfig{
			User:         viper.GetString("ADMIN_USER"),
			PasswordHash: viper.GetString("ADMIN_PASSWORD_HASH"),
		},
		Manual: ManualPaymentConfig{
			VenmoUsername:   viper.GetString("VENMO_USERNAME"),
			CashAppUsername: viper.GetString("CASHAPP_USERNAME"),
		},
	}

	return config, nil
}
