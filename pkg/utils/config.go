package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
	Payments PaymentsConfig
	Orders   OrdersConfig
	CMS      CMSConfig
	Cron     CronConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Name    string
	Env     string
	Port    string
	Debug   bool
	LogPath string
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

type AMQPConfig struct {
	URL      string
	Exchange string
}

// PaymentsConfig configures the intent-based processor (authorize/capture).
type PaymentsConfig struct {
	BaseURL    string
	MerchantID string
	Secret     string
}

// OrdersConfig configures the order-based processor.
type OrdersConfig struct {
	BaseURL  string
	ClientID string
	Secret   string
}

type CMSConfig struct {
	BaseURL       string
	Token         string
	WebhookSecret string
}

type CronConfig struct {
	Secret                string
	ClearBalancesSchedule string
	SessionSweepSchedule  string
}

// BookingConfig holds marketplace policy knobs.
type BookingConfig struct {
	Currency            string
	MinAmount           int64
	CommissionRate      float64
	ClearanceHours      int
	PayoutPeriodDays    int
	MaxCheckInDistanceM float64
}

func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("AMQP_EXCHANGE", "casaora.events")
	viper.SetDefault("CRON_CLEAR_BALANCES", "0 * * * *")
	viper.SetDefault("CRON_SESSION_SWEEP", "30 3 * * *")
	viper.SetDefault("BOOKING_CURRENCY", "COP")
	viper.SetDefault("BOOKING_MIN_AMOUNT", 20000)
	viper.SetDefault("COMMISSION_RATE", 0.15)
	viper.SetDefault("CLEARANCE_HOURS", 24)
	viper.SetDefault("PAYOUT_PERIOD_DAYS", 7)
	viper.SetDefault("GPS_MAX_DISTANCE_M", 150)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Env:     viper.GetString("APP_ENV"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
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
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		AMQP: AMQPConfig{
			URL:      viper.GetString("AMQP_URL"),
			Exchange: viper.GetString("AMQP_EXCHANGE"),
		},
		Payments: PaymentsConfig{
			BaseURL:    viper.GetString("PAYMENTS_BASE_URL"),
			MerchantID: viper.GetString("PAYMENTS_MERCHANT_ID"),
			Secret:     viper.GetString("PAYMENTS_SECRET"),
		},
		Orders: OrdersConfig{
			BaseURL:  viper.GetString("ORDERS_BASE_URL"),
			ClientID: viper.GetString("ORDERS_CLIENT_ID"),
			Secret:   viper.GetString("ORDERS_SECRET"),
		},
		CMS: CMSConfig{
			BaseURL:       viper.GetString("CMS_BASE_URL"),
			Token:         viper.GetString("CMS_TOKEN"),
			WebhookSecret: viper.GetString("CMS_WEBHOOK_SECRET"),
		},
		Cron: CronConfig{
			Secret:                viper.GetString("CRON_SECRET"),
			ClearBalancesSchedule: viper.GetString("CRON_CLEAR_BALANCES"),
			SessionSweepSchedule:  viper.GetString("CRON_SESSION_SWEEP"),
		},
		Booking: BookingConfig{
			Currency:            viper.GetString("BOOKING_CURRENCY"),
			MinAmount:           viper.GetInt64("BOOKING_MIN_AMOUNT"),
			CommissionRate:      viper.GetFloat64("COMMISSION_RATE"),
			ClearanceHours:      viper.GetInt("CLEARANCE_HOURS"),
			PayoutPeriodDays:    viper.GetInt("PAYOUT_PERIOD_DAYS"),
			MaxCheckInDistanceM: viper.GetFloat64("GPS_MAX_DISTANCE_M"),
		},
	}

	return config, nil
}
