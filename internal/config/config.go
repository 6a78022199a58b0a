package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultPort              = "8080"
	defaultMaxOTPPerDay      = 10
	defaultOTPRatePerMinute  = 5
	defaultJWTTTL            = 24 * time.Hour
	defaultRoomCacheTTL      = 5 * time.Minute
	defaultMailPort          = 587
	defaultKafkaTopic        = "hotel.bookings"
	defaultMerchantName      = "Hotel Luxe"
	defaultCompletionPeriod  = time.Hour
	defaultDevelopmentJWTKey = "dev-only-secret-change-me"
)

// Config holds every runtime setting of the backend.
type Config struct {
	Port        string
	Environment string
	CORSOrigins string

	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPass      string
	DBName      string

	JWTSecret string
	JWTTTL    time.Duration

	TwilioAccountSID       string
	TwilioAuthToken        string
	TwilioVerifyServiceSID string

	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string
	UPIID                 string
	MerchantName          string

	MailServer   string
	MailPort     int
	MailUsername string
	MailPassword string
	MailFrom     string

	MaxOTPPerDay     int
	OTPRatePerMinute int

	RedisAddr    string
	RoomCacheTTL time.Duration

	KafkaBroker string
	KafkaTopic  string

	BookingAutoComplete bool
	CompletionInterval  time.Duration

	AdminUsername string
	AdminPassword string
}

// LoadDotEnv loads .env files for local development. Production deployments
// (ENVIRONMENT=production) rely on the real environment only.
func LoadDotEnv() {
	if os.Getenv("ENVIRONMENT") == "production" {
		return
	}
	if err := godotenv.Load(".env"); err != nil {
		_ = godotenv.Load("environments/.env.development")
	}
}

// Load reads configuration from the environment through viper. Values bound
// to command line flags take precedence.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("port", defaultPort)
	v.SetDefault("environment", "development")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_name", "hotel_booking")
	v.SetDefault("jwt_ttl", defaultJWTTTL)
	v.SetDefault("merchant_name", defaultMerchantName)
	v.SetDefault("mail_server", "smtp.gmail.com")
	v.SetDefault("mail_port", defaultMailPort)
	v.SetDefault("max_otp_resend_per_day", defaultMaxOTPPerDay)
	v.SetDefault("otp_rate_per_minute", defaultOTPRatePerMinute)
	v.SetDefault("room_cache_ttl", defaultRoomCacheTTL)
	v.SetDefault("kafka_topic", defaultKafkaTopic)
	v.SetDefault("booking_auto_complete", false)
	v.SetDefault("booking_completion_interval", defaultCompletionPeriod)

	cfg := &Config{
		Port:        v.GetString("port"),
		Environment: v.GetString("environment"),
		CORSOrigins: v.GetString("cors_origins"),

		DatabaseURL: v.GetString("database_url"),
		DBHost:      v.GetString("db_host"),
		DBPort:      v.GetString("db_port"),
		DBUser:      v.GetString("db_user"),
		DBPass:      v.GetString("db_pass"),
		DBName:      v.GetString("db_name"),

		JWTSecret: v.GetString("jwt_secret"),
		JWTTTL:    v.GetDuration("jwt_ttl"),

		TwilioAccountSID:       v.GetString("twilio_account_sid"),
		TwilioAuthToken:        v.GetString("twilio_auth_token"),
		TwilioVerifyServiceSID: v.GetString("twilio_verify_service_sid"),

		RazorpayKeyID:         v.GetString("razorpay_key_id"),
		RazorpayKeySecret:     v.GetString("razorpay_key_secret"),
		RazorpayWebhookSecret: v.GetString("razorpay_webhook_secret"),
		UPIID:                 v.GetString("upi_id"),
		MerchantName:          v.GetString("merchant_name"),

		MailServer:   v.GetString("mail_server"),
		MailPort:     v.GetInt("mail_port"),
		MailUsername: v.GetString("mail_username"),
		MailPassword: v.GetString("mail_password"),
		MailFrom:     v.GetString("mail_from"),

		MaxOTPPerDay:     v.GetInt("max_otp_resend_per_day"),
		OTPRatePerMinute: v.GetInt("otp_rate_per_minute"),

		RedisAddr:    v.GetString("redis_addr"),
		RoomCacheTTL: v.GetDuration("room_cache_ttl"),

		KafkaBroker: v.GetString("kafka_broker"),
		KafkaTopic:  v.GetString("kafka_topic"),

		BookingAutoComplete: v.GetBool("booking_auto_complete"),
		CompletionInterval:  v.GetDuration("booking_completion_interval"),

		AdminUsername: v.GetString("admin_username"),
		AdminPassword: v.GetString("admin_password"),
	}

	if cfg.MailFrom == "" {
		cfg.MailFrom = cfg.MailUsername
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		c.JWTSecret = defaultDevelopmentJWTKey
	}
	if c.MaxOTPPerDay <= 0 {
		return fmt.Errorf("MAX_OTP_RESEND_PER_DAY must be positive, got %d", c.MaxOTPPerDay)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.CompletionInterval <= 0 {
		c.CompletionInterval = defaultCompletionPeriod
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// ResolvedDatabaseURL returns DATABASE_URL, or builds a PostgreSQL DSN from
// the discrete DB_* variables when it is empty.
func (c *Config) ResolvedDatabaseURL() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

// TwilioConfigured reports whether Twilio Verify credentials are present.
func (c *Config) TwilioConfigured() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioVerifyServiceSID != ""
}

// RazorpayConfigured reports whether Razorpay API keys are present.
func (c *Config) RazorpayConfigured() bool {
	return c.RazorpayKeyID != "" && c.RazorpayKeySecret != ""
}

// MailConfigured reports whether SMTP delivery is possible.
func (c *Config) MailConfigured() bool {
	return c.MailServer != "" && c.MailUsername != "" && c.MailPassword != ""
}
