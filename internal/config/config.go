package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	AMQPUser string
	AMQPPass string
	AMQPHost string
	AMQPPort string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	BillingURL    string
	BillingAPIKey string

	// OutreachTo is the sales inbox that receives partner-outreach
	// emails for newly eligible sites.
	OutreachTo string

	LeadThreshold   int
	LeadWindowDays  int
	StallWindowDays int
	// ROIWindowDays narrows the revenue/cost sum; 0 means lifetime.
	ROIWindowDays int
	RunInterval   time.Duration

	LogLevel  string
	LogFormat string
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		AMQPUser: getenv("AMQP_USER", "guest"),
		AMQPPass: getenv("AMQP_PASS", "guest"),
		AMQPHost: getenv("AMQP_HOST", "localhost"),
		AMQPPort: getenv("AMQP_PORT", "5672"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getenvInt("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: getenv("MAIL_FROM", "no-reply@localauthorityleads.com"),

		BillingURL:    os.Getenv("BILLING_URL"),
		BillingAPIKey: os.Getenv("BILLING_API_KEY"),

		OutreachTo: getenv("OUTREACH_TO", "sales@localauthorityleads.com"),

		LeadThreshold:   getenvInt("LEAD_THRESHOLD", 5),
		LeadWindowDays:  getenvInt("LEAD_WINDOW_DAYS", 30),
		StallWindowDays: getenvInt("STALL_WINDOW_DAYS", 120),
		ROIWindowDays:   getenvInt("ROI_WINDOW_DAYS", 0),
		RunInterval:     getenvDuration("RUN_INTERVAL", 24*time.Hour),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
