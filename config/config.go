package config

import (
	"log"
	"os"
	"time"
)

// Config holds application configuration
type Config struct {
	Port                string
	HotelAPIBaseURL     string
	HotelAPIKey         string
	PaymentPollInterval time.Duration
	PaymentProvider     string
	PaymentCurrency     string
	StripeAPIKey        string
	AirwallexClientID   string
	AirwallexAPIKey     string
	AirwallexBaseURL    string
	SlackBotToken       string
	SlackChannelID      string
	StripeWebhookSecret string
}

func LoadConfig() *Config {
	cfg := &Config{
		Port:                os.Getenv("PORT"),
		HotelAPIBaseURL:     os.Getenv("HOTEL_API_BASE_URL"),
		HotelAPIKey:         os.Getenv("HOTEL_API_KEY"),
		PaymentProvider:     os.Getenv("PAYMENT_PROVIDER"),
		PaymentCurrency:     os.Getenv("PAYMENT_CURRENCY"),
		StripeAPIKey:        os.Getenv("STRIPE_API_KEY"),
		AirwallexClientID:   os.Getenv("AIRWALLEX_CLIENT_ID"),
		AirwallexAPIKey:     os.Getenv("AIRWALLEX_API_KEY"),
		AirwallexBaseURL:    os.Getenv("AIRWALLEX_BASE_URL"),
		SlackBotToken:       os.Getenv("SLACK_BOT_TOKEN"),
		SlackChannelID:      os.Getenv("SLACK_CHANNEL_ID"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
	}

	if cfg.HotelAPIBaseURL == "" {
		log.Fatal("HOTEL_API_BASE_URL environment variable not set.")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("PORT environment variable not set, defaulting to %s", cfg.Port)
	}

	cfg.PaymentPollInterval = 10 * time.Second
	if v := os.Getenv("PAYMENT_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Fatalf("PAYMENT_POLL_INTERVAL is not a valid duration: %q", v)
		}
		cfg.PaymentPollInterval = d
	}

	if cfg.PaymentProvider == "" {
		cfg.PaymentProvider = "hotel"
	}

	switch cfg.PaymentProvider {
	case "hotel":
	case "stripe":
		if cfg.StripeAPIKey == "" {
			log.Fatal("STRIPE_API_KEY environment variable not set.")
		}
	case "airwallex":
		if cfg.AirwallexClientID == "" {
			log.Fatal("AIRWALLEX_CLIENT_ID environment variable not set.")
		}
		if cfg.AirwallexAPIKey == "" {
			log.Fatal("AIRWALLEX_API_KEY environment variable not set.")
		}
		if cfg.AirwallexBaseURL == "" {
			cfg.AirwallexBaseURL = "https://api.airwallex.com"
		}
	default:
		log.Fatalf("Unknown PAYMENT_PROVIDER: %q (expected hotel, stripe or airwallex)", cfg.PaymentProvider)
	}

	return cfg
}
