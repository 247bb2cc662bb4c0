package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"frontdesk/checkout"
	"frontdesk/config"
	"frontdesk/handlers"
	"frontdesk/hotelapi"
	"frontdesk/payment"
	"frontdesk/services"
)

func main() {
	cfg := config.LoadConfig()

	apiClient := hotelapi.NewClient(cfg.HotelAPIBaseURL, cfg.HotelAPIKey, 10*time.Second)

	var issuer payment.Issuer
	var checker payment.StatusChecker

	switch cfg.PaymentProvider {
	case "stripe":
		stripeIssuer := payment.NewStripeIssuer(cfg.StripeAPIKey, cfg.PaymentCurrency)
		issuer, checker = stripeIssuer, stripeIssuer
	case "airwallex":
		awxIssuer := payment.NewAirwallexIssuer(cfg.AirwallexClientID, cfg.AirwallexAPIKey, cfg.AirwallexBaseURL, cfg.PaymentCurrency)
		issuer, checker = awxIssuer, awxIssuer
	default:
		issuer = payment.NewHotelIssuer(apiClient)
		checker = apiClient
	}

	log.Printf("Using %s payment provider", cfg.PaymentProvider)

	var notifier checkout.Notifier
	if cfg.SlackBotToken != "" && cfg.SlackChannelID != "" {
		notifier = services.NewSlackNotifier(cfg.SlackBotToken, cfg.SlackChannelID)
	} else {
		log.Printf("Slack not configured, payment notifications go to the log")
		notifier = services.LogNotifier{}
	}

	sessions := services.NewSessionManager(apiClient, issuer, checker, notifier, cfg.PaymentPollInterval)

	var receipts *services.ReceiptService
	if cfg.SlackBotToken != "" && cfg.SlackChannelID != "" {
		receipts = services.NewReceiptService(cfg.SlackBotToken, cfg.SlackChannelID)
	}

	r := gin.Default()

	checkoutHandler := handlers.NewCheckoutHandler(sessions, receipts)
	checkoutHandler.Register(r)

	if cfg.PaymentProvider == "stripe" && cfg.StripeWebhookSecret != "" {
		webhookHandler := handlers.NewStripeWebhookHandler(cfg.StripeWebhookSecret, sessions)
		webhookHandler.Register(r)
		log.Printf("Registered Stripe webhook handler")
	}

	log.Printf("Starting front desk checkout service on :%s", cfg.Port)
	log.Fatal(r.Run(":" + cfg.Port))
}
