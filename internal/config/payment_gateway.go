package config

import "strings"

type PaymentConfig struct {
	Stripe   *StripeConfig `yaml:"stripe"`
	Currency string        `yaml:"currency"`
}

type StripeConfig struct {
	PublishableKey string `yaml:"publishable_key"`
	SecretKey      string `yaml:"secret_key"`
	WebhookSecret  string `yaml:"webhook_secret"`
}

func loadPaymentConfig() *PaymentConfig {
	return &PaymentConfig{
		Stripe: &StripeConfig{
			PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			SecretKey:      strings.TrimSpace(getEnv("STRIPE_SECRET_KEY", "")),
			WebhookSecret:  strings.TrimSpace(getEnv("STRIPE_WEBHOOK_SECRET", "")),
		},
		Currency: strings.ToLower(getEnv("PAYMENT_CURRENCY", "eur")),
	}
}
