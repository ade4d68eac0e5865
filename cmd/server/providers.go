package main

import (
	"context"
	"fmt"

	"artisan/internal/config"
	"artisan/internal/services"
	"artisan/pkg/cache"
	"artisan/pkg/email"
	"artisan/pkg/logger"
	"artisan/pkg/payment"
	"artisan/pkg/sms"
	"artisan/pkg/storage"
)

type providerSet struct {
	payment payment.PaymentProvider
	email   email.EmailProvider
	chat    sms.SMSProvider
	storage storage.StorageProvider
}

type cacheBackend interface {
	services.CacheService
	Ping(ctx context.Context) error
	Close() error
}

// openCache uses Redis when enabled. The in-memory fallback is only
// correct for a single server process.
func openCache(cfg *config.Config, log *logger.Logger) (cacheBackend, error) {
	if !cfg.Redis.Enabled {
		log.Warn("Redis disabled, using in-process cache")
		return cache.NewMemoryCache(), nil
	}

	return cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		KeyPrefix:    cfg.Redis.KeyPrefix,
	})
}

func buildProviders(ctx context.Context, cfg *config.Config, log *logger.Logger) (*providerSet, error) {
	set := &providerSet{
		payment: payment.NewStripeProvider(cfg.Payment.Stripe.SecretKey, cfg.Payment.Stripe.WebhookSecret),
	}
	if cfg.Payment.Stripe.SecretKey == "" {
		log.Warn("STRIPE_SECRET_KEY not set, checkout requests will fail")
	}

	switch cfg.Email.Provider {
	case "brevo":
		set.email = email.NewBrevoProvider(cfg.Email.BrevoAPIKey, cfg.Email.BrevoBaseURL, email.Address{
			Email: cfg.Email.SenderEmail,
			Name:  cfg.Email.SenderName,
		})
	case "log":
		set.email = email.NewLogProvider(log)
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Email.Provider)
	}

	switch cfg.SMS.Provider {
	case "twilio":
		tw := cfg.SMS.Twilio
		set.chat = sms.NewTwilioProvider(tw.AccountSID, tw.AuthToken, tw.FromNumber, tw.WhatsApp)
	case "sns":
		provider, err := sms.NewAWSSNSProvider(ctx, cfg.SMS.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create sns provider: %w", err)
		}
		set.chat = provider
	case "log", "":
		set.chat = sms.NewLogProvider(log)
	default:
		return nil, fmt.Errorf("unknown chat provider %q", cfg.SMS.Provider)
	}

	switch cfg.Storage.Provider {
	case "local":
		provider, err := storage.NewLocalStorage(cfg.Storage.Local.BasePath, cfg.Storage.Local.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create local storage: %w", err)
		}
		set.storage = provider
	case "s3":
		aws := cfg.Storage.AWS
		provider, err := storage.NewAWSS3Storage(ctx, aws.Region, aws.Bucket, aws.CDNDomain)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 storage: %w", err)
		}
		set.storage = provider
	case "gcs":
		gcp := cfg.Storage.GCP
		provider, err := storage.NewGCPStorage(ctx, gcp.Bucket, gcp.CredentialsFile, gcp.CDNDomain)
		if err != nil {
			return nil, fmt.Errorf("failed to create gcs storage: %w", err)
		}
		set.storage = provider
	case "none", "":
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Storage.Provider)
	}

	return set, nil
}
