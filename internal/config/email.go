package config

import "strings"

type EmailConfig struct {
	Provider              string `yaml:"provider"` // brevo, log
	BrevoAPIKey           string `yaml:"brevo_api_key"`
	BrevoBaseURL          string `yaml:"brevo_base_url"`
	NewsletterListID      int64  `yaml:"newsletter_list_id"`
	SenderEmail           string `yaml:"sender_email"`
	SenderName            string `yaml:"sender_name"`
	OwnerEmail            string `yaml:"owner_email"`
	BlogNotificationEmail string `yaml:"blog_notification_email"`
}

func loadEmailConfig() *EmailConfig {
	owner := getEnv("OWNER_EMAIL", "info@mikels.es")
	apiKey := cleanAPIKey(getEnv("BREVO_API_KEY", ""))

	provider := getEnv("EMAIL_PROVIDER", "brevo")
	if apiKey == "" {
		provider = "log"
	}

	return &EmailConfig{
		Provider:              provider,
		BrevoAPIKey:           apiKey,
		BrevoBaseURL:          strings.TrimRight(getEnv("BREVO_BASE_URL", "https://api.brevo.com/v3"), "/"),
		NewsletterListID:      getEnvAsInt64("BREVO_NEWSLETTER_LIST_ID", 0),
		SenderEmail:           getEnv("EMAIL_SENDER_ADDRESS", "info@mikels.es"),
		SenderName:            getEnv("EMAIL_SENDER_NAME", "Mikel's Earth"),
		OwnerEmail:            owner,
		BlogNotificationEmail: getEnv("BLOG_NOTIFICATION_EMAIL", owner),
	}
}

// API keys pasted into dashboards often carry stray whitespace or newlines.
func cleanAPIKey(key string) string {
	return strings.Join(strings.Fields(key), "")
}
