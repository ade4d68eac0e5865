package config

type BlogConfig struct {
	AdminUsername     string `yaml:"admin_username"`
	AdminPassword     string `yaml:"admin_password"`
	AdminPasswordHash string `yaml:"admin_password_hash"` // bcrypt
	InboundWebhookKey string `yaml:"inbound_webhook_key"`
	DefaultAuthor     string `yaml:"default_author"`
	PublicPageSize    int    `yaml:"public_page_size"`
	AdminPageSize     int    `yaml:"admin_page_size"`
	ExcerptLength     int    `yaml:"excerpt_length"`
}

func loadBlogConfig() *BlogConfig {
	return &BlogConfig{
		AdminUsername:     getEnv("BLOG_ADMIN_USERNAME", "admin"),
		AdminPassword:     getEnv("BLOG_ADMIN_PASSWORD", ""),
		AdminPasswordHash: getEnv("BLOG_ADMIN_PASSWORD_HASH", ""),
		InboundWebhookKey: getEnv("BREVO_WEBHOOK_KEY", ""),
		DefaultAuthor:     getEnv("BLOG_DEFAULT_AUTHOR", "Mikel's Earth"),
		PublicPageSize:    getEnvAsInt("BLOG_PUBLIC_PAGE_SIZE", 10),
		AdminPageSize:     getEnvAsInt("BLOG_ADMIN_PAGE_SIZE", 20),
		ExcerptLength:     getEnvAsInt("BLOG_EXCERPT_LENGTH", 200),
	}
}
