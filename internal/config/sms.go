package config

// SMSConfig drives owner chat notifications. The log provider only writes
// the rendered message to the process log.
type SMSConfig struct {
	Provider      string        `yaml:"provider"` // log, twilio, sns
	OwnerWhatsApp string        `yaml:"owner_whatsapp"`
	Twilio        *TwilioConfig `yaml:"twilio"`
	AWS           *AWSSNSConfig `yaml:"aws"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
	WhatsApp   bool   `yaml:"whatsapp"`
}

type AWSSNSConfig struct {
	Region string `yaml:"region"`
}

func loadSMSConfig() *SMSConfig {
	return &SMSConfig{
		Provider:      getEnv("CHAT_PROVIDER", "log"),
		OwnerWhatsApp: getEnv("OWNER_WHATSAPP", "+34600000000"),
		Twilio: &TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
			WhatsApp:   getEnvAsBool("TWILIO_WHATSAPP", true),
		},
		AWS: &AWSSNSConfig{
			Region: getEnv("AWS_REGION", "eu-west-1"),
		},
	}
}
