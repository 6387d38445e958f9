package config

// AlertConfig configures the best-effort responder alert fan-out that
// fires when an incident is approved.
type AlertConfig struct {
	Provider string `yaml:"provider"` // twilio, sns, none

	ResponderPhone string `yaml:"responder_phone"`

	TwilioAccountSID string `yaml:"twilio_account_sid"`
	TwilioAuthToken  string `yaml:"twilio_auth_token"`
	TwilioFromNumber string `yaml:"twilio_from_number"`

	SNSRegion string `yaml:"sns_region"`
}

func loadAlertConfig() *AlertConfig {
	return &AlertConfig{
		Provider:         getEnv("ALERT_PROVIDER", "none"),
		ResponderPhone:   getEnv("ALERT_RESPONDER_PHONE", ""),
		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
		SNSRegion:        getEnv("SNS_REGION", "us-east-1"),
	}
}
