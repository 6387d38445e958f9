package config

import "time"

// AuthConfig configures the identity provider integration. Admin and
// emergency roles are derived from exact email matches against the two
// designated addresses, mirroring the identity provider's allow-list.
type AuthConfig struct {
	FirebaseCredentialsFile string        `yaml:"firebase_credentials_file"`
	FirebaseProjectID       string        `yaml:"firebase_project_id"`
	AdminEmail              string        `yaml:"admin_email"`
	EmergencyEmail          string        `yaml:"emergency_email"`
	DevJWTSecret            string        `yaml:"dev_jwt_secret"`
	DevJWTTTL               time.Duration `yaml:"dev_jwt_ttl"`
}

func loadAuthConfig() *AuthConfig {
	return &AuthConfig{
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		AdminEmail:              getEnv("ADMIN_EMAIL", "admin@milsonresponse.com"),
		EmergencyEmail:          getEnv("EMERGENCY_EMAIL", "emergencyservices@milsonresponse.com"),
		DevJWTSecret:            getEnv("DEV_JWT_SECRET", ""),
		DevJWTTTL:               getEnvAsDuration("DEV_JWT_TTL", 24*time.Hour),
	}
}
