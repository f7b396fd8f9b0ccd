package config

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

var AppEnv Config

type Config struct {
	MongoURI       string
	DBName         string
	JWTSecret      string
	SessionTTL     time.Duration
	ResetTokenTTL  time.Duration
	FrontendURL    string
	CookieSecure   bool
	CookieSameSite http.SameSite

	SendGridAPIKey string
	MailFrom       string
	MailFromName   string

	AWSRegion      string
	AWSAccessKeyID string
	AWSSecretKey   string
	MediaBucket    string
	MediaEndpoint  string

	StripeSecretKey      string
	StripePublishableKey string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Infoln(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:       getEnvOrDefault("MONGO_URI", ""),
		DBName:         getEnvOrDefault("DB_NAME", "ecommerce"),
		JWTSecret:      getEnvOrDefault("ACCESS_TOKEN_SECRET", ""),
		SessionTTL:     getDurationEnv("SESSION_TTL", 15, time.Minute),
		ResetTokenTTL:  getDurationEnv("RESET_TOKEN_TTL", 15, time.Minute),
		FrontendURL:    getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
		CookieSecure:   getBoolEnv("COOKIE_SECURE", false),
		CookieSameSite: parseSameSite(getEnvOrDefault("COOKIE_SAMESITE", "lax")),

		SendGridAPIKey: getEnvOrDefault("SENDGRID_API_KEY", ""),
		MailFrom:       getEnvOrDefault("MAIL_FROM", "no-reply@ecommerce.local"),
		MailFromName:   getEnvOrDefault("MAIL_FROM_NAME", "eCommerce"),

		AWSRegion:      getEnvOrDefault("AWS_REGION", "us-east-1"),
		AWSAccessKeyID: getEnvOrDefault("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnvOrDefault("AWS_SECRET_ACCESS_KEY", ""),
		MediaBucket:    getEnvOrDefault("MEDIA_BUCKET", "ecommerce-media"),
		MediaEndpoint:  getEnvOrDefault("MEDIA_ENDPOINT", ""),

		StripeSecretKey:      getEnvOrDefault("STRIPE_API_KEY", ""),
		StripePublishableKey: getEnvOrDefault("STRIPE_PUBLISHABLE_KEY", ""),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// parseSameSite maps the configured policy onto http.SameSite. A cross-site
// deployment must pair "none" with COOKIE_SECURE=true or browsers drop the
// cookie.
func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}
