package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env             string
	HTTPPort        string
	MongoURI        string
	MongoDB         string
	RedisAddr       string
	JWTIssuer       string
	JWTSigningKey   string
	TokenTTL        time.Duration
	SessionTTL      time.Duration
	CookieSecure    bool
	EmailDomain     string
	MinPasswordLen  int
	RateLimitPerMin int
	CORSOrigins     []string
	SSOEnabled      bool
	SSOMetadataURL  string
	SSOBypass       bool
}

// Load returns application config populated from environment variables with sensible defaults.
// A .env file in the working directory is honored when present.
func Load() App {
	_ = godotenv.Load()

	cfg := App{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "campus_status"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		JWTIssuer:       getEnv("JWT_ISSUER", "statusboard"),
		JWTSigningKey:   getEnv("JWT_SIGNING_KEY", "dev-signing-secret-change"),
		TokenTTL:        durationEnv("TOKEN_TTL", 15*time.Minute),
		SessionTTL:      durationEnv("SESSION_TTL", 12*time.Hour),
		CookieSecure:    boolEnv("COOKIE_SECURE", false),
		EmailDomain:     getEnv("EMAIL_DOMAIN", "@nyu.edu"),
		MinPasswordLen:  intEnv("MIN_PASSWORD_LEN", 8),
		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 120),
		CORSOrigins:     splitEnv("CORS_ORIGINS", "*"),
		SSOEnabled:      boolEnv("SSO_ENABLED", false),
		SSOMetadataURL:  getEnv("SSO_METADATA_URL", ""),
		SSOBypass:       boolEnv("SSO_BYPASS", false),
	}

	// The synthetic-principal bypass must never survive into production.
	if cfg.Production() && cfg.SSOBypass {
		log.Println("SSO_BYPASS ignored in production")
		cfg.SSOBypass = false
	}
	return cfg
}

// Production reports whether the app runs with production settings.
func (a App) Production() bool {
	return a.Env == "production" || a.Env == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitEnv(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if val == "1" || val == "true" || val == "TRUE" {
			return true
		}
		if val == "0" || val == "false" || val == "FALSE" {
			return false
		}
		log.Printf("invalid bool for %s, using fallback %v", key, fallback)
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
