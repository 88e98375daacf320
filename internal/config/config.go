package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Reaction policies for announcement reactions.
const (
	ReactionAllowDuplicates = "allow-duplicates"
	ReactionOnePerEmoji     = "one-per-emoji"
)

// Attempt store backends for the login limiter.
const (
	AttemptStoreMemory = "memory"
	AttemptStoreRedis  = "redis"
)

const defaultJWTSecret = "change-this-to-a-secure-random-string"

// Config holds all application configuration.
type Config struct {
	ServerPort string
	AppEnv     string
	GinMode    string
	LogLevel   string
	LogFormat  string

	FirebaseProjectID       string
	FirebaseCredentialsFile string
	FirebaseCredentialsJSON string

	AdminJWTSecret    string
	AdminJWTSecretSet bool
	AdminSessionTTL   time.Duration
	BcryptCost        int

	LoginMaxAttempts  int
	LoginLockout      time.Duration
	LoginAttemptStore string
	RedisURL          string

	ReactionPolicy     string
	PublicCacheSeconds int

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFromName string

	// TrustedProxies lists proxy addresses or CIDRs whose X-Forwarded-For
	// is honoured. Empty means the socket peer is the client address.
	TrustedProxies []string

	// AllowedOrigins controls HTTP CORS and WebSocket origin validation.
	// Empty slice means all origins are permitted (dev default).
	AllowedOrigins []string
}

// Load reads configuration from environment variables with sensible defaults.
// It loads .env file if present but does not fail if missing.
func Load() *Config {
	_ = godotenv.Load() // Ignore error — .env is optional

	secret := os.Getenv("ADMIN_JWT_SECRET")

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		AppEnv:                  getEnv("APP_ENV", EnvDevelopment),
		GinMode:                 getEnv("GIN_MODE", "debug"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "pretty"),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),
		AdminJWTSecret:          getEnv("ADMIN_JWT_SECRET", defaultJWTSecret),
		AdminJWTSecretSet:       secret != "",
		AdminSessionTTL:         time.Duration(getEnvInt("ADMIN_SESSION_MAX_AGE", 86400)) * time.Second,
		BcryptCost:              getEnvInt("BCRYPT_COST", 12),
		LoginMaxAttempts:        getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginLockout:            time.Duration(getEnvInt("LOGIN_LOCKOUT_MINUTES", 15)) * time.Minute,
		LoginAttemptStore:       getEnv("LOGIN_ATTEMPT_STORE", AttemptStoreMemory),
		RedisURL:                getEnv("REDIS_URL", "redis://localhost:6379/0"),
		ReactionPolicy:          getEnv("REACTION_POLICY", ReactionAllowDuplicates),
		PublicCacheSeconds:      getEnvInt("PUBLIC_CACHE_SECONDS", 60),
		SMTPHost:                getEnv("SMTP_HOST", ""),
		SMTPPort:                getEnv("SMTP_PORT", "587"),
		SMTPUsername:            getEnv("SMTP_USERNAME", ""),
		SMTPPassword:            getEnv("SMTP_PASSWORD", ""),
		SMTPFromName:            getEnv("SMTP_FROM_NAME", "Tech Incepto"),
		TrustedProxies:          parseOrigins(getEnv("TRUSTED_PROXIES", "")),
		AllowedOrigins:          parseOrigins(getEnv("ALLOWED_ORIGINS", "")),
	}
	return cfg
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// Warnings lists deployment misconfigurations that should be surfaced at startup.
func (c *Config) Warnings() []string {
	var out []string
	if !c.AdminJWTSecretSet && c.AppEnv != EnvDevelopment {
		out = append(out, "ADMIN_JWT_SECRET is not set; admin sessions are signed with the built-in default secret")
	}
	if c.ReactionPolicy != ReactionAllowDuplicates && c.ReactionPolicy != ReactionOnePerEmoji {
		out = append(out, "unknown REACTION_POLICY "+c.ReactionPolicy+"; falling back to "+ReactionAllowDuplicates)
	}
	if c.LoginAttemptStore != AttemptStoreMemory && c.LoginAttemptStore != AttemptStoreRedis {
		out = append(out, "unknown LOGIN_ATTEMPT_STORE "+c.LoginAttemptStore+"; falling back to "+AttemptStoreMemory)
	}
	return out
}

// DedupReactions reports whether a user may hold at most one reaction per emoji.
func (c *Config) DedupReactions() bool {
	return c.ReactionPolicy == ReactionOnePerEmoji
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// parseOrigins splits a comma-separated list into a trimmed slice.
// Returns nil if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
