package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries everything the binary reads from the environment.
// Quota policy and the model candidate list are configuration, not code.
type Config struct {
	Port  string
	Debug bool

	// Gemini
	GeminiAPIKey string
	// Models are tried in priority order on every chat request.
	Models []string

	// Firestore
	StorageBackend string // "memory" or "firestore"
	GCPProjectID   string

	// Stripe
	StripeSecretKey     string
	StripeWebhookSecret string
	StripePriceMonthly  string
	StripePrice3Months  string
	StripePriceYearly   string

	// Frontend
	FrontendURL     string
	FrontendOrigins []string

	// Free-tier quota: FreeDailyLimit events inside the trailing QuotaWindow.
	FreeDailyLimit int
	QuotaWindow    time.Duration

	UseMockLLM bool
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || strings.EqualFold(v, "true")
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: %s=%q is not an integer, using %d", key, v, def)
		return def
	}
	return n
}

func getListEnv(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

// Load reads all env vars and builds the config.
func Load() *Config {
	cfg := &Config{
		Port:  getEnv("PORT", "5001"),
		Debug: getBoolEnv("DEBUG", false),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		Models: getListEnv("LUNA_MODELS", []string{
			"gemini-1.5-flash",
			"gemini-1.5-pro",
			"gemini-2.0-flash",
		}),

		StorageBackend: getEnv("LUNA_STORAGE_BACKEND", "memory"),
		GCPProjectID:   getEnv("LUNA_GCP_PROJECT", ""),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StripePriceMonthly:  getEnv("STRIPE_PRICE_MONTHLY", ""),
		StripePrice3Months:  getEnv("STRIPE_PRICE_3MONTHS", ""),
		StripePriceYearly:   getEnv("STRIPE_PRICE_YEARLY", ""),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		FrontendOrigins: getListEnv("FRONTEND_URLS", []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		}),

		FreeDailyLimit: getIntEnv("LUNA_FREE_DAILY_LIMIT", 20),
		QuotaWindow:    time.Duration(getIntEnv("LUNA_QUOTA_WINDOW_HOURS", 24)) * time.Hour,

		UseMockLLM: getBoolEnv("LUNA_USE_MOCK_LLM", false),
	}

	if cfg.StorageBackend == "firestore" && cfg.GCPProjectID == "" {
		log.Fatal("LUNA_GCP_PROJECT must be set for the firestore storage backend")
	}

	return cfg
}
