package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	httpadapter "github.com/lunaapp/luna-backend/internal/adapters/http"
	"github.com/lunaapp/luna-backend/internal/adapters/llm"
	stripeadapter "github.com/lunaapp/luna-backend/internal/adapters/payment/stripe"
	firestorestore "github.com/lunaapp/luna-backend/internal/adapters/storage/firestore"
	memstore "github.com/lunaapp/luna-backend/internal/adapters/storage/memory"
	"github.com/lunaapp/luna-backend/internal/app/billing"
	"github.com/lunaapp/luna-backend/internal/app/chat"
	"github.com/lunaapp/luna-backend/internal/config"
	"github.com/lunaapp/luna-backend/internal/domain"
	"github.com/lunaapp/luna-backend/internal/observability"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	observability.Init(cfg.Debug)
	log := observability.Logger()
	ctx := context.Background()

	// Completion provider. A missing key leaves it nil: chat requests then
	// answer 500 until the operator configures it, the rest of the API works.
	var provider domain.CompletionProvider
	switch {
	case cfg.UseMockLLM:
		log.Info("using mock completion provider")
		provider = llm.NewMock()
	case cfg.GeminiAPIKey == "":
		log.Warn("GEMINI_API_KEY not set, chat requests will fail")
	default:
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Error("initializing gemini client", "error", err)
			os.Exit(1)
		}
		provider = gemini
	}

	// Storage: Firestore or memory. One store implements both interfaces.
	var (
		events domain.EventLog
		subs   domain.SubscriptionStore
	)
	switch cfg.StorageBackend {
	case "firestore":
		log.Info("using firestore storage", "project", cfg.GCPProjectID)
		store, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Error("initializing firestore store", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		events = store
		subs = store
	default:
		log.Info("using in-memory storage")
		events = memstore.NewEventLog()
		subs = memstore.NewSubscriptionStore()
	}

	// Payments are optional: without a secret key the billing endpoints
	// report the missing configuration instead of serving.
	var payments domain.PaymentProvider
	if cfg.StripeSecretKey != "" {
		p, err := stripeadapter.NewProvider(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
		if err != nil {
			log.Error("initializing stripe provider", "error", err)
			os.Exit(1)
		}
		payments = p
		log.Info("stripe payment system enabled")
	} else {
		log.Warn("stripe API key not configured, payments disabled")
	}

	chatSvc := chat.NewService(provider, events, subs, chat.Policy{
		Models:         cfg.Models,
		FreeDailyLimit: cfg.FreeDailyLimit,
		QuotaWindow:    cfg.QuotaWindow,
	})
	billingSvc := billing.NewService(
		payments,
		subs,
		billing.Plans(cfg.StripePriceMonthly, cfg.StripePrice3Months, cfg.StripePriceYearly),
		cfg.FrontendURL,
	)

	handler := httpadapter.NewServer(chatSvc, billingSvc, httpadapter.Options{
		AllowedOrigins: cfg.FrontendOrigins,
		Debug:          cfg.Debug,
	})

	addr := ":" + cfg.Port
	log.Info("luna backend listening",
		"addr", addr,
		"models", cfg.Models,
		"free_daily_limit", cfg.FreeDailyLimit,
		"allowed_origins", cfg.FrontendOrigins,
	)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
