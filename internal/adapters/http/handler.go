// Package httpadapter exposes the chat and payment services over a chi
// router with per-IP rate limits, restricted CORS and security headers.
package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/lunaapp/luna-backend/internal/app/billing"
	"github.com/lunaapp/luna-backend/internal/app/chat"
	"github.com/lunaapp/luna-backend/internal/domain"
	"github.com/lunaapp/luna-backend/internal/observability"
	"github.com/lunaapp/luna-backend/internal/persona"
)

const maxWebhookBody = 1 << 16

const upsellMessage = "You've used all 20 free messages today! 💔\n\n" +
	"Upgrade to Luna Plus for:\n" +
	"✨ Unlimited messages\n" +
	"💜 Access to ALL Luna personalities\n" +
	"🔥 Priority responses\n\n" +
	"Start your unlimited experience now!"

type Server struct {
	chat    *chat.Service
	billing *billing.Service
	debug   bool
}

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string
	// Debug includes internal diagnostic detail in 5xx responses.
	Debug bool
}

func NewServer(chatSvc *chat.Service, billingSvc *billing.Service, opts Options) http.Handler {
	s := &Server{chat: chatSvc, billing: billingSvc, debug: opts.Debug}

	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(withLogging)
	r.Use(withSecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(httprate.LimitByIP(10, time.Minute)).Post("/chat", s.handleChat)
		r.With(httprate.LimitByIP(30, time.Minute)).Get("/chat/history", s.handleHistory)

		r.Route("/payment", func(r chi.Router) {
			r.With(httprate.LimitByIP(10, time.Minute)).Post("/create-checkout", s.handleCreateCheckout)
			r.Post("/webhook", s.handleWebhook)
			r.With(httprate.LimitByIP(30, time.Minute)).Get("/subscription-status", s.handleSubscriptionStatus)
			r.With(httprate.LimitByIP(10, time.Minute)).Post("/create-portal-session", s.handleCreatePortalSession)
		})
	})

	return r
}

// ─────────────────────────────────────────────
// DTOs
// ─────────────────────────────────────────────

type chatRequest struct {
	Message string `json:"message"`
	Persona string `json:"persona,omitempty"`
	UserID  string `json:"userId"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

type historyMessage struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`
}

type historyResponse struct {
	Messages []historyMessage `json:"messages"`
}

type checkoutRequest struct {
	UserID string `json:"userId"`
	PlanID string `json:"planId,omitempty"`
}

type checkoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
	SessionID   string `json:"sessionId"`
}

type subscriptionStatusResponse struct {
	IsSubscribed bool   `json:"isSubscribed"`
	Status       string `json:"status"`
	PlanID       string `json:"planId,omitempty"`
}

type portalRequest struct {
	UserID string `json:"userId"`
}

type portalResponse struct {
	PortalURL string `json:"portalUrl"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "Luna Backend"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid JSON data")
		return
	}

	if req.UserID == "" {
		badRequest(w, "User ID is required")
		return
	}
	if req.Message == "" {
		badRequest(w, "Message is required")
		return
	}

	p := domain.Persona(req.Persona)
	if p == "" {
		p = persona.Default
	}

	out, err := s.chat.Send(r.Context(), chat.SendInput{
		Identity: domain.Identity(req.UserID),
		Persona:  p,
		Message:  req.Message,
	})
	if err != nil {
		s.writeChatError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: out.Reply})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		badRequest(w, "User ID is required")
		return
	}

	p := domain.Persona(r.URL.Query().Get("persona"))
	if p == "" {
		p = persona.Default
	}

	events, err := s.chat.History(r.Context(), domain.Identity(userID), p)
	if err != nil {
		s.writeChatError(w, err)
		return
	}

	msgs := make([]historyMessage, 0, len(events))
	for _, ev := range events {
		msgs = append(msgs, historyMessage{
			ID:        string(ev.ID),
			Message:   ev.UserMessage,
			Reply:     ev.ReplyText,
			Timestamp: ev.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, historyResponse{Messages: msgs})
}

func (s *Server) handleCreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid JSON data")
		return
	}
	if req.UserID == "" {
		badRequest(w, "User ID is required")
		return
	}
	if req.PlanID == "" {
		req.PlanID = "monthly"
	}

	sess, err := s.billing.CreateCheckout(r.Context(), domain.Identity(req.UserID), req.PlanID)
	if err != nil {
		s.writeBillingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkoutResponse{CheckoutURL: sess.URL, SessionID: sess.ID})
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		badRequest(w, "Invalid payload")
		return
	}

	err = s.billing.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidWebhook) {
			badRequest(w, "Invalid signature")
			return
		}
		s.writeBillingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) handleSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		badRequest(w, "User ID is required")
		return
	}

	st, err := s.billing.Status(r.Context(), domain.Identity(userID))
	if err != nil {
		s.writeBillingError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, subscriptionStatusResponse{
		IsSubscribed: st.IsSubscribed,
		Status:       string(st.Status),
		PlanID:       st.PlanID,
	})
}

func (s *Server) handleCreatePortalSession(w http.ResponseWriter, r *http.Request) {
	var req portalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid JSON data")
		return
	}
	if req.UserID == "" {
		badRequest(w, "User ID is required")
		return
	}

	url, err := s.billing.PortalSession(r.Context(), domain.Identity(req.UserID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSubscriptionNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "No subscription found"})
		case errors.Is(err, domain.ErrCustomerNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "Customer ID not found"})
		default:
			s.writeBillingError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, portalResponse{PortalURL: url})
}

// ─────────────────────────────────────────────
// Error mapping
// ─────────────────────────────────────────────

// writeChatError maps the core error taxonomy onto the response contract.
// The quota terminal state is a business outcome with its own shape, not a
// failure.
func (s *Server) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidIdentity):
		badRequest(w, "Invalid user ID format")
	case errors.Is(err, domain.ErrInvalidMessage):
		badRequest(w, "Invalid message. Message must be between 1 and 5000 characters.")
	case errors.Is(err, domain.ErrInvalidPersona):
		badRequest(w, "Invalid persona")
	case errors.Is(err, domain.ErrDailyLimitReached):
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error":         "Daily limit reached",
			"limit_reached": true,
			"message":       upsellMessage,
		})
	case errors.Is(err, domain.ErrUpstreamQuotaExhausted):
		writeJSON(w, http.StatusTooManyRequests, map[string]string{
			"error":   "API quota exceeded. Please wait a few minutes before trying again.",
			"details": "All available models exhausted their quota.",
		})
	case domain.IsConfigurationError(err):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		s.internalError(w, err, "An error occurred while processing your message. Please try again.")
	}
}

func (s *Server) writeBillingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidIdentity):
		badRequest(w, "Invalid user ID format")
	case errors.Is(err, domain.ErrUnknownPlan):
		badRequest(w, "Invalid plan ID")
	case domain.IsConfigurationError(err):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		s.internalError(w, err, "An error occurred while processing the payment request.")
	}
}

// ─────────────────────────────────────────────
// HTTP helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		observability.Logger().Error("encode response", "error", err)
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

// internalError hides diagnostics unless the service runs in debug mode.
func (s *Server) internalError(w http.ResponseWriter, err error, msg string) {
	body := map[string]string{"error": msg}
	if s.debug {
		body["details"] = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, body)
}
