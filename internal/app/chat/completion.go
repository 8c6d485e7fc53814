package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/lunaapp/luna-backend/internal/domain"
	"github.com/lunaapp/luna-backend/internal/observability"
)

// Completion is a successful upstream reply and the model that produced it.
type Completion struct {
	Text  string
	Model string
}

// requestCompletion tries each configured model once, in priority order,
// first success wins. Every failure advances to the next candidate, not
// just quota errors; only exhausting the whole list surfaces an error,
// tagged by the class of the last failure.
func (s *Service) requestCompletion(ctx context.Context, prompt string) (Completion, error) {
	log := observability.LoggerFromContext(ctx)

	var lastErr error
	for _, model := range s.models {
		text, err := s.provider.Generate(ctx, model, prompt)
		if err != nil {
			lastErr = err
			if isQuotaClass(err) {
				log.Warn("model out of quota, trying next", "model", model, "error", err)
			} else {
				log.Warn("model unavailable, trying next", "model", model, "error", err)
			}
			continue
		}

		log.Info("completion generated", "model", model)
		return Completion{Text: text, Model: model}, nil
	}

	if lastErr == nil {
		return Completion{}, fmt.Errorf("%w: no model candidates configured", domain.ErrUpstreamFailed)
	}
	if isQuotaClass(lastErr) {
		return Completion{}, fmt.Errorf("%w: %v", domain.ErrUpstreamQuotaExhausted, lastErr)
	}
	return Completion{}, fmt.Errorf("%w: %v", domain.ErrUpstreamFailed, lastErr)
}

// isQuotaClass classifies an upstream error by its textual signals: an HTTP
// 429, a RESOURCE_EXHAUSTED status, or any mention of quota.
func isQuotaClass(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(strings.ToLower(msg), "quota")
}
