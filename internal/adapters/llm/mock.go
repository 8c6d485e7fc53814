package llm

import "context"

// Mock is a CompletionProvider for local development and tests.
type Mock struct{}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Generate(ctx context.Context, model string, prompt string) (string, error) {
	return "Hey! I'm so glad you messaged me 💜 Tell me more about your day!", nil
}
