package persona_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lunaapp/luna-backend/internal/persona"
)

func TestBuildPrompt_FirstMessageFraming(t *testing.T) {
	prompt := persona.BuildPrompt(persona.Luna, true, 0, "Hello!")

	assert.Contains(t, prompt, "FIRST message")
	assert.Contains(t, prompt, "CRITICAL RULES:")
	assert.Contains(t, prompt, "User: Hello!")
	assert.True(t, strings.HasSuffix(prompt, "Luna:"))
}

func TestBuildPrompt_ContinuingFraming(t *testing.T) {
	prompt := persona.BuildPrompt(persona.Flirty, false, 7, "miss me?")

	assert.NotContains(t, prompt, "FIRST message")
	assert.Contains(t, prompt, "(7 messages exchanged)")
	assert.Contains(t, prompt, persona.Template(persona.Flirty))
	assert.Contains(t, prompt, "User: miss me?")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	a := persona.BuildPrompt(persona.Seductive, false, 3, "hey")
	b := persona.BuildPrompt(persona.Seductive, false, 3, "hey")
	assert.Equal(t, a, b)
}
