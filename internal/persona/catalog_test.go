package persona_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lunaapp/luna-backend/internal/domain"
	"github.com/lunaapp/luna-backend/internal/persona"
)

func TestValid_CanonicalNamesOnly(t *testing.T) {
	for _, p := range persona.All() {
		assert.True(t, persona.Valid(p), "expected %q to be valid", p)
	}
	assert.Len(t, persona.All(), 5)

	for _, name := range []string{"luna", "LUNA", "flirty", "Sweet & caring", "Mysterious", ""} {
		assert.False(t, persona.Valid(domain.Persona(name)), "expected %q to be invalid", name)
	}
}

func TestTemplate_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, persona.Template(persona.Default), persona.Template(domain.Persona("nope")))
	assert.NotEqual(t, persona.Template(persona.Flirty), persona.Template(persona.Seductive))
}
