package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSON(t *testing.T) {
	t.Run("Should parse a response that is JSON outright", func(t *testing.T) {
		v, ok := extractJSON(`{"status":"ok"}`)
		assert.True(t, ok)
		assert.Equal(t, "ok", v.(map[string]any)["status"])
	})

	t.Run("Should extract from a fenced json code block", func(t *testing.T) {
		text := "Here is the result:\n```json\n{\"count\": 3}\n```\nDone."
		v, ok := extractJSON(text)
		assert.True(t, ok)
		assert.Equal(t, float64(3), v.(map[string]any)["count"])
	})

	t.Run("Should extract a bracket-balanced span embedded in prose", func(t *testing.T) {
		text := `The agent replied with {"ok": true, "nested": {"a": 1}} and nothing else.`
		v, ok := extractJSON(text)
		assert.True(t, ok)
		m := v.(map[string]any)
		assert.Equal(t, true, m["ok"])
	})

	t.Run("Should not be confused by braces inside quoted strings", func(t *testing.T) {
		text := `noise { "msg": "contains a } brace" } trailing`
		v, ok := extractJSON(text)
		assert.True(t, ok)
		assert.Equal(t, "contains a } brace", v.(map[string]any)["msg"])
	})

	t.Run("Should return false on plain text with no JSON", func(t *testing.T) {
		_, ok := extractJSON("just some plain output, nothing structured here")
		assert.False(t, ok)
	})

	t.Run("Should never panic on malformed brackets", func(t *testing.T) {
		assert.NotPanics(t, func() {
			_, _ = extractJSON("{{{ this is not json [ at all")
		})
	})
}
