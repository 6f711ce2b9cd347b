package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turbot/internal/ai"
)

type fakeCompleter struct {
	reply      string
	err        error
	lastPrompt string
}

func (f *fakeCompleter) Complete(_ context.Context, _ ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	if len(messages) > 0 {
		f.lastPrompt = messages[len(messages)-1].Content
	}
	return f.reply, f.err
}

func TestExtract(t *testing.T) {
	ctx := context.Background()

	t.Run("nil client short-circuits", func(t *testing.T) {
		e := New(nil, ai.ChatConfig{}, 0)
		result := e.Extract(ctx, "Putovanje u Grčku", "doc.txt")

		assert.False(t, result.Parsed)
		assert.NotNil(t, result.Fields.Destinations)
		assert.Empty(t, result.Fields.Destinations)
	})

	t.Run("blank text short-circuits", func(t *testing.T) {
		client := &fakeCompleter{reply: `{"title":"x"}`}
		e := New(client, ai.ChatConfig{}, 0)
		result := e.Extract(ctx, "   ", "doc.txt")

		assert.False(t, result.Parsed)
		assert.Empty(t, client.lastPrompt)
	})

	t.Run("parses fenced json reply", func(t *testing.T) {
		client := &fakeCompleter{reply: "```json\n{\"title\":\"Grčka leto\",\"destinations\":[\"Atina\",\"Solun\"],\"duration_days\":7}\n```"}
		e := New(client, ai.ChatConfig{}, 0)
		result := e.Extract(ctx, "Letovanje u Grčkoj, 7 dana", "grcka.txt")

		require.True(t, result.Parsed)
		require.NotNil(t, result.Fields.Title)
		assert.Equal(t, "Grčka leto", *result.Fields.Title)
		assert.Equal(t, []string{"Atina", "Solun"}, result.Fields.Destinations)
		require.NotNil(t, result.Fields.DurationDays)
		assert.Equal(t, 7, *result.Fields.DurationDays)
		// Absent collections come back as empty containers.
		assert.NotNil(t, result.Fields.Hotels)
	})

	t.Run("model error degrades to empty fields", func(t *testing.T) {
		client := &fakeCompleter{err: errors.New("rate limited")}
		e := New(client, ai.ChatConfig{}, 0)
		result := e.Extract(ctx, "Putovanje u Pariz avionom", "pariz.txt")

		assert.False(t, result.Parsed)
		assert.Nil(t, result.Fields.Title)
		assert.NotNil(t, result.Fields.Includes)
	})

	t.Run("unparseable reply keeps raw output", func(t *testing.T) {
		client := &fakeCompleter{reply: "Nažalost ne mogu da izdvojim podatke."}
		e := New(client, ai.ChatConfig{}, 0)
		result := e.Extract(ctx, "Putovanje u Rim", "rim.txt")

		assert.False(t, result.Parsed)
		assert.Equal(t, "Nažalost ne mogu da izdvojim podatke.", result.Raw)
	})

	t.Run("long input is truncated", func(t *testing.T) {
		client := &fakeCompleter{reply: `{}`}
		e := New(client, ai.ChatConfig{}, 100)
		e.Extract(ctx, strings.Repeat("put", 200), "dug.txt")

		assert.NotContains(t, client.lastPrompt, strings.Repeat("put", 120))
	})
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripCodeFence(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, StripCodeFence("  {\"a\":1}  "))
}
