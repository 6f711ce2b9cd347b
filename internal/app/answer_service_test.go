package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turbot/internal/ai"
	"turbot/internal/index"
	"turbot/internal/model"
)

type fakeCompleter struct {
	replies []string
	errs    []error
	calls   int
	prompts []string
}

func (f *fakeCompleter) Complete(_ context.Context, _ ai.ChatConfig, messages []ai.ChatMessage) (string, error) {
	i := f.calls
	f.calls++
	if len(messages) > 0 {
		f.prompts = append(f.prompts, messages[0].Content)
	}
	var reply string
	if i < len(f.replies) {
		reply = f.replies[i]
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return reply, err
}

type fakeRetriever struct {
	chunks []index.ScoredChunk
	err    error
	down   bool
}

func (f *fakeRetriever) Available() bool { return !f.down }

func (f *fakeRetriever) Query(_ context.Context, _ string, _ int) ([]index.ScoredChunk, error) {
	return f.chunks, f.err
}

func chunkOf(source, content string) index.ScoredChunk {
	return index.ScoredChunk{Chunk: model.IndexChunk{Source: source, Content: content}, Score: 0.9}
}

func TestAnswerKeywordFallback(t *testing.T) {
	s := NewAnswerService(nil, nil, ai.ChatConfig{}, 4)
	ctx := context.Background()

	t.Run("greeting", func(t *testing.T) {
		payload, sources := s.Answer(ctx, "Zdravo!", "")
		assert.Contains(t, payload.Content, "TurBot")
		assert.False(t, payload.Reserve)
		assert.Nil(t, sources)
	})

	t.Run("thanks", func(t *testing.T) {
		payload, _ := s.Answer(ctx, "Hvala puno", "")
		assert.Contains(t, payload.Content, "Nema na čemu")
	})

	t.Run("default answer", func(t *testing.T) {
		payload, _ := s.Answer(ctx, "Koje aranžmane imate?", "")
		assert.Contains(t, payload.Content, "bazi turističkih podataka")
	})

	t.Run("reservation intent detected", func(t *testing.T) {
		payload, _ := s.Answer(ctx, "Hoću da idem na Zlatibor", "")
		assert.True(t, payload.Reserve)
	})
}

func TestAnswerRetrievalPath(t *testing.T) {
	ctx := context.Background()

	t.Run("rag answer with sources", func(t *testing.T) {
		client := &fakeCompleter{replies: []string{`{"content":"Zlatibor košta 250 evra po osobi.","reserve":false,"gmail":"agencija@example.com"}`}}
		retriever := &fakeRetriever{chunks: []index.ScoredChunk{
			chunkOf("zlatibor.pdf", "Zlatibor, 250 evra, polazak iz Beograda"),
			chunkOf("kopaonik.pdf", "Kopaonik zimovanje"),
		}}
		s := NewAnswerService(client, retriever, ai.ChatConfig{}, 4)

		payload, sources := s.Answer(ctx, "Koliko košta Zlatibor?", "Korisnik: zdravo")
		assert.Equal(t, "Zlatibor košta 250 evra po osobi.", payload.Content)
		assert.Equal(t, "agencija@example.com", payload.Gmail)
		assert.Equal(t, []string{"zlatibor.pdf", "kopaonik.pdf"}, sources)

		require.Len(t, client.prompts, 1)
		assert.Contains(t, client.prompts[0], "Zlatibor, 250 evra")
		assert.Contains(t, client.prompts[0], "Korisnik: zdravo")
	})

	t.Run("generation error yields apology", func(t *testing.T) {
		client := &fakeCompleter{errs: []error{errors.New("timeout")}}
		retriever := &fakeRetriever{chunks: []index.ScoredChunk{chunkOf("doc.pdf", "sadržaj")}}
		s := NewAnswerService(client, retriever, ai.ChatConfig{}, 4)

		payload, _ := s.Answer(ctx, "pitanje", "")
		assert.Equal(t, apologyMessage, payload.Content)
	})

	t.Run("short rag answer escalates to plain generation", func(t *testing.T) {
		client := &fakeCompleter{replies: []string{"ok", "Zlatibor je planina na zapadu Srbije, poznata po skijanju."}}
		retriever := &fakeRetriever{chunks: []index.ScoredChunk{chunkOf("doc.pdf", "sadržaj")}}
		s := NewAnswerService(client, retriever, ai.ChatConfig{}, 4)

		payload, sources := s.Answer(ctx, "Šta je Zlatibor?", "")
		assert.Equal(t, 2, client.calls)
		assert.Contains(t, payload.Content, "Zlatibor je planina")
		assert.Nil(t, sources)
	})

	t.Run("empty index falls through to plain generation", func(t *testing.T) {
		client := &fakeCompleter{replies: []string{"Preporučujem obilazak Kalemegdana i Skadarlije u Beogradu."}}
		retriever := &fakeRetriever{}
		s := NewAnswerService(client, retriever, ai.ChatConfig{}, 4)

		payload, _ := s.Answer(ctx, "Šta da vidim u Beogradu?", "")
		assert.Equal(t, 1, client.calls)
		assert.Contains(t, payload.Content, "Kalemegdan")
	})

	t.Run("everything short collapses to static guidance", func(t *testing.T) {
		client := &fakeCompleter{replies: []string{"ok", "ne"}}
		retriever := &fakeRetriever{chunks: []index.ScoredChunk{chunkOf("doc.pdf", "sadržaj")}}
		s := NewAnswerService(client, retriever, ai.ChatConfig{}, 4)

		payload, _ := s.Answer(ctx, "rezervacija za Grčku", "")
		assert.Contains(t, payload.Content, "serbia.travel")
		assert.True(t, payload.Reserve)
	})

	t.Run("unavailable retriever skips straight to plain", func(t *testing.T) {
		client := &fakeCompleter{replies: []string{"Srbija ima mnogo lepih planinskih destinacija za odmor."}}
		s := NewAnswerService(client, &fakeRetriever{down: true}, ai.ChatConfig{}, 4)

		payload, sources := s.Answer(ctx, "preporuka", "")
		assert.Equal(t, 1, client.calls)
		assert.Nil(t, sources)
		assert.NotEmpty(t, payload.Content)
	})
}

func TestParsePayload(t *testing.T) {
	t.Run("clean json", func(t *testing.T) {
		p := ParsePayload(`{"content":"odgovor","reserve":true,"gmail":"a@b.com"}`)
		assert.Equal(t, Payload{Content: "odgovor", Reserve: true, Gmail: "a@b.com"}, p)
	})

	t.Run("json wrapped in prose", func(t *testing.T) {
		p := ParsePayload("Evo odgovora:\n{\"content\":\"odgovor\",\"reserve\":false,\"gmail\":\"\"}\nHvala.")
		assert.Equal(t, "odgovor", p.Content)
	})

	t.Run("plain text becomes content", func(t *testing.T) {
		p := ParsePayload("Samo običan tekst bez JSON-a.")
		assert.Equal(t, "Samo običan tekst bez JSON-a.", p.Content)
		assert.False(t, p.Reserve)
	})

	t.Run("empty content gets default", func(t *testing.T) {
		p := ParsePayload(`{"reserve":true}`)
		assert.True(t, p.Reserve)
		assert.Contains(t, p.Content, "Izvinjavam se")
	})

	t.Run("blank input gets default", func(t *testing.T) {
		p := ParsePayload("   ")
		assert.Contains(t, p.Content, "Izvinjavam se")
	})
}

func TestEstimateCost(t *testing.T) {
	assert.Zero(t, EstimateCost(0, 0))
	cost := EstimateCost(1000, 1000)
	assert.InDelta(t, 0.75*0.00015+0.75*0.0006, cost, 1e-9)
	assert.True(t, EstimateCost(100, 2000) > EstimateCost(100, 100))
}

func TestHasReservationIntent(t *testing.T) {
	assert.True(t, hasReservationIntent("Hteo bih da BUKIRAM aranžman"))
	assert.True(t, hasReservationIntent("zanima me rezervacija"))
	assert.False(t, hasReservationIntent("koliko košta"))
	assert.False(t, hasReservationIntent(strings.Repeat("a", 10)))
}
