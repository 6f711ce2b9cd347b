package app

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"turbot/internal/ai"
	"turbot/internal/index"
)

// Payload is the structured answer every chat turn produces: free text, a
// reservation-intent flag and an optional contact email. Chat always returns
// a well-formed Payload, whatever fails underneath.
type Payload struct {
	Content string `json:"content"`
	Reserve bool   `json:"reserve"`
	Gmail   string `json:"gmail"`
}

// Completer is the text-completion capability; nil means not configured.
type Completer interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

// Retriever is the semantic-index lookup capability.
type Retriever interface {
	Available() bool
	Query(ctx context.Context, text string, k int) ([]index.ScoredChunk, error)
}

// AnswerService turns a user query plus conversation history into a Payload
// through a three-tier fallback ladder: retrieval-augmented generation, then
// plain generation, then static guidance text. With no completion capability
// at all it answers from a deterministic keyword fallback.
type AnswerService struct {
	client    Completer
	retriever Retriever
	chatCfg   ai.ChatConfig
	topK      int
}

func NewAnswerService(client Completer, retriever Retriever, chatCfg ai.ChatConfig, topK int) *AnswerService {
	if topK <= 0 {
		topK = 4
	}
	return &AnswerService{
		client:    client,
		retriever: retriever,
		chatCfg:   chatCfg,
		topK:      topK,
	}
}

// minAnswerLen is the degraded-mode trigger: an answer shorter than this is
// treated as a retrieval failure and escalated down the ladder.
const minAnswerLen = 10

const ragSystemPrompt = `Ti si TurBot, profesionalni turistički asistent za putovanja iz Srbije.

VAŽNO: Tvoj odgovor MORA biti u JSON formatu:
{"content": "tvoj detaljni odgovor", "reserve": true/false, "gmail": "email@example.com"}

PRAVILA:
1. content: Daj detaljne informacije koristeći podatke iz konteksta.
2. reserve: Postavi na true SAMO ako korisnik jasno želi rezervaciju/booking (npr. "rezervišem", "hoću da idem", "bukiram")
3. gmail: Pronađi email adresu iz konteksta dokumenata. Ako nema email-a, ostavi prazno.

Dostupni kontekst:
%CONTEXT%

Istorija razgovora:
%HISTORY%`

const plainFallbackPrompt = `Ti si TurBot, turistički asistent za Srbiju. Pružaj kratke, korisne odgovore o turističkim destinacijama, smeštaju, restoranima i putovanjima u Srbiji. Odgovaraj na srpskom jeziku u 2-3 rečenice.`

const apologyMessage = "Došlo je do greške. Molim pokušajte ponovo."

// Answer processes one chat turn. It never returns an error: every failure
// collapses into a usable Payload. The second return value lists the source
// filenames of retrieved chunks, if any.
func (s *AnswerService) Answer(ctx context.Context, query, history string) (Payload, []string) {
	if s.client == nil {
		return s.keywordFallback(query), nil
	}

	if payload, sources, ok := s.answerWithRetrieval(ctx, query, history); ok {
		return payload, sources
	}
	if payload, ok := s.answerPlain(ctx, query); ok {
		return payload, nil
	}
	return Payload{
		Content: externalGuidance(query),
		Reserve: hasReservationIntent(query),
	}, nil
}

func (s *AnswerService) answerWithRetrieval(ctx context.Context, query, history string) (Payload, []string, bool) {
	if s.retriever == nil || !s.retriever.Available() {
		return Payload{}, nil, false
	}

	chunks, err := s.retriever.Query(ctx, query, s.topK)
	if err != nil {
		log.Printf("answer: retrieval failed: %v", err)
		return Payload{}, nil, false
	}
	if len(chunks) == 0 {
		return Payload{}, nil, false
	}

	var contextBlock strings.Builder
	sources := make([]string, 0, len(chunks))
	for _, c := range chunks {
		contextBlock.WriteString("\n---\n")
		contextBlock.WriteString(c.Chunk.Content)
		sources = append(sources, c.Chunk.Source)
	}
	contextBlock.WriteString("\n---")

	system := strings.Replace(ragSystemPrompt, "%CONTEXT%", contextBlock.String(), 1)
	system = strings.Replace(system, "%HISTORY%", history, 1)

	reply, err := s.client.Complete(ctx, s.chatCfg, []ai.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: query},
	})
	if err != nil {
		log.Printf("answer: rag generation failed: %v", err)
		return Payload{Content: apologyMessage}, nil, true
	}
	if len(strings.TrimSpace(reply)) < minAnswerLen {
		return Payload{}, nil, false
	}
	return ParsePayload(reply), sources, true
}

func (s *AnswerService) answerPlain(ctx context.Context, query string) (Payload, bool) {
	reply, err := s.client.Complete(ctx, s.chatCfg, []ai.ChatMessage{
		{Role: "system", Content: plainFallbackPrompt},
		{Role: "user", Content: query},
	})
	if err != nil {
		log.Printf("answer: plain generation failed: %v", err)
		return Payload{Content: apologyMessage}, true
	}
	reply = strings.TrimSpace(reply)
	if len(reply) < minAnswerLen {
		return Payload{}, false
	}
	return Payload{
		Content: reply,
		Reserve: hasReservationIntent(query),
	}, true
}

// ParsePayload recovers a Payload from model output. The JSON object may be
// wrapped in prose, so the substring between the first '{' and the last '}'
// is tried; unparseable output becomes the payload's free text. Missing
// fields default to empty/false.
func ParsePayload(raw string) Payload {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")

	if start != -1 && end > start {
		var payload Payload
		if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err == nil {
			if payload.Content == "" {
				payload.Content = "Izvinjavam se, nemam odgovor na vaše pitanje."
			}
			return payload
		}
	}

	content := strings.TrimSpace(raw)
	if content == "" {
		content = "Izvinjavam se, nemam odgovor na vaše pitanje."
	}
	return Payload{Content: content}
}

var reserveKeywords = []string{"rezervišem", "rezerviram", "hoću da idem", "bukiram", "rezervacija", "booking"}

func hasReservationIntent(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range reserveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// keywordFallback answers deterministically when no completion capability is
// configured.
func (s *AnswerService) keywordFallback(message string) Payload {
	lower := strings.ToLower(message)

	var content string
	switch {
	case containsAny(lower, "zdravo", "pozdrav", "hello", "hi"):
		content = "Zdravo! Ja sam TurBot, vaš turistički asistent. Mogu vam pomoći sa informacijama o putovanjima i turističkim aranžmanima."
	case containsAny(lower, "hvala", "thanks", "thank you"):
		content = "Nema na čemu! Tu sam da pomognem sa vašim turističkim potrebama."
	default:
		content = "Trenutno nemam pristup bazi turističkih podataka. Molim vas otpremite turistička dokumenta ili kontaktirajte direktno turističku agenciju za detaljne informacije."
	}

	return Payload{
		Content: content,
		Reserve: hasReservationIntent(message),
	}
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func externalGuidance(query string) string {
	return "Za detaljnije informacije o \"" + query + "\" preporučujem da proverite:\n" +
		"- Zvaničnu web stranicu Turističke organizacije Srbije (www.serbia.travel)\n" +
		"- Lokalne turističke organizacije\n" +
		"- Specijalizovane turističke portale\n\n" +
		"Mogu da pomognem sa opštim informacijama o turističkim destinacijama u Srbiji na osnovu dostupnih podataka."
}

// EstimateCost approximates the request price from character counts using
// gpt-4o-mini token rates (~0.75 tokens per character).
func EstimateCost(inputChars, outputChars int) float64 {
	inputTokens := float64(inputChars) * 0.75
	outputTokens := float64(outputChars) * 0.75
	return inputTokens/1000*0.00015 + outputTokens/1000*0.0006
}
