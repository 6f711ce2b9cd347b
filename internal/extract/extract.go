package extract

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"turbot/internal/ai"
	"turbot/internal/model"
)

const defaultPrefixChars = 4000

// Completer is the text-completion capability the extractor depends on.
type Completer interface {
	Complete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage) (string, error)
}

// Result is the outcome of a best-effort extraction: either a parsed field
// set or the raw model output that failed to parse. Fields is always usable;
// on failure it is the empty projection.
type Result struct {
	Fields model.PackageFields
	Parsed bool
	Raw    string
}

// Extractor pulls structured trip fields out of free text with a fixed
// schema prompt. Extraction is non-fatal by contract: every failure mode
// returns an empty field set instead of an error.
type Extractor struct {
	client      Completer
	cfg         ai.ChatConfig
	prefixChars int
}

// New builds an Extractor. A nil client means no completion capability is
// configured; Extract then short-circuits without a network call.
func New(client Completer, cfg ai.ChatConfig, prefixChars int) *Extractor {
	if prefixChars <= 0 {
		prefixChars = defaultPrefixChars
	}
	return &Extractor{client: client, cfg: cfg, prefixChars: prefixChars}
}

const extractionPrompt = `Analiziraj sledeći turistički dokument i izdvoji strukturirane podatke u JSON formatu.

VAŽNO: Izvlači SAMO podatke koji STVARNO postoje u dokumentu. Ne izmišljaj podatke!

Dokument: %CONTENT%

Vrati JSON sa sledećim poljima (ostavi prazno ili null ako podaci ne postoje):
{
    "title": "Naslov putovanja",
    "description": "Kratak opis putovanja",
    "destinations": ["lista glavnih destinacija"],
    "duration_days": broj_dana,
    "duration_nights": broj_nocenja,
    "transport_type": "tip prevoza",
    "dates": [
        {
            "departure_date": "datum polaska",
            "return_date": "datum povratka",
            "price_regular": cena_regularna,
            "price_discounted": cena_sa_popustom
        }
    ],
    "hotels": [
        {
            "name": "naziv hotela",
            "category": "kategorija",
            "location": "lokacija"
        }
    ],
    "includes": ["šta je uključeno u cenu"],
    "excludes": ["šta NIJE uključeno u cenu"],
    "highlights": ["glavne atrakcije/aktivnosti"],
    "additional_costs": {
        "single_room_supplement": iznos,
        "optional_tours": iznos,
        "other": "ostali troškovi"
    }
}

Odgovori SAMO sa JSON-om, bez dodatnog teksta.`

// Extract invokes the model on a bounded prefix of text and parses the JSON
// reply tolerantly. filename is only used for logging.
func (e *Extractor) Extract(ctx context.Context, text, filename string) Result {
	empty := Result{}
	empty.Fields.Normalize()

	if e.client == nil || strings.TrimSpace(text) == "" {
		return empty
	}

	prompt := strings.Replace(extractionPrompt, "%CONTENT%", truncate(text, e.prefixChars), 1)
	reply, err := e.client.Complete(ctx, e.cfg, []ai.ChatMessage{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		log.Printf("extract: model call for %s failed: %v", filename, err)
		return empty
	}

	jsonStr := StripCodeFence(reply)
	var fields model.PackageFields
	if err := json.Unmarshal([]byte(jsonStr), &fields); err != nil {
		log.Printf("extract: json parse for %s failed: %v", filename, err)
		log.Printf("extract: response was: %s", jsonStr)
		empty.Raw = reply
		return empty
	}
	fields.Normalize()
	return Result{Fields: fields, Parsed: true, Raw: reply}
}

// StripCodeFence removes surrounding markdown code-fence markers, if present.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	} else {
		return s
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// truncate bounds text to max runes so the prompt fits the model context.
func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
