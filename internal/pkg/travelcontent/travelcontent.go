package travelcontent

import "strings"

// DefaultMinHits is the upload-gate threshold: how many keyword occurrences a
// document needs before it counts as travel/tourism content.
const DefaultMinHits = 3

// keywords covers Serbian agency vocabulary (destinations, monasteries,
// pricing terms) and a generic English travel vocabulary.
var keywords = []string{
	// Serbian
	"turizam", "putovanje", "hotel", "destinacija", "odmor", "letovanje",
	"zimovanje", "avion", "let", "smeštaj", "restoran", "atrakcija",
	"tura", "izlet", "vodič", "rezervacija", "itinerer", "grad",
	"zemlja", "plaža", "planina", "muzej", "kultura", "avantura",
	"krstarenje", "viza", "pasoš", "prtljag", "prevoz", "aerodrom",
	"srbija", "beograd", "novi sad", "niš", "kragujevac", "subotica",
	"pančevo", "zemun", "vojvodina", "šumadija", "zlatibor", "kopaonik",
	"fruška gora", "đerdap", "ram", "sremski karlovci", "oplenac",
	"studenica", "manasija", "ravanica", "sopoćani", "hilandar",
	"cena", "dinar", "evro", "doručak", "noćenje", "takse", "fakultativni",
	"polazak", "povratak", "transfer", "autobus", "grupa", "putnik",
	// English
	"tourism", "travel", "hotel", "destination", "vacation", "holiday",
	"flight", "accommodation", "restaurant", "attraction", "tour",
	"guide", "booking", "itinerary", "city", "country", "beach",
	"mountain", "museum", "culture", "adventure", "cruise", "resort",
	"visa", "passport", "luggage", "transportation", "airport",
}

// IsTravelRelated reports whether the text contains at least minHits
// case-insensitive occurrences of the domain keyword set. Pure function; used
// as the upload gate.
func IsTravelRelated(text string, minHits int) bool {
	if minHits <= 0 {
		minHits = DefaultMinHits
	}
	if strings.TrimSpace(text) == "" {
		return false
	}

	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits++
			if hits >= minHits {
				return true
			}
		}
	}
	return false
}
