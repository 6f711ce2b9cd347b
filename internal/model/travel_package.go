package model

import (
	"encoding/json"
	"time"
)

// TravelPackage is one structured record per ingested document. Collection
// fields are stored as JSON text columns; use Fields/ApplyFields and View to
// move between the column form and the semantic containers.
type TravelPackage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Filename       string    `gorm:"size:255;not null;uniqueIndex" json:"filename"`
	Title          *string   `gorm:"size:500" json:"title"`
	Description    *string   `gorm:"type:text" json:"description"`
	Destinations   string    `gorm:"type:text" json:"-"`
	DurationDays   *int      `json:"duration_days"`
	DurationNights *int      `json:"duration_nights"`
	TransportType  *string   `gorm:"size:100" json:"transport_type"`
	Dates          string    `gorm:"type:text" json:"-"`
	Prices         string    `gorm:"type:text" json:"-"`
	Hotels         string    `gorm:"type:text" json:"-"`
	Includes       string    `gorm:"type:text" json:"-"`
	Excludes       string    `gorm:"type:text" json:"-"`
	Highlights     string    `gorm:"type:text" json:"-"`
	RawContent     string    `gorm:"type:text" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PackageFields is the schema-shaped projection of a document's free text.
// Every field is optional; absence is a valid state and is never fabricated.
type PackageFields struct {
	Title           *string        `json:"title"`
	Description     *string        `json:"description"`
	Destinations    []string       `json:"destinations"`
	DurationDays    *int           `json:"duration_days"`
	DurationNights  *int           `json:"duration_nights"`
	TransportType   *string        `json:"transport_type"`
	Dates           []TravelDate   `json:"dates"`
	Hotels          []Hotel        `json:"hotels"`
	Includes        []string       `json:"includes"`
	Excludes        []string       `json:"excludes"`
	Highlights      []string       `json:"highlights"`
	AdditionalCosts map[string]any `json:"additional_costs"`
}

// TravelDate is one departure/return pair with its prices. Prices stay
// untyped because documents mix numeric amounts and text like "na upit".
type TravelDate struct {
	DepartureDate   string `json:"departure_date"`
	ReturnDate      string `json:"return_date"`
	PriceRegular    any    `json:"price_regular"`
	PriceDiscounted any    `json:"price_discounted"`
}

type Hotel struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Location string `json:"location"`
}

// Normalize replaces nil collections with empty containers.
func (f *PackageFields) Normalize() {
	if f.Destinations == nil {
		f.Destinations = []string{}
	}
	if f.Dates == nil {
		f.Dates = []TravelDate{}
	}
	if f.Hotels == nil {
		f.Hotels = []Hotel{}
	}
	if f.Includes == nil {
		f.Includes = []string{}
	}
	if f.Excludes == nil {
		f.Excludes = []string{}
	}
	if f.Highlights == nil {
		f.Highlights = []string{}
	}
	if f.AdditionalCosts == nil {
		f.AdditionalCosts = map[string]any{}
	}
}

// ApplyFields overwrites all structured columns from the given projection.
func (p *TravelPackage) ApplyFields(f PackageFields) {
	f.Normalize()
	p.Title = f.Title
	p.Description = f.Description
	p.DurationDays = f.DurationDays
	p.DurationNights = f.DurationNights
	p.TransportType = f.TransportType
	p.Destinations = marshalJSON(f.Destinations)
	p.Dates = marshalJSON(f.Dates)
	p.Prices = marshalJSON(f.AdditionalCosts)
	p.Hotels = marshalJSON(f.Hotels)
	p.Includes = marshalJSON(f.Includes)
	p.Excludes = marshalJSON(f.Excludes)
	p.Highlights = marshalJSON(f.Highlights)
}

// Fields decodes the JSON columns back into containers. Null or corrupt
// columns decode to empty containers, never nil.
func (p *TravelPackage) Fields() PackageFields {
	f := PackageFields{
		Title:          p.Title,
		Description:    p.Description,
		DurationDays:   p.DurationDays,
		DurationNights: p.DurationNights,
		TransportType:  p.TransportType,
	}
	unmarshalJSON(p.Destinations, &f.Destinations)
	unmarshalJSON(p.Dates, &f.Dates)
	unmarshalJSON(p.Prices, &f.AdditionalCosts)
	unmarshalJSON(p.Hotels, &f.Hotels)
	unmarshalJSON(p.Includes, &f.Includes)
	unmarshalJSON(p.Excludes, &f.Excludes)
	unmarshalJSON(p.Highlights, &f.Highlights)
	f.Normalize()
	return f
}

// PackageView is the wire representation with decoded collections.
type PackageView struct {
	ID             uint           `json:"id"`
	Filename       string         `json:"filename"`
	Title          *string        `json:"title"`
	Description    *string        `json:"description"`
	Destinations   []string       `json:"destinations"`
	DurationDays   *int           `json:"duration_days"`
	DurationNights *int           `json:"duration_nights"`
	TransportType  *string        `json:"transport_type"`
	Dates          []TravelDate   `json:"dates"`
	Prices         map[string]any `json:"prices"`
	Hotels         []Hotel        `json:"hotels"`
	Includes       []string       `json:"includes"`
	Excludes       []string       `json:"excludes"`
	Highlights     []string       `json:"highlights"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (p *TravelPackage) View() PackageView {
	f := p.Fields()
	return PackageView{
		ID:             p.ID,
		Filename:       p.Filename,
		Title:          f.Title,
		Description:    f.Description,
		Destinations:   f.Destinations,
		DurationDays:   f.DurationDays,
		DurationNights: f.DurationNights,
		TransportType:  f.TransportType,
		Dates:          f.Dates,
		Prices:         f.AdditionalCosts,
		Hotels:         f.Hotels,
		Includes:       f.Includes,
		Excludes:       f.Excludes,
		Highlights:     f.Highlights,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func marshalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

func unmarshalJSON(raw string, dst any) {
	if raw == "" {
		return
	}
	_ = json.Unmarshal([]byte(raw), dst)
}
