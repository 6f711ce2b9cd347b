package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestTravelPackageFields(t *testing.T) {
	t.Run("apply then read back", func(t *testing.T) {
		fields := PackageFields{
			Title:          strPtr("Zlatibor vikend"),
			Description:    strPtr("Dva noćenja sa doručkom"),
			Destinations:   []string{"Zlatibor"},
			DurationDays:   intPtr(3),
			DurationNights: intPtr(2),
			TransportType:  strPtr("autobus"),
			Dates: []TravelDate{
				{DepartureDate: "2025-06-01", ReturnDate: "2025-06-03", PriceRegular: 120.0},
			},
			Hotels:          []Hotel{{Name: "Hotel Palisad", Category: "4*", Location: "centar"}},
			Includes:        []string{"prevoz", "smeštaj"},
			AdditionalCosts: map[string]any{"single_room_supplement": 30.0},
		}

		var pkg TravelPackage
		pkg.ApplyFields(fields)
		got := pkg.Fields()

		require.NotNil(t, got.Title)
		assert.Equal(t, "Zlatibor vikend", *got.Title)
		assert.Equal(t, []string{"Zlatibor"}, got.Destinations)
		assert.Equal(t, 3, *got.DurationDays)
		require.Len(t, got.Dates, 1)
		assert.Equal(t, "2025-06-01", got.Dates[0].DepartureDate)
		require.Len(t, got.Hotels, 1)
		assert.Equal(t, "Hotel Palisad", got.Hotels[0].Name)
		assert.Equal(t, []string{"prevoz", "smeštaj"}, got.Includes)
		// Unset collections surface as empty containers, not nil.
		assert.NotNil(t, got.Excludes)
		assert.NotNil(t, got.Highlights)
	})

	t.Run("empty columns decode to empty containers", func(t *testing.T) {
		pkg := TravelPackage{Filename: "prazan.txt"}
		got := pkg.Fields()

		assert.Nil(t, got.Title)
		assert.Empty(t, got.Destinations)
		assert.NotNil(t, got.Destinations)
		assert.NotNil(t, got.AdditionalCosts)
	})

	t.Run("corrupt column is tolerated", func(t *testing.T) {
		pkg := TravelPackage{Destinations: "{not json", Hotels: "42"}
		got := pkg.Fields()

		assert.NotNil(t, got.Destinations)
		assert.Empty(t, got.Destinations)
		assert.NotNil(t, got.Hotels)
	})

	t.Run("untyped prices survive the round trip", func(t *testing.T) {
		fields := PackageFields{
			Dates: []TravelDate{{DepartureDate: "2025-07-10", PriceRegular: "na upit"}},
		}
		var pkg TravelPackage
		pkg.ApplyFields(fields)
		got := pkg.Fields()

		require.Len(t, got.Dates, 1)
		assert.Equal(t, "na upit", got.Dates[0].PriceRegular)
	})
}

func TestTravelPackageView(t *testing.T) {
	var pkg TravelPackage
	pkg.ID = 7
	pkg.Filename = "20250601_120000_zlatibor.pdf"
	pkg.ApplyFields(PackageFields{
		Title:        strPtr("Zlatibor"),
		Destinations: []string{"Zlatibor", "Mokra Gora"},
	})

	view := pkg.View()
	assert.Equal(t, uint(7), view.ID)
	assert.Equal(t, "20250601_120000_zlatibor.pdf", view.Filename)
	assert.Equal(t, []string{"Zlatibor", "Mokra Gora"}, view.Destinations)
	assert.NotNil(t, view.Prices)
}
