package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLegacyGarment_States(t *testing.T) {
	tests := []struct {
		name     string
		state    string
		expected string
	}{
		{name: "Late becomes Checked Out", state: "Late", expected: StateCheckedOut},
		{name: "In Care / Repair becomes In Care", state: "In Care / Repair", expected: StateInCare},
		{name: "Current states pass through", state: StateReserved, expected: StateReserved},
		{name: "Blank defaults to Available", state: "", expected: StateAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Garment{ID: "g1", Attributes: Attributes{State: tt.state}}
			got := NormalizeLegacyGarment(g)
			assert.Equal(t, tt.expected, got.Attributes.State)
			assert.Equal(t, tt.expected, got.State)
		})
	}
}

func TestNormalizeLegacyGarment_Tier(t *testing.T) {
	g := Garment{
		ID:         "g1",
		Attributes: Attributes{Tier: StringList{"High-Risk", "Gold"}},
	}
	got := NormalizeLegacyGarment(g)
	assert.Equal(t, StringList{"High Risk", "Gold"}, got.Attributes.Tier)

	// Input is untouched
	assert.Equal(t, StringList{"High-Risk", "Gold"}, g.Attributes.Tier)
}

func TestNormalizeLegacyGarment_Tones(t *testing.T) {
	t.Run("Extra tones promoted to colorTones", func(t *testing.T) {
		g := Garment{
			ID: "g1",
			Attributes: Attributes{
				Extra: map[string]StringList{
					"tones":  {"Jewel", "Earth"},
					"lining": {"Silk"},
				},
			},
		}
		got := NormalizeLegacyGarment(g)
		assert.Equal(t, StringList{"Jewel", "Earth"}, got.Attributes.ColorTones)
		assert.NotContains(t, got.Attributes.Extra, "tones")
		assert.Equal(t, StringList{"Silk"}, got.Attributes.Extra["lining"])
	})

	t.Run("Existing colorTones win over extra tones", func(t *testing.T) {
		g := Garment{
			ID: "g1",
			Attributes: Attributes{
				ColorTones: StringList{"Pastel"},
				Extra:      map[string]StringList{"tones": {"Jewel"}},
			},
		}
		got := NormalizeLegacyGarment(g)
		assert.Equal(t, StringList{"Pastel"}, got.Attributes.ColorTones)
		assert.Contains(t, got.Attributes.Extra, "tones")
	})

	t.Run("Extra map emptied out becomes nil", func(t *testing.T) {
		g := Garment{
			ID: "g1",
			Attributes: Attributes{
				Extra: map[string]StringList{"tones": {"Jewel"}},
			},
		}
		got := NormalizeLegacyGarment(g)
		assert.Nil(t, got.Attributes.Extra)
	})
}

func TestNormalizeLegacyGarment_DropsClosetClassification(t *testing.T) {
	g := Garment{
		ID: "g1",
		Attributes: Attributes{
			Extra: map[string]StringList{
				"closetClassification": {"Front"},
				"lining":               {"Silk"},
			},
		},
	}
	got := NormalizeLegacyGarment(g)
	assert.NotContains(t, got.Attributes.Extra, "closetClassification")
	assert.Contains(t, got.Attributes.Extra, "lining")
}

func TestNormalizeLegacyGarment_RecomputesCompletion(t *testing.T) {
	// A stale stored status is corrected on read
	g := Garment{
		ID:               "g1",
		Name:             "Midnight coat",
		Photos:           PhotoList{{ID: "p1", Src: "/api/v1/uploads/a.jpg"}},
		CompletionStatus: StatusDraft,
	}
	got := NormalizeLegacyGarment(g)
	assert.Equal(t, StatusComplete, got.CompletionStatus)
}
