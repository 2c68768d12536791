package catalog

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/actuallystonmai/moodtune-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestExtractAppliesDefaultsForMissingFeatures(t *testing.T) {
	records := []domain.CatalogRecord{
		{ID: "1", Title: strPtr("Sunrise"), Features: map[string]any{"energy": 0.9}},
	}

	ex := Extract(records)
	if len(ex.Songs) != 1 {
		t.Fatalf("expected 1 song, got %d", len(ex.Songs))
	}

	s := ex.Songs[0]
	if s.Energy != 0.9 {
		t.Errorf("expected energy 0.9, got %f", s.Energy)
	}
	if s.Tempo != domain.DefaultTempo || s.Valence != domain.DefaultValence {
		t.Errorf("defaults not applied: %+v", s)
	}
	if s.Artist != "Unknown Artist" || s.Album != "" {
		t.Errorf("display defaults not applied: %+v", s)
	}

	want := []float64{0.5, 120, 0.5, 0.9, 0.5}
	for i, v := range ex.Features[0] {
		if v != want[i] {
			t.Errorf("feature %d: expected %f, got %f", i, want[i], v)
		}
	}
}

func TestExtractSkipsInvalidFeatures(t *testing.T) {
	records := []domain.CatalogRecord{
		{ID: "ok", Features: map[string]any{"tempo": "128.5"}},
		{ID: "null", Features: map[string]any{"tempo": nil}},
		{ID: "text", Features: map[string]any{"valence": "bright"}},
		{ID: "bool", Features: map[string]any{"energy": true}},
		{ID: "nan", Features: map[string]any{"energy": math.NaN()}},
	}

	ex := Extract(records)
	if len(ex.Songs) != 1 || ex.Songs[0].ID != "ok" {
		t.Fatalf("expected only 'ok' to survive, got %+v", ex.Songs)
	}
	if ex.Songs[0].Tempo != 128.5 {
		t.Errorf("expected numeric string to coerce, got %f", ex.Songs[0].Tempo)
	}
	if len(ex.Skipped) != 4 {
		t.Errorf("expected 4 skipped, got %v", ex.Skipped)
	}
	if len(ex.Features) != len(ex.Songs) {
		t.Errorf("features and songs not index aligned")
	}
}

func TestExtractEmpty(t *testing.T) {
	ex := Extract(nil)
	if len(ex.Songs) != 0 || len(ex.Features) != 0 {
		t.Errorf("expected empty extraction, got %+v", ex)
	}
}

func TestCoerce(t *testing.T) {
	if v, ok := Coerce(json.Number("0.25")); !ok || v != 0.25 {
		t.Errorf("json.Number: got %f %v", v, ok)
	}
	if v, ok := Coerce(int64(90)); !ok || v != 90 {
		t.Errorf("int64: got %f %v", v, ok)
	}
	if _, ok := Coerce(math.Inf(1)); ok {
		t.Error("Inf should not coerce")
	}
	if _, ok := Coerce(map[string]any{}); ok {
		t.Error("object should not coerce")
	}
}
