package entities

import (
	"testing"
)

func TestConfigurationSnapshot_Flatten(t *testing.T) {
	snapshot := NewConfigurationSnapshot(map[string]any{
		"basin_count":  2,
		"has_pegboard": true,
		"finish":       "chrome",
		"pegboard": map[string]any{
			"isCustom": false,
			"width":    1.2,
			"height":   0.8,
		},
		"shelves": []any{"upper", "lower"},
	})

	flat := snapshot.Flatten()

	if got := flat["basin_count"]; got != 2 {
		t.Errorf("Expected basin_count 2, got %v", got)
	}
	if got := flat["pegboard.isCustom"]; got != false {
		t.Errorf("Expected pegboard.isCustom false, got %v", got)
	}
	if got := flat["shelves.count"]; got != float64(2) {
		t.Errorf("Expected shelves.count 2, got %v", got)
	}

	area, ok := flat["pegboard.area"].(float64)
	if !ok {
		t.Fatalf("Expected derived pegboard.area, got %v", flat["pegboard.area"])
	}
	if area < 0.959 || area > 0.961 {
		t.Errorf("Expected pegboard.area ~0.96, got %v", area)
	}

	// The nested map itself must not leak into the binding.
	if _, ok := flat["pegboard"]; ok {
		t.Error("Expected nested map to flatten away, found raw pegboard key")
	}
}

func TestConfigurationSnapshot_FlattenSkipsAreaWithoutDimensions(t *testing.T) {
	snapshot := NewConfigurationSnapshot(map[string]any{
		"cabinet": map[string]any{"width": 1.0, "color": "grey"},
	})

	flat := snapshot.Flatten()
	if _, ok := flat["cabinet.area"]; ok {
		t.Error("Expected no derived area without both width and height")
	}
	if got := flat["cabinet.color"]; got != "grey" {
		t.Errorf("Expected cabinet.color grey, got %v", got)
	}
}

func TestConfigurationSnapshot_IsImmutable(t *testing.T) {
	source := map[string]any{"basin_count": 2}
	snapshot := NewConfigurationSnapshot(source)

	// Mutating the source after capture must not affect the snapshot.
	source["basin_count"] = 99
	if got := snapshot.Values()["basin_count"]; got != 2 {
		t.Errorf("Expected snapshot to keep basin_count 2, got %v", got)
	}

	// Mutating a returned copy must not affect the snapshot either.
	values := snapshot.Values()
	values["basin_count"] = 7
	if got := snapshot.Values()["basin_count"]; got != 2 {
		t.Errorf("Expected snapshot to keep basin_count 2 after copy mutation, got %v", got)
	}
}

func TestParseConfigurationSnapshot(t *testing.T) {
	snapshot, err := ParseConfigurationSnapshot([]byte(`{"basin_count": 2, "has_pegboard": false}`))
	if err != nil {
		t.Fatalf("Expected valid JSON to parse: %v", err)
	}
	if got := snapshot.Flatten()["has_pegboard"]; got != false {
		t.Errorf("Expected has_pegboard false, got %v", got)
	}

	if _, err := ParseConfigurationSnapshot([]byte(`{not json`)); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}
