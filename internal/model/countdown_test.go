package model

import "testing"

func TestValidType(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"Birthday", true},
		{"Anniversary", true},
		{"Event", true},
		{"Holiday", true},
		{"Launch", true},
		{"Custom", true},
		// Matching is exact.
		{"birthday", false},
		{" Birthday", false},
		{"Wedding", false},
		{"", false},
	}

	for _, tt := range tests {
		got := ValidType(tt.value)
		if got != tt.expected {
			t.Errorf("ValidType(%q) = %v, want %v", tt.value, got, tt.expected)
		}
	}
}

func TestTypesAreUnique(t *testing.T) {
	seen := make(map[CountdownType]bool)
	for _, ct := range Types {
		if seen[ct] {
			t.Errorf("duplicate countdown type %q", ct)
		}
		seen[ct] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected 6 countdown types, got %d", len(seen))
	}
}
