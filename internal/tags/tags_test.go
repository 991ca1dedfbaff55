package tags

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		text     string
		expected []string
	}{
		{"ABC-123", []string{"ABC-123"}},
		{"ABC-123, XYZ-999", []string{"ABC-123", "XYZ-999"}},
		{"not-a-tag, DEF-1", []string{"DEF-1"}},
		{"", nil},
		{"// SMR-1010", []string{"SMR-1010"}},
		{"//SMR-1010", []string{"SMR-1010"}},
		{"#ABC-1", []string{"ABC-1"}},
		{"--ABC-1", []string{"ABC-1"}},
		{"fix the units // ABC-12, ABC-12", []string{"ABC-12", "ABC-12"}},
		{"abc-123", nil},
		{"ABC-123.", nil},
		{"ABC-", nil},
		{"units: feet", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			result := Extract(tt.text)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Extract(%q) = %v, expected %v", tt.text, result, tt.expected)
			}
		})
	}
}

func TestFirst(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"feature/ABC-4567-login", "ABC-4567"},
		{"ABC-1234-feature", "ABC-1234"},
		{"main", ""},
		{"bugfix/no-ticket-here", ""},
		{"HMR-1/then-SMR-2", "HMR-1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := First(tt.input); got != tt.expected {
				t.Errorf("First(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsTag(t *testing.T) {
	valid := []string{"A-1", "ABC-123", "LONGPROJECT-999999"}
	invalid := []string{"", "abc-123", "ABC123", "ABC-", "-123", "ABC-123x", "xABC-123"}

	for _, s := range valid {
		if !IsTag(s) {
			t.Errorf("IsTag(%q) = false, expected true", s)
		}
	}
	for _, s := range invalid {
		if IsTag(s) {
			t.Errorf("IsTag(%q) = true, expected false", s)
		}
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		token    string
		expected string
	}{
		{"//ABC-123", "ABC-123"},
		{"#ABC-123", "ABC-123"},
		{"--ABC-123", "ABC-123"},
		{"ABC-123", "ABC-123"},
		{"not-a-tag", "not-a-tag"},
		{"//", ""},
	}

	for _, tt := range tests {
		if got := Clean(tt.token); got != tt.expected {
			t.Errorf("Clean(%q) = %q, expected %q", tt.token, got, tt.expected)
		}
	}
}
