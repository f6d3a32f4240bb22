package validate

import (
	"strings"
	"testing"
)

func TestKey(t *testing.T) {
	cases := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"plain alphanumeric", "order42", false},
		{"with whitespace", "order 42", false},
		{"empty", "", true},
		{"contains open bracket", "order[42]", true},
		{"contains close bracket", "order]", true},
		{"contains slash", "order/42", true},
		{"non-ascii", "commandeé", true},
		{"control character", "order\x01", true},
		{"too long", strings.Repeat("k", 129), true},
		{"exactly at limit", strings.Repeat("k", 128), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Key(tc.key)
			if (err != nil) != tc.wantErr {
				t.Errorf("Key(%q) error = %v, wantErr %v", tc.key, err, tc.wantErr)
			}
		})
	}
}

func TestValue(t *testing.T) {
	cases := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"plain text", "hello world", false},
		{"empty", "", true},
		{"brackets are rejected in values too", "[note]", true},
		{"non-ascii", "café", true},
		{"too long", strings.Repeat("v", 2049), true},
		{"exactly at limit", strings.Repeat("v", 2048), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Value(tc.value)
			if (err != nil) != tc.wantErr {
				t.Errorf("Value(%q) error = %v, wantErr %v", tc.value, err, tc.wantErr)
			}
		})
	}
}
