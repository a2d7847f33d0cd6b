package models

import (
	"strings"
	"testing"
)

func TestNewItemName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"single character", "a", false},
		{"normal name", "Widget", false},
		{"255 characters", strings.Repeat("x", 255), false},
		{"255 multibyte characters", strings.Repeat("é", 255), false},
		{"empty", "", true},
		{"256 characters", strings.Repeat("x", 256), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewItemName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewItemName error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && n.String() != tt.input {
				t.Fatalf("expected %q, got %q", tt.input, n.String())
			}
		})
	}
}
