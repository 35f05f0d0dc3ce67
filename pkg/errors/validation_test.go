package errors

import (
	"strings"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "eliza", false},
		{"valid numeric", "12", false},
		{"valid with dash", "king-george", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 129), true},
		{"colon", "1:2", true},
		{"slash", "a/b", true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidID)
			}
		})
	}
}

func TestValidateLineID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"range", "1:3-7", false},
		{"single", "12:4", false},
		{"zero range", "1:0-0", false},

		{"empty", "", true},
		{"no colon", "13-7", true},
		{"theme key", "1:3/3-7", true},
		{"letters", "1:a-b", true},
		{"trailing dash", "1:3-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLineID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLineID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLineKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"range", "1:5/3-7", false},
		{"single", "1:5/5", false},

		{"missing slash", "1:3-7", true},
		{"missing song", ":5/3-7", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLineKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLineKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidLineKey) {
				t.Errorf("ValidateLineKey(%q) code = %v", tt.input, GetCode(err))
			}
		})
	}
}

func TestValidateConversingKey(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"A-B", false},
		{"angelica-eliza", false},
		{"A-B-C", false},
		{"AB", true},
		{"-B", true},
		{"A-", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateConversingKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConversingKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"#fff", false},
		{"#1f77b4", false},
		{"#ABCDEF", false},
		{"fff", true},
		{"#ggg", true},
		{"#12345", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
