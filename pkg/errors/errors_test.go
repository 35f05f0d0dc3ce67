package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeMissingReference, cause, "resolve character")

	if err.Code != ErrCodeMissingReference {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMissingReference)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeMissingReference,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeMissingReference, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeMissingReference,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidLineKey, "test"),
			expected: ErrCodeInvalidLineKey,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDiagnostics(t *testing.T) {
	var ds Diagnostics
	ds.Add("lines", KindMissingCharacter, "1:0-0", "Z", "")
	ds.Add("network", KindMissingEndpoint, "A-Z", "Z", "target")
	ds.Add("lines", KindMissingCharacter, "1:2-2", "Y", "")

	if got := ds.Count(KindMissingCharacter); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}

	want := "missing_character=2 missing_endpoint=1"
	if got := ds.Summary(); got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}

	var other Diagnostics
	other.Merge(ds)
	if len(other) != 3 {
		t.Errorf("Merge() len = %d, want 3", len(other))
	}

	if got := ds[1].String(); got != "network: missing_endpoint A-Z -> Z (target)" {
		t.Errorf("String() = %q", got)
	}
}

func TestDiagnosticErr(t *testing.T) {
	tests := []struct {
		kind Kind
		code Code
	}{
		{KindMissingCharacter, ErrCodeMissingReference},
		{KindMissingAnchor, ErrCodeMissingReference},
		{KindMalformedKey, ErrCodeInvalidLineKey},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			d := Diagnostic{Stage: "motif", Kind: tt.kind, ID: "x", Ref: "y"}
			if got := GetCode(d.Err()); got != tt.code {
				t.Errorf("Err() code = %v, want %v", got, tt.code)
			}
		})
	}
}

func TestDiagnosticsEmptySummary(t *testing.T) {
	var ds Diagnostics
	if ds.Summary() != "" {
		t.Error("Summary() of empty diagnostics should be empty")
	}
}
