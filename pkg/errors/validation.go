package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateID validates a table key (character, song, theme id).
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - No separators used by composite keys (":", "/")
//   - Maximum length of 128 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidID, "id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "id contains invalid control characters")
		}
	}

	if strings.ContainsAny(id, ":/") {
		return New(ErrCodeInvalidID, "id %q cannot contain ':' or '/'", id)
	}

	return nil
}

// lineIDRegex matches "song:start" and "song:start-end" line ids.
var lineIDRegex = regexp.MustCompile(`^[^:/\s]+:\d+(-\d+)?$`)

// ValidateLineID validates a line id of the form "song:start-end".
func ValidateLineID(lineID string) error {
	if !lineIDRegex.MatchString(lineID) {
		return New(ErrCodeInvalidLineKey, "invalid line id: %q", lineID)
	}
	return nil
}

// lineKeyRegex matches theme run keys of the form "song:line/start-end".
var lineKeyRegex = regexp.MustCompile(`^[^:/\s]+:\d+/\d+(-\d+)?$`)

// ValidateLineKey validates a theme run key of the form "song:line/start-end".
func ValidateLineKey(key string) error {
	if !lineKeyRegex.MatchString(key) {
		return New(ErrCodeInvalidLineKey, "invalid line key: %q", key)
	}
	return nil
}

// ValidateConversingKey validates an edge key of the form "a-b".
func ValidateConversingKey(key string) error {
	a, b, ok := strings.Cut(key, "-")
	if !ok || a == "" || b == "" {
		return New(ErrCodeInvalidID, "invalid conversing key: %q", key)
	}
	return nil
}

// colorRegex matches #rgb and #rrggbb hex colors.
var colorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateColor validates a hex color string.
func ValidateColor(color string) error {
	if !colorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid color: %q", color)
	}
	return nil
}
