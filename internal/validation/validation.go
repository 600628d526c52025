package validation

import (
	"errors"
	"strings"
	"unicode"
)

// MaxLocationCodeLength bounds the location code; the gadget's own codes are
// eight characters (CAXX0343, USNY0996).
const MaxLocationCodeLength = 32

// ErrLocationCodeEmpty is returned when the code is empty or whitespace-only after trim.
var ErrLocationCodeEmpty = errors.New("location code is required")

// ErrLocationCodeTooLong is returned when the code exceeds MaxLocationCodeLength.
var ErrLocationCodeTooLong = errors.New("location code too long")

// ErrLocationCodeInvalidChars is returned when the code contains disallowed characters.
var ErrLocationCodeInvalidChars = errors.New("location code contains invalid characters")

// ValidateLocationCode trims the input and restricts it to ASCII letters,
// digits, hyphen and underscore. The code ends up inside a file name and the
// weatherlocationcode attribute, so separators and dots are rejected.
// Returns the trimmed code.
func ValidateLocationCode(input string) (string, error) {
	s := strings.TrimSpace(input)
	n := len(s)
	if n == 0 {
		return "", ErrLocationCodeEmpty
	}
	if n > MaxLocationCodeLength {
		return "", ErrLocationCodeTooLong
	}
	for _, c := range s {
		if !isAllowedCodeRune(c) {
			return "", ErrLocationCodeInvalidChars
		}
	}
	return s, nil
}

func isAllowedCodeRune(r rune) bool {
	if r > unicode.MaxASCII {
		return false
	}
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	return r == '-' || r == '_'
}
