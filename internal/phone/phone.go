package phone

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalid = errors.New("telephone must be a valid Senegalese mobile number")

	// Senegalese mobile numbers: optional 00221 country prefix, then 7 and an
	// operator digit (70/75/76/77/78), then seven more digits.
	mobilePattern = regexp.MustCompile(`^(00221)?7[05678][0-9]{7}$`)
	digitsOnly    = regexp.MustCompile(`^[0-9]+$`)
)

// clean applies the canonical rewrites shared by every entry point:
// a bare local number gets the 00221 prefix, a leading "+" becomes "00",
// and any remaining "+" or spaces are stripped.
func clean(raw string) string {
	s := raw
	if strings.HasPrefix(s, "7") {
		s = "00221" + s
	}
	if strings.HasPrefix(s, "+") {
		s = "00" + s[1:]
	}
	s = strings.ReplaceAll(s, "+", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// Normalize converts a raw telephone into its canonical form, rejecting
// anything that does not match the Senegalese mobile pattern. Canonical input
// passes through unchanged.
func Normalize(raw string) (string, error) {
	s := clean(raw)
	if !mobilePattern.MatchString(s) {
		return "", ErrInvalid
	}
	return s, nil
}

// NormalizeLenient applies the same rewrites but only checks that the result
// is digits and at least nine characters long. Login uses this looser check;
// registration and the reset flows use the strict Normalize. The mismatch is
// inherited behavior, kept on purpose (see DESIGN.md).
func NormalizeLenient(raw string) (string, error) {
	s := clean(raw)
	if !digitsOnly.MatchString(s) || len(s) < 9 {
		return "", ErrInvalid
	}
	return s, nil
}
