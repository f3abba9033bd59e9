package profile

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// phoneLen is the digit count of a valid phone number.
const phoneLen = 10

// ValidName reports whether s is letters and whitespace only and not blank.
func ValidName(s string) bool {
	return nameRe.MatchString(s) && strings.TrimSpace(s) != ""
}

// ValidEmail reports whether s has the local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// PhoneDigits strips everything but ASCII digits from s.
func PhoneDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhone reports whether s contains exactly ten digits.
func ValidPhone(s string) bool {
	return len(PhoneDigits(s)) == phoneLen
}

// FormatPhone renders the digits of s through the (999) 999-9999 mask.
// Partial input fills the mask as far as it goes; extra digits are dropped.
func FormatPhone(s string) string {
	d := PhoneDigits(s)
	if len(d) > phoneLen {
		d = d[:phoneLen]
	}

	switch {
	case d == "":
		return ""
	case len(d) <= 3:
		return "(" + d
	case len(d) <= 6:
		return "(" + d[:3] + ") " + d[3:]
	default:
		return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
	}
}

// Initials returns the upper-cased first letters of the first and last
// name, or "NA" when neither is set.
func Initials(p Profile) string {
	var b strings.Builder
	for _, s := range []string{p.FirstName, p.LastName} {
		s = strings.TrimSpace(s)
		for _, r := range s {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	if b.Len() == 0 {
		return "NA"
	}
	return b.String()
}

// DisplayName joins first and last name.
func (p Profile) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}
