package extract

import (
	"regexp"
	"strings"
)

var (
	// phonePattern matches US-style numbers such as "(801) 555-1234",
	// "801 555-1234" and "801555-1234". The separator may be a
	// non-breaking space, which RE2's \s does not cover.
	phonePattern = regexp.MustCompile(`\(?\d{3}\)?[\s\x{00A0}]?\d{3}-\d{4}`)

	// emailPattern matches local@domain.tld shaped addresses.
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	registrationNumberPattern = labelPattern("Registration #:")
	registrationTypePattern   = labelPattern("Registration Type:")
	statusPattern             = labelPattern("Status:")
	expiresPattern            = labelPattern("Expires:")
)

// registrationLabels are the labels that may follow each other inside the
// registration block without an intervening line break.
var registrationLabels = []string{
	"Registration #:",
	"Registration Type:",
	"Status:",
	"Expires:",
}

// labelPattern builds a pattern capturing the value after label. The value
// may start on the following line, since markup such as
// "Status: <span>Active</span>" puts it in its own text node. It ends at a
// line break, at the next registration label (with any separating commas
// dropped), or at the end of the text.
func labelPattern(label string) *regexp.Regexp {
	quoted := make([]string, 0, len(registrationLabels))
	for _, l := range registrationLabels {
		quoted = append(quoted, regexp.QuoteMeta(l))
	}
	return regexp.MustCompile(regexp.QuoteMeta(label) +
		`\s*([^\n]*?)[ \t,;]*(?:` + strings.Join(quoted, "|") + `|\n|$)`)
}

// matchLabel returns the trimmed value captured by pattern, or "".
func matchLabel(pattern *regexp.Regexp, text string) string {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// FindPhone returns the first phone number in text, or "".
func FindPhone(text string) string {
	return phonePattern.FindString(text)
}

// FindEmail returns the first e-mail address in text, or "".
func FindEmail(text string) string {
	return emailPattern.FindString(text)
}

// RegistrationNumber returns the value after "Registration #:".
func RegistrationNumber(text string) string {
	return matchLabel(registrationNumberPattern, text)
}

// RegistrationType returns the value after "Registration Type:".
func RegistrationType(text string) string {
	return matchLabel(registrationTypePattern, text)
}

// Status returns the value after "Status:".
func Status(text string) string {
	return matchLabel(statusPattern, text)
}

// Expires returns the value after "Expires:".
func Expires(text string) string {
	return matchLabel(expiresPattern, text)
}

// StripLabel removes a leading label from s and trims the remainder.
// s is returned trimmed and otherwise unchanged when the label is absent.
func StripLabel(s, label string) string {
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimPrefix(s, label))
}
