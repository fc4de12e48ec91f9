package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/hoaregistry/internal/dom"
	"github.com/nao1215/hoaregistry/internal/model"
)

// Contact extracts a ContactInfo from one contact block element.
func Contact(sel *goquery.Selection) model.ContactInfo {
	return ContactFromLines(dom.Lines(sel))
}

// ContactFromText extracts a ContactInfo from plain text, treating each
// line break as a line boundary.
func ContactFromText(text string) model.ContactInfo {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return ContactFromLines(lines)
}

// ContactFromLines extracts a ContactInfo from trimmed, non-empty lines.
//
// The first line is the name. Phone and e-mail are the first matches
// anywhere in the block. The address is every later line that contains
// neither a phone number nor an "@" and differs from the name.
func ContactFromLines(lines []string) model.ContactInfo {
	var contact model.ContactInfo
	if len(lines) == 0 {
		return contact
	}

	text := strings.Join(lines, "\n")
	contact.Name = lines[0]
	contact.Phone = FindPhone(text)
	contact.Email = FindEmail(text)

	address := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if phonePattern.MatchString(line) || strings.Contains(line, "@") || line == contact.Name {
			continue
		}
		address = append(address, line)
	}
	contact.Address = strings.Join(address, ", ")
	return contact
}
