// Package extract pulls phone numbers and email addresses out of page
// text. It is pure pattern matching: no I/O, deterministic, idempotent.
package extract

import (
	"regexp"
	"sort"
	"strings"
)

// phonePatterns is the ordered set of regional phone shapes. Patterns
// with a capture group match a labelled number ("тел: …", "phone: …")
// and extract only the number part.
var phonePatterns = []*regexp.Regexp{
	// US format with parentheses and separators
	regexp.MustCompile(`\(\d{3}\)\s*\d{3}[\s\-.]*\d{4}`),
	regexp.MustCompile(`\d{3}[\s\-.]*\d{3}[\s\-.]*\d{4}`),
	// International +-prefixed
	regexp.MustCompile(`\+\d{1,3}[\s\-.]*\d{1,4}[\s\-.]*\d{1,4}[\s\-.]*\d{1,4}`),
	// UK
	regexp.MustCompile(`\+44[\s\-.]*\d{1,4}[\s\-.]*\d{1,4}[\s\-.]*\d{1,4}`),
	regexp.MustCompile(`0\d{1,4}[\s\-.]*\d{1,4}[\s\-.]*\d{1,4}`),
	// Toll-free
	regexp.MustCompile(`1[\s\-.]*8(?:00|88|77|66)[\s\-.]*\d{3}[\s\-.]*\d{4}`),
	regexp.MustCompile(`8(?:00|88|77|66)[\s\-.]*\d{3}[\s\-.]*\d{4}`),
	// Plain 10-digit
	regexp.MustCompile(`\d{10}`),
	// Labelled numbers, Cyrillic and English
	regexp.MustCompile(`(?i)(?:тел|телефон)\.?:\s*([+8]?[\d\s\-().]{6,})`),
	regexp.MustCompile(`(?i)(?:phone|contact):\s*([+\d][\d\s\-().]{6,})`),
}

// lenientPhoneRe backs the HasPhone gate: any run of phone-looking
// characters, judged by digit count alone.
var lenientPhoneRe = regexp.MustCompile(`[+]?[\d\s\-().]{7,}`)

var (
	emailRe    = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	nonPhoneRe = regexp.MustCompile(`[^\d+]`)
	digitRe    = regexp.MustCompile(`\d`)
)

const (
	// strictMinDigits gates numbers stored on supplier records.
	strictMinDigits = 10
	// lenientMinDigits gates the has-a-phone inclusion check only; it
	// intentionally stays looser than extraction.
	lenientMinDigits = 7
)

// Phones extracts normalized phone numbers from text. A match survives
// only with at least ten digits; duplicates within one text collapse,
// first occurrence wins. Matches from different patterns that overlap in
// the text resolve to the earliest, longest span, so "+1-555-123-4567"
// never also yields its bare "555-123-4567" tail.
func Phones(text string) []string {
	type span struct {
		start, end int
		raw        string
	}

	var spans []span
	for _, pattern := range phonePatterns {
		for _, idx := range pattern.FindAllStringSubmatchIndex(text, -1) {
			s := span{start: idx[0], end: idx[1], raw: text[idx[0]:idx[1]]}
			if len(idx) > 3 && idx[2] >= 0 {
				s.raw = text[idx[2]:idx[3]]
			}
			spans = append(spans, s)
		}
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	var phones []string
	seen := map[string]struct{}{}
	lastEnd := -1
	for _, s := range spans {
		if s.start < lastEnd {
			continue
		}
		normalized := normalizePhone(s.raw)
		if digitCount(normalized) < strictMinDigits {
			continue
		}
		lastEnd = s.end
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		phones = append(phones, normalized)
	}

	return phones
}

// HasPhone reports whether text contains something phone-shaped with at
// least seven digits. Used only to gate inclusion; the stricter Phones
// output populates the contact field.
func HasPhone(text string) bool {
	for _, match := range lenientPhoneRe.FindAllString(text, -1) {
		if digitCount(normalizePhone(match)) >= lenientMinDigits {
			return true
		}
	}
	return false
}

// Emails extracts email addresses with case preserved, deduplicated in
// order of first occurrence.
func Emails(text string) []string {
	var emails []string
	seen := map[string]struct{}{}
	for _, match := range emailRe.FindAllString(text, -1) {
		if _, ok := seen[match]; ok {
			continue
		}
		seen[match] = struct{}{}
		emails = append(emails, match)
	}
	return emails
}

// ContactLine formats phones and emails into the display string stored
// on supplier records.
func ContactLine(phones, emails []string) string {
	var parts []string
	if len(phones) > 0 {
		parts = append(parts, "Тел: "+strings.Join(phones, ", "))
	}
	if len(emails) > 0 {
		parts = append(parts, "Email: "+strings.Join(emails, ", "))
	}
	return strings.Join(parts, "; ")
}

func normalizePhone(raw string) string {
	return nonPhoneRe.ReplaceAllString(strings.TrimSpace(raw), "")
}

func digitCount(s string) int {
	return len(digitRe.FindAllString(s, -1))
}
