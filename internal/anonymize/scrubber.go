// Package anonymize removes contact and identity data from free text.
package anonymize

import (
	"regexp"
	"strings"

	"github.com/fastygo/ideaflow/usecase"
)

// Placeholders written in place of matched data.
const (
	EmailPlaceholder  = "[email]"
	URLPlaceholder    = "[url]"
	PhonePlaceholder  = "[phone]"
	HandlePlaceholder = "[handle]"
	CardPlaceholder   = "[number]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Order matters: emails before handles, URLs before phones.
var defaultRules = []rule{
	{regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`), EmailPlaceholder},
	{regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"']+`), URLPlaceholder},
	{regexp.MustCompile(`\b\d(?:[ -]?\d){12,18}\b`), CardPlaceholder},
	{regexp.MustCompile(`(?:\+\d{1,3}[\s.\-]?)?(?:\(\d{2,4}\)[\s.\-]?)?\d{3,4}[\s.\-]\d{2,4}(?:[\s.\-]\d{2,4})?\b`), PhonePlaceholder},
	{regexp.MustCompile(`(?:^|\s)@[A-Za-z0-9_]{2,30}\b`), " " + HandlePlaceholder},
}

// Scrubber replaces personal data with fixed placeholders.
type Scrubber struct {
	rules []rule
}

// New returns a Scrubber with the default rules plus one rule per extra term,
// matched case-insensitively as a whole word.
func New(extraTerms ...string) *Scrubber {
	rules := append([]rule(nil), defaultRules...)
	for _, term := range extraTerms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		rules = append(rules, rule{
			pattern:     regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`),
			replacement: "[redacted]",
		})
	}
	return &Scrubber{rules: rules}
}

func (s *Scrubber) Scrub(text string) string {
	if text == "" {
		return text
	}
	for _, r := range s.rules {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}
	return strings.TrimSpace(text)
}

var _ usecase.Anonymizer = (*Scrubber)(nil)
