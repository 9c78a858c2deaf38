package anonymize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrubber_Scrub(t *testing.T) {
	s := New()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "nothing to scrub", in: "People forget to drink water.", want: "People forget to drink water."},
		{name: "email", in: "Write to jane.doe+ideas@example.co.uk today", want: "Write to [email] today"},
		{name: "url", in: "See https://example.com/path?q=1 for details", want: "See [url] for details"},
		{name: "www url", in: "Visit www.example.org now", want: "Visit [url] now"},
		{name: "phone", in: "Call +1 555-123-4567 tonight", want: "Call [phone] tonight"},
		{name: "card", in: "Paid with 4111 1111 1111 1111 yesterday", want: "Paid with [number] yesterday"},
		{name: "handle", in: "Ping @janedoe about it", want: "Ping [handle] about it"},
		{name: "multiple", in: "jane@example.com or @jane", want: "[email] or [handle]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Scrub(tt.in))
		})
	}
}

func TestScrubber_ExtraTerms(t *testing.T) {
	s := New("Acme Corp", " ")
	assert.Equal(t, "I work at [redacted] in sales", s.Scrub("I work at acme corp in sales"))
}

func TestScrubber_Idempotent(t *testing.T) {
	s := New()
	once := s.Scrub("mail a@b.io, call 555-123-4567")
	assert.Equal(t, once, s.Scrub(once))
}
