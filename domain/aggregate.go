package domain

import (
	"strings"
	"time"
)

// Meta carries the persistence bookkeeping shared by every aggregate.
// Version is the optimistic-concurrency token checked by repositories on write.
type Meta struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch bumps the timestamps. Version is advanced by the repository that persists the change.
func (m *Meta) Touch() {
	if m == nil {
		return
	}
	m.UpdatedAt = time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = m.UpdatedAt
	}
}

func validateID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return Invalidf(field, "must not be empty")
	}
	if len(id) > 64 {
		return Invalidf(field, "must be at most 64 characters")
	}
	return nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
