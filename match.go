package kicado

import "strings"

// matchesAny reports whether a line satisfies one of the candidate patterns.
// The empty pattern matches any non-empty line. In prefix mode a line matches
// when it starts with a candidate; otherwise the whole line must be equal.
func matchesAny(line string, patterns []string, prefix bool) bool {
	for _, p := range patterns {
		if p == "" {
			if line != "" {
				return true
			}
			continue
		}
		if prefix {
			if strings.HasPrefix(line, p) {
				return true
			}
		} else if line == p {
			return true
		}
	}
	return false
}

// messageSet is a harvested dialog fingerprint: the set of text fragments a
// modal window rendered.
type messageSet map[string]struct{}

func (m messageSet) has(msg string) bool {
	_, ok := m[msg]
	return ok
}

// hasAll reports whether every needle is present.
func (m messageSet) hasAll(needles ...string) bool {
	for _, n := range needles {
		if !m.has(n) {
			return false
		}
	}
	return true
}

// hasContaining reports whether any harvested message contains the substring.
// Some dialogs wrap their body text across several PANGO fragments, so exact
// membership is not always enough.
func (m messageSet) hasContaining(substr string) bool {
	for msg := range m {
		if strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}
