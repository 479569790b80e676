// Package match normalizes AI-suggested food names and scores them against
// reference-database records. Everything here is deterministic and
// side-effect-free so each step is independently testable.
package match

import "strings"

// connectors are the preparation phrases a compound food name is split on,
// in addition to commas. Longer phrases first so "sauteed in" wins over "in".
var connectors = []string{
	"sautéed in",
	"sauteed in",
	"cooked in",
	"fried in",
	"served with",
	"topped with",
	"with",
	"and",
}

// Candidates splits a free-text food name into ordered base-ingredient
// search terms, most specific first. The first segment is the primary
// ingredient; later segments are secondary (cooking fat, garnish).
func Candidates(name string) []string {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return nil
	}

	segments := []string{name}
	for _, sep := range append([]string{","}, connectors...) {
		var next []string
		for _, seg := range segments {
			for _, part := range splitOnWord(seg, sep) {
				if p := strings.TrimSpace(part); p != "" {
					next = append(next, p)
				}
			}
		}
		segments = next
	}

	// drop duplicates, keep first occurrence
	seen := make(map[string]bool, len(segments))
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Primary returns the base ingredient of a compound name: the first
// comma-delimited segment, lower-cased and trimmed.
func Primary(name string) string {
	c := Candidates(name)
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// splitOnWord splits s on sep only at word boundaries, so "grand" is not
// split on "and". A bare "," splits directly.
func splitOnWord(s, sep string) []string {
	if sep == "," {
		return strings.Split(s, ",")
	}

	var parts []string
	rest := s
	for {
		idx := indexWord(rest, sep)
		if idx < 0 {
			parts = append(parts, rest)
			return parts
		}
		parts = append(parts, rest[:idx])
		rest = rest[idx+len(sep):]
	}
}

func indexWord(s, word string) int {
	from := 0
	for {
		idx := strings.Index(s[from:], word)
		if idx < 0 {
			return -1
		}
		idx += from
		before := idx == 0 || s[idx-1] == ' '
		end := idx + len(word)
		after := end == len(s) || s[end] == ' '
		if before && after {
			return idx
		}
		from = idx + 1
		if from >= len(s) {
			return -1
		}
	}
}
