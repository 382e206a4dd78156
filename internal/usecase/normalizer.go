package usecase

import (
	"regexp"
	"strings"
)

// Matches size/weight tokens like "12 oz", "1.5 l", "128oz", "6 pk"
var sizeTokenRegex = regexp.MustCompile(`\b\d+(?:\.\d+)?\s*(?:oz|lb|kg|g|ml|l|count|ct|pk|pack)\b`)

// qualifierWords are marketing qualifiers stripped as whole words
var qualifierWords = map[string]bool{
	"organic": true,
	"premium": true,
	"fresh":   true,
	"select":  true,
	"choice":  true,
	"natural": true,
}

// Normalize reduces a free-text product name to a canonical core name:
// lowercase, store-brand prefixes removed, size/weight tokens removed,
// qualifier words removed, whitespace collapsed. Pure and total; any
// input (including empty) yields a string, possibly empty.
//
// The strip pipeline runs to a fixpoint: removing a qualifier word can
// expose a size token or brand phrase that was interleaved with it
// ("2 fresh lb" leaves "2 lb" behind), so passes repeat until the name
// stops changing. Each pass only shrinks the name, so this terminates.
func (e *MatchEngine) Normalize(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))

	for {
		next := e.normalizeOnce(name)
		if next == name {
			return name
		}
		name = next
	}
}

// normalizeOnce runs a single pass of the strip pipeline
func (e *MatchEngine) normalizeOnce(name string) string {
	for _, brand := range e.tables.BrandPrefixes {
		name = stripPhrase(name, brand)
	}

	name = sizeTokenRegex.ReplaceAllString(name, " ")

	words := strings.Fields(name)
	kept := words[:0]
	for _, w := range words {
		if !qualifierWords[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// stripPhrase removes whole-word occurrences of phrase from s.
// Both arguments must already be lowercase. Occurrences embedded in a
// larger word (e.g. "select" inside "selection") are left intact.
func stripPhrase(s, phrase string) string {
	if phrase == "" {
		return s
	}

	var b strings.Builder
	for {
		idx := strings.Index(s, phrase)
		if idx < 0 {
			b.WriteString(s)
			return b.String()
		}

		end := idx + len(phrase)
		startsWord := idx == 0 || s[idx-1] == ' '
		endsWord := end == len(s) || s[end] == ' '
		if startsWord && endsWord {
			b.WriteString(s[:idx])
		} else {
			b.WriteString(s[:end])
		}
		s = s[end:]
	}
}
