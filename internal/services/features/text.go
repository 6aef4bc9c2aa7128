package features

import "strings"

// SimilarityMinTokenLen is the minimum token length considered meaningful for
// title similarity. Short fillers ("the", "with") carry no signal.
const SimilarityMinTokenLen = 5

// Tokenize splits text into lower-cased word tokens, dropping anything
// shorter than SimilarityMinTokenLen.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= SimilarityMinTokenLen {
			out = append(out, f)
		}
	}
	return out
}

// SharedTokens counts distinct meaningful tokens that appear in both titles.
func SharedTokens(a, b string) int {
	ta := Tokenize(a)
	if len(ta) == 0 {
		return 0
	}
	set := make(map[string]bool, len(ta))
	for _, t := range ta {
		set[t] = true
	}
	n := 0
	for _, t := range Tokenize(b) {
		if set[t] {
			n++
			delete(set, t) // count each shared token once
		}
	}
	return n
}

// ContainsAny reports whether text contains any of the phrases,
// case-insensitive substring match.
func ContainsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
