package intent

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopwords are high-frequency low-information words excluded from
// word-level comparison: articles, common pronouns, prepositions and
// a few auxiliaries that speech transcripts are full of.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true,
	"i": true, "i'm": true, "me": true, "my": true, "you": true, "your": true, "it": true,
	"is": true, "are": true, "am": true, "be": true, "do": true, "does": true,
	"to": true, "for": true, "in": true, "on": true, "of": true, "at": true, "with": true,
	"that": true, "this": true, "and": true, "or": true, "please": true,
}

// IsStopword reports whether the word is excluded from word-level matching.
func IsStopword(w string) bool {
	return stopwords[strings.ToLower(w)]
}

// normalize lowercases and trims an utterance.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// isWordChar reports whether r is part of a word. Apostrophes count so
// contractions like "i'm" stay one token.
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\''
}

// tokenize splits a normalized string into word tokens.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return !isWordChar(r) })
}

// joinTokens rebuilds a phrase fragment from tokens.
func joinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}

// meaningfulTokens filters stopwords out of a token list, order preserved.
func meaningfulTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !stopwords[t] {
			out = append(out, t)
		}
	}
	return out
}

// meaningfulSet filters stopwords out of a token list into a lookup set.
func meaningfulSet(tokens []string) map[string]bool {
	out := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if !stopwords[t] {
			out[t] = true
		}
	}
	return out
}

// hasBoundedPrefix reports whether s starts with sub ending on a word
// edge, so "remember" is a bounded prefix of "remember that" but not of
// "remembered".
func hasBoundedPrefix(s, sub string) bool {
	if sub == "" || !strings.HasPrefix(s, sub) {
		return false
	}
	if len(s) == len(sub) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[len(sub):])
	return !isWordChar(r)
}

// containsBounded reports whether sub occurs in s bounded by word edges
// on both sides.
func containsBounded(s, sub string) bool {
	if sub == "" {
		return false
	}
	for i := 0; i+len(sub) <= len(s); {
		j := strings.Index(s[i:], sub)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(sub)

		beforeOK := start == 0
		if !beforeOK {
			r, _ := utf8.DecodeLastRuneInString(s[:start])
			beforeOK = !isWordChar(r)
		}
		afterOK := end == len(s)
		if !afterOK {
			r, _ := utf8.DecodeRuneInString(s[end:])
			afterOK = !isWordChar(r)
		}
		if beforeOK && afterOK {
			return true
		}
		i = start + 1
	}
	return false
}
