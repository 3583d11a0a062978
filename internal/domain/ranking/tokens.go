// Package ranking scores history entries against tokenized queries and keeps
// the bounded, deterministically ordered result lists shown while typing.
package ranking

import (
	"slices"
	"strings"

	"github.com/bnema/recall/internal/domain/fuzzy"
)

// Token is one lowercase, whitespace-delimited unit of a query.
type Token struct {
	Text  string
	Runes []rune
}

// NormalizeQuery trims and lowercases raw input.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Tokenize splits a lowercase query on whitespace.
// With several tokens the longest comes first so the most selective one rejects early.
func Tokenize(queryLower string) []Token {
	fields := strings.Fields(queryLower)
	if len(fields) == 0 {
		return nil
	}

	tokens := make([]Token, len(fields))
	for i, f := range fields {
		tokens[i] = Token{Text: f, Runes: fuzzy.Query(f)}
	}
	if len(tokens) > 1 {
		slices.SortStableFunc(tokens, func(a, b Token) int {
			return len(b.Runes) - len(a.Runes)
		})
	}
	return tokens
}
