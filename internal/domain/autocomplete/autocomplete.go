// Package autocomplete computes inline completions for typed URL prefixes.
package autocomplete

import (
	"strings"

	domainurl "github.com/bnema/recall/internal/domain/url"
)

// Completion is an inline suggestion: the typed text plus Suffix spells Text.
type Completion struct {
	Text   string // completed form, without protocol
	Suffix string // what to append after the user's input
	URL    string // entry the completion came from
}

// CompletionSuffix returns the remainder of fullText if input is a case-insensitive prefix of it.
// An exact match has nothing to complete.
func CompletionSuffix(input, fullText string) (string, bool) {
	if input == "" || len(input) >= len(fullText) {
		return "", false
	}
	if !strings.EqualFold(fullText[:len(input)], input) {
		return "", false
	}
	return fullText[len(input):], true
}

// URLCompletion completes input against fullURL, trying the URL as stored, then
// without protocol, then without a leading "www." on the URL side.
func URLCompletion(input, fullURL string) (Completion, bool) {
	if suffix, ok := CompletionSuffix(input, fullURL); ok {
		return Completion{Text: fullURL, Suffix: suffix, URL: fullURL}, true
	}

	stripped := domainurl.StripProtocol(fullURL)
	if suffix, ok := CompletionSuffix(input, stripped); ok {
		return Completion{Text: stripped, Suffix: suffix, URL: fullURL}, true
	}

	if noWWW := domainurl.StripWWW(stripped); noWWW != stripped {
		if suffix, ok := CompletionSuffix(input, noWWW); ok {
			return Completion{Text: noWWW, Suffix: suffix, URL: fullURL}, true
		}
	}
	return Completion{}, false
}

// Complete returns the completion for the first URL that input prefixes.
// Input containing whitespace is a search, not a URL, and never completes.
func Complete(input string, urls []string) (Completion, bool) {
	if input == "" || strings.ContainsAny(input, " \t") {
		return Completion{}, false
	}
	for _, u := range urls {
		if c, ok := URLCompletion(input, u); ok {
			return c, true
		}
	}
	return Completion{}, false
}
