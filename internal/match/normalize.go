package match

import (
	"slices"
	"strings"
	"unicode"
)

// noiseTokens are trailing tokens that say little about what a property holds.
var noiseTokens = []string{"id", "ids", "value", "field", "input"}

// TokenizeIdent splits an identifier into lowercase tokens. Separators
// ('_', '-', '.', ' ' and brackets), lower-to-upper transitions, acronym
// ends and letter-digit transitions all start a new token:
//
//	"OrderID"          -> [order id]
//	"getHTTPResponse"  -> [get http response]
//	"addresses[2]-zip" -> [addresses 2 zip]
func TokenizeIdent(s string) []string {
	var (
		tokens []string
		start  = -1
	)

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			if start >= 0 {
				tokens = append(tokens, strings.ToLower(string(runes[start:i])))
				start = -1
			}

			continue
		}

		if start >= 0 && boundary(runes, i) {
			tokens = append(tokens, strings.ToLower(string(runes[start:i])))
			start = i
		}

		if start < 0 {
			start = i
		}
	}

	if start >= 0 {
		tokens = append(tokens, strings.ToLower(string(runes[start:])))
	}

	return tokens
}

// NormalizeIdent folds an identifier for fuzzy matching: case and
// separators are dropped, so "orderId", "order_id" and "OrderID" agree.
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// NormalizeIdentWithSuffixStrip is NormalizeIdent without a trailing noise
// token such as "id" or "value". A single token is never stripped.
func NormalizeIdentWithSuffixStrip(s string) string {
	tokens := TokenizeIdent(s)
	if len(tokens) > 1 && slices.Contains(noiseTokens, tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}

	return strings.Join(tokens, "")
}

func isSeparator(r rune) bool {
	switch r {
	case '_', '-', '.', ' ', '[', ']':
		return true
	default:
		return false
	}
}

// boundary reports whether a token ends right before runes[i].
func boundary(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]

	switch {
	case unicode.IsDigit(r) != unicode.IsDigit(prev):
		return true
	case unicode.IsUpper(r) && unicode.IsLower(prev):
		return true
	case unicode.IsUpper(r) && unicode.IsUpper(prev):
		// "XMLParser": the acronym ends before the 'P'
		return i+1 < len(runes) && unicode.IsLower(runes[i+1])
	default:
		return false
	}
}
