package chatbot

import (
	"regexp"
	"strings"
)

// nonWordRe matches every character that is neither a word character nor
// whitespace. Unicode classes keep diacritics intact (điểm, gợi ý).
var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// Normalize lowercases text, replaces punctuation with spaces and collapses
// whitespace. Total and idempotent; empty input yields the empty string.
func Normalize(text string) string {
	text = strings.ToLower(text)
	text = nonWordRe.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}
