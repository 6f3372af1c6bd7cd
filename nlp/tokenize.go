// Package nlp holds the language helpers behind keyword extraction: the
// stopword resources, a word/punctuation tokenizer, the RAKE phrase ranker
// and a noun-phrase chunker.
package nlp

import (
	"regexp"
	"strings"
)

// asciiPunctuation is the set of single-character tokens that delimit
// phrases.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// wordPunct splits text into runs of word characters and runs of
// punctuation, dropping whitespace.
var wordPunct = regexp.MustCompile(`[\p{L}\p{N}\p{M}_]+|[^\p{L}\p{N}\p{M}_\s]+`)

// WordPunctTokens tokenizes text into alternating word and punctuation runs.
// "don't stop." becomes ["don", "'", "t", "stop", "."].
func WordPunctTokens(text string) []string {
	return wordPunct.FindAllString(text, -1)
}

// IsPunctuation reports whether token is a single ASCII punctuation
// character. Longer runs such as "--" or "..." are treated as words.
func IsPunctuation(token string) bool {
	return len(token) == 1 && strings.Contains(asciiPunctuation, token)
}
