package nlp

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// TaggedToken is a token with its Penn Treebank part-of-speech tag.
type TaggedToken struct {
	Text string
	Tag  string
}

// Tagger assigns part-of-speech tags to the tokens of a text.
type Tagger interface {
	Tag(text string) ([]TaggedToken, error)
}

// ProseTagger tags text with the averaged perceptron model bundled in prose.
type ProseTagger struct{}

// Tag tokenizes, segments and tags text. Named-entity extraction is skipped.
func (ProseTagger) Tag(text string) (tokens []TaggedToken, err error) {
	defer func() {
		if r := recover(); r != nil {
			tokens, err = nil, fmt.Errorf("pos tagger panicked: %v", r)
		}
	}()

	doc, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("failed to tag text: %w", err)
	}

	for _, tok := range doc.Tokens() {
		tokens = append(tokens, TaggedToken{Text: tok.Text, Tag: tok.Tag})
	}
	return tokens, nil
}

// chunkRules merges two adjacent tags into one. NNI marks an intermediate
// noun group built from common nouns and adjectives.
var chunkRules = map[[2]string]string{
	{"NNP", "NNP"}: "NNP",
	{"NN", "NN"}:   "NNI",
	{"NNI", "NN"}:  "NNI",
	{"JJ", "JJ"}:   "JJ",
	{"JJ", "NN"}:   "NNI",
}

// NounPhraseExtractor chunks tagged tokens into noun phrases.
type NounPhraseExtractor struct {
	tagger Tagger
}

// NewNounPhraseExtractor returns an extractor over the given tagger, or over
// ProseTagger when tagger is nil.
func NewNounPhraseExtractor(tagger Tagger) *NounPhraseExtractor {
	if tagger == nil {
		tagger = ProseTagger{}
	}
	return &NounPhraseExtractor{tagger: tagger}
}

// Extract returns the noun phrases of text in document order, lower-cased.
// Adjacent tokens are merged left to right by chunkRules until no rule
// applies; the surviving proper-noun and noun-group chunks are the phrases.
// Single-character results are dropped.
func (e *NounPhraseExtractor) Extract(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	tagged, err := e.tagger.Tag(text)
	if err != nil {
		return nil, err
	}

	chunks := make([]TaggedToken, len(tagged))
	for i, t := range tagged {
		chunks[i] = TaggedToken{Text: t.Text, Tag: normalizeTag(t.Tag)}
	}

	for x := 0; x < len(chunks)-1; {
		merged, ok := chunkRules[[2]string{chunks[x].Tag, chunks[x+1].Tag}]
		if !ok {
			x++
			continue
		}
		chunks[x] = TaggedToken{Text: chunks[x].Text + " " + chunks[x+1].Text, Tag: merged}
		chunks = append(chunks[:x+1], chunks[x+2:]...)
		// The new chunk may now combine with its left neighbour.
		if x > 0 {
			x--
		}
	}

	var phrases []string
	for _, c := range chunks {
		if c.Tag != "NNP" && c.Tag != "NNI" {
			continue
		}
		p := strings.ToLower(strings.TrimSpace(c.Text))
		if len([]rune(p)) > 1 {
			phrases = append(phrases, p)
		}
	}
	return phrases, nil
}

// normalizeTag folds plural and title-case variants onto their base tag:
// NNPS becomes NNP, NNS becomes NN and JJS becomes JJ.
func normalizeTag(tag string) string {
	switch {
	case tag == "NP" || tag == "NP-TL":
		return "NNP"
	case strings.HasSuffix(tag, "-TL"):
		return strings.TrimSuffix(tag, "-TL")
	case strings.HasSuffix(tag, "S"):
		return strings.TrimSuffix(tag, "S")
	}
	return tag
}
