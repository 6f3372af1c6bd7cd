package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/seo-optimizer/page-analyzer/nlp"
)

const (
	rakeLimit          = 20
	maxNounPhraseWords = 4
	// MaxKeywords caps the keyword list of a record.
	MaxKeywords = 15
)

// KeywordExtractor derives ranked keyword phrases from the cleaned page
// text produced by CleanText.
type KeywordExtractor interface {
	Extract(text string) []string
}

// PhraseKeywordExtractor combines RAKE phrases with short noun phrases and
// ranks the union by how often each phrase was produced.
type PhraseKeywordExtractor struct {
	nouns  *nlp.NounPhraseExtractor
	logger *zap.Logger
}

// NewKeywordExtractor returns the default extractor. A nil tagger selects
// the bundled part-of-speech model.
func NewKeywordExtractor(tagger nlp.Tagger, logger *zap.Logger) *PhraseKeywordExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PhraseKeywordExtractor{
		nouns:  nlp.NewNounPhraseExtractor(tagger),
		logger: logger,
	}
}

// Extract returns at most MaxKeywords phrases. Failures are logged and
// produce an empty list.
func (k *PhraseKeywordExtractor) Extract(text string) []string {
	keywords, err := k.extract(text)
	if err != nil {
		k.logger.Warn("keyword extraction failed", zap.Error(err))
		return []string{}
	}
	return keywords
}

func (k *PhraseKeywordExtractor) extract(text string) (keywords []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			keywords, err = nil, fmt.Errorf("keyword extraction panicked: %v", r)
		}
	}()

	if text == "" {
		return []string{}, nil
	}

	ranked := nlp.RakeTop(text, rakeLimit)

	nouns, err := k.nouns.Extract(text)
	if err != nil {
		return nil, fmt.Errorf("failed to extract noun phrases: %w", err)
	}
	short := make([]string, 0, len(nouns))
	for _, np := range nouns {
		if len(strings.Fields(np)) < maxNounPhraseWords {
			short = append(short, np)
		}
	}

	return MergeKeywords(ranked, short, MaxKeywords), nil
}

// MergeKeywords concatenates both lists, counts every phrase and returns
// up to limit distinct phrases by descending count. Equal counts keep the
// order in which the phrase first appeared.
func MergeKeywords(ranked, nouns []string, limit int) []string {
	counts := make(map[string]int, len(ranked)+len(nouns))
	order := make([]string, 0, len(ranked)+len(nouns))
	for _, list := range [][]string{ranked, nouns} {
		for _, phrase := range list {
			if counts[phrase] == 0 {
				order = append(order, phrase)
			}
			counts[phrase]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	return order
}
