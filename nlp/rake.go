package nlp

import (
	"sort"
	"strings"
)

// Phrase is a candidate keyword phrase with its RAKE score.
type Phrase struct {
	Text  string
	Score float64
}

// Rake ranks candidate phrases with the Rapid Automatic Keyword Extraction
// technique. Candidates are maximal runs of lower-cased tokens containing no
// stopword and no single punctuation character. Each word scores degree/frequency, where
// degree sums the lengths of the candidates the word occurs in, and a
// phrase scores the sum of its words.
//
// Repeated candidates are kept, so a phrase that occurs three times is
// ranked three times. The result is ordered by score, then by phrase text,
// both descending.
func Rake(text string) []Phrase {
	candidates := candidatePhrases(text)
	if len(candidates) == 0 {
		return nil
	}

	frequency := make(map[string]int)
	degree := make(map[string]int)
	for _, words := range candidates {
		for _, w := range words {
			frequency[w]++
			degree[w] += len(words)
		}
	}

	ranked := make([]Phrase, 0, len(candidates))
	for _, words := range candidates {
		score := 0.0
		for _, w := range words {
			score += float64(degree[w]) / float64(frequency[w])
		}
		ranked = append(ranked, Phrase{Text: strings.Join(words, " "), Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Text > ranked[j].Text
	})
	return ranked
}

// RakeTop returns the text of the first limit phrases ranked by Rake.
func RakeTop(text string, limit int) []string {
	ranked := Rake(text)
	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]string, len(ranked))
	for i, p := range ranked {
		out[i] = p.Text
	}
	return out
}

func candidatePhrases(text string) [][]string {
	stop := Stopwords()

	var (
		phrases [][]string
		current []string
	)
	flush := func() {
		if len(current) > 0 {
			phrases = append(phrases, current)
			current = nil
		}
	}

	for _, tok := range WordPunctTokens(text) {
		word := strings.ToLower(tok)
		if _, isStop := stop[word]; isStop || IsPunctuation(word) {
			flush()
			continue
		}
		current = append(current, word)
	}
	flush()

	return phrases
}
