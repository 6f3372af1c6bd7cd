package nlp

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

//go:embed data/english.txt
var englishStopwords string

// resources holds the process-wide language data used by the keyword
// techniques. It is populated once by Init and read-only afterwards.
type resources struct {
	stopwords map[string]struct{}
	source    string
}

var (
	res   *resources
	resMu sync.RWMutex
)

// Init loads the stopword list used by Rake. An empty path selects the
// embedded English list. Init is idempotent: once resources are present,
// later calls return false without reloading, whatever path they pass.
func Init(path string) (loaded bool, err error) {
	resMu.Lock()
	defer resMu.Unlock()

	if res != nil {
		return false, nil
	}

	var (
		r      io.Reader
		source = "embedded:english"
	)
	if path == "" {
		r = strings.NewReader(englishStopwords)
	} else {
		f, err := os.Open(path)
		if err != nil {
			return false, fmt.Errorf("failed to open stopwords file: %w", err)
		}
		defer f.Close()
		r = f
		source = path
	}

	words, err := readWordList(r)
	if err != nil {
		return false, fmt.Errorf("failed to read stopwords from %s: %w", source, err)
	}

	res = &resources{stopwords: words, source: source}
	return true, nil
}

// Ready reports whether Init has completed.
func Ready() bool {
	resMu.RLock()
	defer resMu.RUnlock()
	return res != nil
}

// Source names where the active stopword list came from.
func Source() string {
	resMu.RLock()
	defer resMu.RUnlock()
	if res == nil {
		return ""
	}
	return res.source
}

// Stopwords returns the active stopword set, initialising the embedded list
// if the process never called Init.
func Stopwords() map[string]struct{} {
	resMu.RLock()
	r := res
	resMu.RUnlock()
	if r != nil {
		return r.stopwords
	}

	// The embedded list cannot fail to parse.
	_, _ = Init("")

	resMu.RLock()
	defer resMu.RUnlock()
	return res.stopwords
}

// IsStopword reports whether the lower-cased word is in the active list.
func IsStopword(word string) bool {
	_, ok := Stopwords()[word]
	return ok
}

func readWordList(r io.Reader) (map[string]struct{}, error) {
	words := make(map[string]struct{}, 200)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		words[w] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// reset drops loaded resources so tests can exercise Init from scratch.
func reset() {
	resMu.Lock()
	res = nil
	resMu.Unlock()
}
