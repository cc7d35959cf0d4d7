// Package faq answers one-shot clinic questions by token-overlap scoring
// against a fixed catalog of question/answer pairs.
package faq

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrEmptyCatalog is returned when the catalog holds no entries. An empty
// catalog must fail at startup, never at query time.
var ErrEmptyCatalog = errors.New("faq: catalog is empty")

// Entry is one catalog question/answer pair.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FallbackPolicy decides what a zero-score query returns.
type FallbackPolicy int

const (
	// FallbackFirstEntry answers with the first catalog entry when nothing
	// overlaps, so the matcher always says something.
	FallbackFirstEntry FallbackPolicy = iota
	// FallbackNone reports no match instead.
	FallbackNone
)

// stopWords are dropped from both sides before scoring.
var stopWords = map[string]struct{}{
	"what": {}, "is": {}, "are": {}, "do": {}, "you": {}, "your": {},
	"the": {}, "a": {}, "an": {}, "i": {}, "we": {}, "my": {}, "of": {},
	"for": {}, "to": {}, "please": {}, "can": {}, "tell": {},
}

// Match is the result of one lookup.
type Match struct {
	Entry Entry
	Score int
}

// Matcher scores queries against the catalog. It holds no learned state; a
// lookup is a pure function of the query and the catalog.
type Matcher struct {
	entries  []Entry
	fallback FallbackPolicy
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithFallbackPolicy overrides the zero-score behavior.
func WithFallbackPolicy(p FallbackPolicy) Option {
	return func(m *Matcher) { m.fallback = p }
}

// NewMatcher builds a matcher over the catalog entries. An empty catalog is
// rejected here so the fallback path can never index past the list.
func NewMatcher(entries []Entry, opts ...Option) (*Matcher, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	m := &Matcher{entries: entries, fallback: FallbackFirstEntry}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// LoadCatalog reads the FAQ catalog from a JSON file.
func LoadCatalog(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("faq: read catalog: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("faq: decode catalog: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	return entries, nil
}

// Answer returns the best-matching entry for the question. The score is the
// size of the intersection of the stop-word-stripped token sets; ties keep
// the earliest catalog entry. ok is false only under FallbackNone with a
// zero best score.
func (m *Matcher) Answer(question string) (Match, bool) {
	queryTokens := tokenize(question)

	best := Match{Entry: m.entries[0]}
	for _, entry := range m.entries {
		score := overlap(queryTokens, tokenize(entry.Question))
		if score > best.Score {
			best = Match{Entry: entry, Score: score}
		}
	}

	if best.Score == 0 && m.fallback == FallbackNone {
		return Match{}, false
	}
	return best, true
}

// tokenize lower-cases, strips punctuation, splits on whitespace, and drops
// stop words.
func tokenize(text string) map[string]struct{} {
	// Punctuation is deleted, not spaced, so "what's" becomes "whats".
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '\t', r == '\n':
			b.WriteRune(r)
		}
	}

	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(b.String()) {
		if _, stop := stopWords[word]; stop {
			continue
		}
		tokens[word] = struct{}{}
	}
	return tokens
}

func overlap(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	for token := range a {
		if _, ok := b[token]; ok {
			count++
		}
	}
	return count
}
