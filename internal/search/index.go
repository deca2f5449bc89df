// Package search provides keyword lookup over wiki entries. A single
// Aho-Corasick automaton built from every indexed keyword serves all
// queries; stopwords never enter the index.
package search

import (
	"sort"
	"strings"
	"unicode"

	"github.com/coregx/ahocorasick"
	"github.com/orsinium-labs/stopwords"

	"github.com/mimirlabs/mimir/internal/models"
)

var englishStopwords = stopwords.MustGet("en")

// Canonicalize folds text to a normalized matching form: lowercase, letters
// and digits kept, every other rune collapsed to a single space. The same
// function normalizes both indexed keywords and incoming queries, which is
// what keeps automaton matching consistent.
func Canonicalize(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	lastWasSpace := true
	for _, r := range s {
		r = unicode.ToLower(r)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out.WriteRune(r)
			lastWasSpace = false
			continue
		}
		if !lastWasSpace {
			out.WriteRune(' ')
			lastWasSpace = true
		}
	}

	return strings.TrimRight(out.String(), " ")
}

// Tokenize splits text into canonical tokens with stopwords removed.
func Tokenize(text string) []string {
	words := strings.Fields(Canonicalize(text))
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < 2 || englishStopwords.Contains(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// Index matches query keywords against wiki entry titles, tags and content.
type Index struct {
	ac             *ahocorasick.Automaton
	patterns       []string
	patternEntries [][]string
	entryOrder     map[string]int
}

// NewIndex builds an index over the supplied entries.
func NewIndex(entries []models.WikiEntry) (*Index, error) {
	idx := &Index{
		patterns:   []string{},
		entryOrder: make(map[string]int, len(entries)),
	}
	patternIndex := make(map[string]int)

	add := func(token, entryID string) {
		i, ok := patternIndex[token]
		if !ok {
			i = len(idx.patterns)
			patternIndex[token] = i
			idx.patterns = append(idx.patterns, token)
			idx.patternEntries = append(idx.patternEntries, nil)
		}
		for _, id := range idx.patternEntries[i] {
			if id == entryID {
				return
			}
		}
		idx.patternEntries[i] = append(idx.patternEntries[i], entryID)
	}

	for pos, entry := range entries {
		idx.entryOrder[entry.ID] = pos
		for _, token := range Tokenize(entry.Title) {
			add(token, entry.ID)
		}
		for _, tag := range entry.Tags {
			for _, token := range Tokenize(tag) {
				add(token, entry.ID)
			}
		}
		for _, token := range Tokenize(entry.Content) {
			add(token, entry.ID)
		}
	}

	if len(idx.patterns) == 0 {
		return idx, nil
	}

	ac, err := ahocorasick.NewBuilder().
		AddStrings(idx.patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, err
	}
	idx.ac = ac

	return idx, nil
}

// Search returns entry IDs whose keywords intersect the query, ranked by
// distinct keyword hits, ties broken by index insertion order.
func (idx *Index) Search(query string) []string {
	if idx.ac == nil {
		return nil
	}

	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	hits := make(map[string]int)
	seen := make(map[int]bool)
	haystack := []byte(strings.Join(tokens, " "))

	for _, m := range idx.ac.FindAllOverlapping(haystack) {
		if seen[m.PatternID] {
			continue
		}
		// Only whole-token matches count; the automaton also reports
		// patterns embedded inside longer query words.
		if !wholeToken(haystack, m.Start, m.End) {
			continue
		}
		seen[m.PatternID] = true
		for _, entryID := range idx.patternEntries[m.PatternID] {
			hits[entryID]++
		}
	}

	ranked := make([]string, 0, len(hits))
	for id := range hits {
		ranked = append(ranked, id)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if hits[ranked[i]] != hits[ranked[j]] {
			return hits[ranked[i]] > hits[ranked[j]]
		}
		return idx.entryOrder[ranked[i]] < idx.entryOrder[ranked[j]]
	})

	return ranked
}

func wholeToken(haystack []byte, start, end int) bool {
	if start > 0 && haystack[start-1] != ' ' {
		return false
	}
	if end < len(haystack) && haystack[end] != ' ' {
		return false
	}
	return true
}
