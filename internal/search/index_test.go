package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mimirlabs/mimir/internal/models"
)

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello world"},
		{"  spaced   out  ", "spaced out"},
		{"CamelCase-and_under", "camelcase and under"},
		{"v1.2.3", "v1 2 3"},
		{"", ""},
		{"!!!", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Canonicalize(tc.in), tc.in)
	}
}

func TestTokenize(t *testing.T) {
	tokens := Tokenize("The quick brown fox and the lazy dog")
	require.Equal(t, []string{"quick", "brown", "fox", "lazy", "dog"}, tokens)

	require.Empty(t, Tokenize("the and of a"), "stopword-only text yields nothing")
	require.Empty(t, Tokenize("x y z"), "single-letter words are dropped")
}

func testEntries() []models.WikiEntry {
	return []models.WikiEntry{
		{ID: "w1", Title: "Deploying with Docker", Tags: []string{"docker", "deploy"}, Content: "Build the image and push it."},
		{ID: "w2", Title: "Goroutine patterns", Tags: []string{"concurrency"}, Content: "Worker pools bound concurrency."},
		{ID: "w3", Title: "Docker networking", Tags: []string{"docker", "networking"}, Content: "Bridge networks isolate containers."},
	}
}

func TestIndex_RanksByDistinctKeywordHits(t *testing.T) {
	idx, err := NewIndex(testEntries())
	require.NoError(t, err)

	ranked := idx.Search("docker networking")
	require.Equal(t, []string{"w3", "w1"}, ranked, "two hits beat one")

	ranked = idx.Search("docker")
	require.Equal(t, []string{"w1", "w3"}, ranked, "ties fall back to insertion order")
}

func TestIndex_MatchesAcrossTitleTagsAndContent(t *testing.T) {
	idx, err := NewIndex(testEntries())
	require.NoError(t, err)

	require.Equal(t, []string{"w2"}, idx.Search("worker"), "content is indexed")
	require.Equal(t, []string{"w1"}, idx.Search("deploy"), "tags are indexed")
	require.Equal(t, []string{"w2"}, idx.Search("Goroutine!"), "queries are canonicalized")
}

func TestIndex_OnlyWholeTokensCount(t *testing.T) {
	idx, err := NewIndex(testEntries())
	require.NoError(t, err)

	// "net" is a substring of the indexed "networking" but not a token of it.
	require.Empty(t, idx.Search("net"))
	// Conversely an indexed short keyword must not fire inside a longer
	// query word.
	require.Empty(t, idx.Search("dockerized"))
}

func TestIndex_StopwordQueriesMatchNothing(t *testing.T) {
	idx, err := NewIndex(testEntries())
	require.NoError(t, err)

	require.Empty(t, idx.Search("the and of"))
	require.Empty(t, idx.Search(""))
}

func TestIndex_EmptyIndexIsSafe(t *testing.T) {
	idx, err := NewIndex(nil)
	require.NoError(t, err)
	require.Empty(t, idx.Search("anything"))
}
