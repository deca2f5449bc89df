package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func seedWiki(t *testing.T, svc *WikiService) {
	t.Helper()
	ctx := context.Background()

	fixtures := []CreateWikiEntryInput{
		{Title: "Deploying with Docker", Category: "devops", Tags: []string{"docker", "deploy"}, AuthorID: "u1", Content: "Build the image, push the registry tag."},
		{Title: "Goroutine patterns", Category: "go", Tags: []string{"concurrency"}, AuthorID: "u2", Content: "Worker pools bound concurrency with channels."},
		{Title: "Docker networking", Category: "devops", Tags: []string{"docker", "networking"}, AuthorID: "u2", ProjectID: "p1", Content: "Bridge networks isolate containers."},
	}
	for _, f := range fixtures {
		_, err := svc.Create(ctx, f)
		require.NoError(t, err)
	}
}

func TestWikiService_TagFilterMatchesOnIntersection(t *testing.T) {
	svc, err := NewWikiService(newTestStore(t))
	require.NoError(t, err)
	seedWiki(t, svc)

	ctx := context.Background()

	// OR within the tags filter: any shared tag matches.
	tagged, err := svc.List(ctx, WikiFilters{Tags: []string{"networking", "deploy"}})
	require.NoError(t, err)
	require.Len(t, tagged, 2)

	// AND with the other filters.
	devopsDocker, err := svc.List(ctx, WikiFilters{Category: "devops", Tags: []string{"docker"}, AuthorID: "u2"})
	require.NoError(t, err)
	require.Len(t, devopsDocker, 1)
	require.Equal(t, "Docker networking", devopsDocker[0].Title)

	byProject, err := svc.List(ctx, WikiFilters{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, byProject, 1)
}

func TestWikiService_CreateGetUpdateDelete(t *testing.T) {
	svc, err := NewWikiService(newTestStore(t))
	require.NoError(t, err)

	ctx := context.Background()
	created, err := svc.Create(ctx, CreateWikiEntryInput{
		Title:    "Welcome",
		Category: "docs",
		Tags:     []string{"intro"},
		AuthorID: "u1",
	})
	require.NoError(t, err)
	require.Zero(t, created.Likes)
	require.Zero(t, created.Views)

	fetched, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, *created, *fetched)

	updated, err := svc.Update(ctx, created.ID, WikiEntryUpdate{Tags: ptr([]string{"intro", "docs"})})
	require.NoError(t, err)
	require.Equal(t, []string{"intro", "docs"}, updated.Tags)

	require.NoError(t, svc.Delete(ctx, created.ID))
	gone, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Nil(t, gone)

	require.NoError(t, svc.Delete(ctx, created.ID), "delete is idempotent")
}

func TestWikiService_SearchRanksByKeywordHits(t *testing.T) {
	svc, err := NewWikiService(newTestStore(t))
	require.NoError(t, err)
	seedWiki(t, svc)

	ctx := context.Background()

	results, err := svc.Search(ctx, "docker networking")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, "Docker networking", results[0].Title, "entry matching both keywords ranks first")

	none, err := svc.Search(ctx, "the and of")
	require.NoError(t, err)
	require.Empty(t, none, "stopword-only queries match nothing")
}
