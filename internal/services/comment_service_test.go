package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mimirlabs/mimir/internal/models"
)

func TestCommentService_TargetUnionIsValidated(t *testing.T) {
	svc, err := NewCommentService(newTestStore(t))
	require.NoError(t, err)

	ctx := context.Background()

	_, err = svc.Create(ctx, CreateCommentInput{Content: "x", AuthorID: "u1", TargetType: "banana", TargetID: "t1"})
	require.Error(t, err)

	_, err = svc.Create(ctx, CreateCommentInput{Content: "x", AuthorID: "u1", TargetType: models.TargetComment, TargetID: "c1"})
	require.Error(t, err, "comments cannot target comments")

	_, err = svc.Create(ctx, CreateCommentInput{Content: "x", AuthorID: "u1", TargetType: models.TargetProject})
	require.Error(t, err, "target id is required")
}

func TestCommentService_ListForTarget(t *testing.T) {
	svc, err := NewCommentService(newTestStore(t))
	require.NoError(t, err)

	ctx := context.Background()
	_, err = svc.Create(ctx, CreateCommentInput{Content: "on wiki", AuthorID: "u1", TargetType: models.TargetWikiEntry, TargetID: "w1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateCommentInput{Content: "on project", AuthorID: "u1", TargetType: models.TargetProject, TargetID: "p1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateCommentInput{Content: "also on wiki", AuthorID: "u2", TargetType: models.TargetWikiEntry, TargetID: "w1"})
	require.NoError(t, err)

	onWiki, err := svc.ListForTarget(ctx, models.TargetWikiEntry, "w1")
	require.NoError(t, err)
	require.Len(t, onWiki, 2)
	require.Equal(t, "on wiki", onWiki[0].Content, "insertion order preserved")

	onNote, err := svc.ListForTarget(ctx, models.TargetNote, "n1")
	require.NoError(t, err)
	require.Empty(t, onNote)
}

func TestCommentService_UpdateAndDelete(t *testing.T) {
	svc, err := NewCommentService(newTestStore(t))
	require.NoError(t, err)

	ctx := context.Background()
	created, err := svc.Create(ctx, CreateCommentInput{Content: "first", AuthorID: "u1", TargetType: models.TargetNote, TargetID: "n1"})
	require.NoError(t, err)
	require.Zero(t, created.Likes)

	updated, err := svc.Update(ctx, created.ID, CommentUpdate{Content: ptr("edited")})
	require.NoError(t, err)
	require.Equal(t, "edited", updated.Content)
	require.Equal(t, created.TargetID, updated.TargetID, "target is immutable")

	_, err = svc.Update(ctx, "missing", CommentUpdate{Content: ptr("x")})
	require.ErrorIs(t, err, ErrCommentNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.NoError(t, svc.Delete(ctx, created.ID))
}
