package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mimirlabs/mimir/internal/models"
	"github.com/mimirlabs/mimir/internal/store"
)

// CommentService manages the comments collection. Every comment points at
// exactly one target entity through the tagged target union.
type CommentService struct {
	store *store.Store
	now   func() time.Time
}

// NewCommentService constructs a comment service over the snapshot store.
func NewCommentService(st *store.Store, opts ...ServiceOption) (*CommentService, error) {
	if st == nil {
		return nil, errors.New("comment service: store is required")
	}
	svc := &CommentService{store: st, now: time.Now}
	for _, opt := range opts {
		opt.applyClock(&svc.now)
	}
	return svc, nil
}

// CreateCommentInput captures the caller-supplied comment fields.
type CreateCommentInput struct {
	Content    string
	AuthorID   string
	TargetType models.LikeTarget
	TargetID   string
}

// CommentUpdate describes mutable comment fields. The target is immutable.
type CommentUpdate struct {
	Content *string
}

func validCommentTarget(t models.LikeTarget) bool {
	switch t {
	case models.TargetWikiEntry, models.TargetProject, models.TargetNote:
		return true
	default:
		return false
	}
}

// ListForTarget returns comments attached to a target, in insertion order.
func (s *CommentService) ListForTarget(ctx context.Context, targetType models.LikeTarget, targetID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.store.View(func(data *models.Snapshot) error {
		for _, c := range data.Comments {
			if c.TargetType == targetType && c.TargetID == targetID {
				comments = append(comments, c)
			}
		}
		return nil
	})
	return comments, err
}

// GetByID returns the comment or nil when the id is unknown.
func (s *CommentService) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var found *models.Comment
	err := s.store.View(func(data *models.Snapshot) error {
		for i := range data.Comments {
			if data.Comments[i].ID == id {
				comment := data.Comments[i]
				found = &comment
				return nil
			}
		}
		return nil
	})
	return found, err
}

// Create appends a new comment with a zeroed like counter and persists.
func (s *CommentService) Create(ctx context.Context, input CreateCommentInput) (*models.Comment, error) {
	if !validCommentTarget(input.TargetType) {
		return nil, fmt.Errorf("comment service: invalid target type %q", input.TargetType)
	}
	if input.TargetID == "" {
		return nil, errors.New("comment service: target id is required")
	}

	now := s.now()
	comment := models.Comment{
		ID:         models.NewIDAt(now),
		Content:    input.Content,
		AuthorID:   input.AuthorID,
		TargetType: input.TargetType,
		TargetID:   input.TargetID,
		CreatedAt:  now,
	}

	err := s.store.Update(func(data *models.Snapshot) error {
		data.Comments = append(data.Comments, comment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Update merges the supplied changes into an existing comment.
func (s *CommentService) Update(ctx context.Context, id string, update CommentUpdate) (*models.Comment, error) {
	var updated models.Comment
	err := s.store.Update(func(data *models.Snapshot) error {
		for i := range data.Comments {
			if data.Comments[i].ID != id {
				continue
			}

			comment := &data.Comments[i]
			if update.Content != nil {
				comment.Content = *update.Content
			}

			updated = *comment
			return nil
		}
		return ErrCommentNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a comment. Deleting an absent id is a no-op.
func (s *CommentService) Delete(ctx context.Context, id string) error {
	return s.store.Update(func(data *models.Snapshot) error {
		for i := range data.Comments {
			if data.Comments[i].ID == id {
				data.Comments = append(data.Comments[:i], data.Comments[i+1:]...)
				return nil
			}
		}
		return nil
	})
}
