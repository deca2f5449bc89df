package services

import (
	"context"
	"errors"
	"time"

	"github.com/mimirlabs/mimir/internal/models"
	"github.com/mimirlabs/mimir/internal/store"
	"github.com/mimirlabs/mimir/pkg/metrics"
)

// LikeService manages like rows and the cached like counters on their
// targets. Both sides of a toggle commit in one store critical section.
type LikeService struct {
	store *store.Store
	now   func() time.Time
}

// NewLikeService constructs a like service over the snapshot store.
func NewLikeService(st *store.Store, opts ...ServiceOption) (*LikeService, error) {
	if st == nil {
		return nil, errors.New("like service: store is required")
	}
	svc := &LikeService{store: st, now: time.Now}
	for _, opt := range opts {
		opt.applyClock(&svc.now)
	}
	return svc, nil
}

// ToggleResult reports the state after a toggle. Likes is the target's
// cached counter, or -1 when the target kind carries no counter (notes).
type ToggleResult struct {
	Liked bool
	Likes int
}

// Toggle removes the like row for the triple when present, otherwise inserts
// one, adjusting the target's cached counter by ±1 (floored at zero). The
// row mutation and counter adjustment are one logical unit; no caller can
// observe a half-applied state.
func (s *LikeService) Toggle(ctx context.Context, userID string, targetType models.LikeTarget, targetID string) (*ToggleResult, error) {
	result := &ToggleResult{Likes: -1}

	err := s.store.Update(func(data *models.Snapshot) error {
		existing := -1
		for i, like := range data.Likes {
			if like.UserID == userID && like.TargetType == targetType && like.TargetID == targetID {
				existing = i
				break
			}
		}

		if existing >= 0 {
			data.Likes = append(data.Likes[:existing], data.Likes[existing+1:]...)
			result.Liked = false
			result.Likes = adjustLikeCounter(data, targetType, targetID, -1)
			return nil
		}

		data.Likes = append(data.Likes, models.Like{
			ID:         models.NewIDAt(s.now()),
			UserID:     userID,
			TargetType: targetType,
			TargetID:   targetID,
			CreatedAt:  s.now(),
		})
		result.Liked = true
		result.Likes = adjustLikeCounter(data, targetType, targetID, 1)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Liked {
		metrics.LikeToggles.WithLabelValues("added").Inc()
	} else {
		metrics.LikeToggles.WithLabelValues("removed").Inc()
	}
	return result, nil
}

// adjustLikeCounter applies delta to the target's cached counter and returns
// the new value, or -1 when the target kind has no counter or the target is
// gone. Note targets keep like rows only; notes carry no counter.
func adjustLikeCounter(data *models.Snapshot, targetType models.LikeTarget, targetID string, delta int) int {
	clamp := func(current int) int {
		next := current + delta
		if next < 0 {
			next = 0
		}
		return next
	}

	switch targetType {
	case models.TargetWikiEntry:
		for i := range data.WikiEntries {
			if data.WikiEntries[i].ID == targetID {
				data.WikiEntries[i].Likes = clamp(data.WikiEntries[i].Likes)
				return data.WikiEntries[i].Likes
			}
		}
	case models.TargetProject:
		for i := range data.Projects {
			if data.Projects[i].ID == targetID {
				data.Projects[i].Likes = clamp(data.Projects[i].Likes)
				return data.Projects[i].Likes
			}
		}
	case models.TargetComment:
		for i := range data.Comments {
			if data.Comments[i].ID == targetID {
				data.Comments[i].Likes = clamp(data.Comments[i].Likes)
				return data.Comments[i].Likes
			}
		}
	}
	return -1
}

// ListForTarget returns every like row pointing at the target.
func (s *LikeService) ListForTarget(ctx context.Context, targetType models.LikeTarget, targetID string) ([]models.Like, error) {
	var likes []models.Like
	err := s.store.View(func(data *models.Snapshot) error {
		for _, like := range data.Likes {
			if like.TargetType == targetType && like.TargetID == targetID {
				likes = append(likes, like)
			}
		}
		return nil
	})
	return likes, err
}
