package services

import (
	"context"
	"errors"
	"time"

	"github.com/mimirlabs/mimir/internal/models"
	"github.com/mimirlabs/mimir/internal/search"
	"github.com/mimirlabs/mimir/internal/store"
)

// WikiService manages the wiki entries collection.
type WikiService struct {
	store *store.Store
	now   func() time.Time
}

// NewWikiService constructs a wiki service over the snapshot store.
func NewWikiService(st *store.Store, opts ...ServiceOption) (*WikiService, error) {
	if st == nil {
		return nil, errors.New("wiki service: store is required")
	}
	svc := &WikiService{store: st, now: time.Now}
	for _, opt := range opts {
		opt.applyClock(&svc.now)
	}
	return svc, nil
}

// WikiFilters narrows List results with AND semantics. The Tags filter
// matches entries whose tag set intersects it (OR within the filter).
type WikiFilters struct {
	Category  string
	Tags      []string
	AuthorID  string
	ProjectID string
}

// CreateWikiEntryInput captures the caller-supplied entry fields.
type CreateWikiEntryInput struct {
	Title     string
	Content   string
	Category  string
	Tags      []string
	AuthorID  string
	ProjectID string
	IsPublic  bool
}

// WikiEntryUpdate describes mutable entry fields. A nil pointer means no change.
type WikiEntryUpdate struct {
	Title     *string
	Content   *string
	Category  *string
	Tags      *[]string
	ProjectID *string
	IsPublic  *bool
}

func (f WikiFilters) matches(e models.WikiEntry) bool {
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if f.AuthorID != "" && e.AuthorID != f.AuthorID {
		return false
	}
	if f.ProjectID != "" && e.ProjectID != f.ProjectID {
		return false
	}
	if len(f.Tags) > 0 && !tagsIntersect(e.Tags, f.Tags) {
		return false
	}
	return true
}

func tagsIntersect(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// List returns entries matching every provided filter, in insertion order.
func (s *WikiService) List(ctx context.Context, filters WikiFilters) ([]models.WikiEntry, error) {
	var entries []models.WikiEntry
	err := s.store.View(func(data *models.Snapshot) error {
		for _, e := range data.WikiEntries {
			if filters.matches(e) {
				entries = append(entries, e)
			}
		}
		return nil
	})
	return entries, err
}

// GetByID returns the entry or nil when the id is unknown.
func (s *WikiService) GetByID(ctx context.Context, id string) (*models.WikiEntry, error) {
	var found *models.WikiEntry
	err := s.store.View(func(data *models.Snapshot) error {
		for i := range data.WikiEntries {
			if data.WikiEntries[i].ID == id {
				entry := data.WikiEntries[i]
				found = &entry
				return nil
			}
		}
		return nil
	})
	return found, err
}

// Create appends a new entry with zeroed counters and persists.
func (s *WikiService) Create(ctx context.Context, input CreateWikiEntryInput) (*models.WikiEntry, error) {
	now := s.now()
	entry := models.WikiEntry{
		ID:        models.NewIDAt(now),
		Title:     input.Title,
		Content:   input.Content,
		Category:  input.Category,
		Tags:      append([]string(nil), input.Tags...),
		AuthorID:  input.AuthorID,
		ProjectID: input.ProjectID,
		CreatedAt: now,
		UpdatedAt: now,
		IsPublic:  input.IsPublic,
	}

	err := s.store.Update(func(data *models.Snapshot) error {
		data.WikiEntries = append(data.WikiEntries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update merges the supplied changes and refreshes updatedAt.
func (s *WikiService) Update(ctx context.Context, id string, update WikiEntryUpdate) (*models.WikiEntry, error) {
	var updated models.WikiEntry
	err := s.store.Update(func(data *models.Snapshot) error {
		for i := range data.WikiEntries {
			if data.WikiEntries[i].ID != id {
				continue
			}

			entry := &data.WikiEntries[i]
			if update.Title != nil {
				entry.Title = *update.Title
			}
			if update.Content != nil {
				entry.Content = *update.Content
			}
			if update.Category != nil {
				entry.Category = *update.Category
			}
			if update.Tags != nil {
				entry.Tags = append([]string(nil), (*update.Tags)...)
			}
			if update.ProjectID != nil {
				entry.ProjectID = *update.ProjectID
			}
			if update.IsPublic != nil {
				entry.IsPublic = *update.IsPublic
			}
			entry.UpdatedAt = s.now()

			updated = *entry
			return nil
		}
		return ErrWikiEntryNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an entry. Deleting an absent id is a no-op.
func (s *WikiService) Delete(ctx context.Context, id string) error {
	return s.store.Update(func(data *models.Snapshot) error {
		for i := range data.WikiEntries {
			if data.WikiEntries[i].ID == id {
				data.WikiEntries = append(data.WikiEntries[:i], data.WikiEntries[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// IncrementViews bumps the cached view counter. Unknown ids are ignored.
func (s *WikiService) IncrementViews(ctx context.Context, id string) error {
	return s.store.Update(func(data *models.Snapshot) error {
		for i := range data.WikiEntries {
			if data.WikiEntries[i].ID == id {
				data.WikiEntries[i].Views++
				return nil
			}
		}
		return nil
	})
}

// Search matches the query's keywords against entry titles, tags and content
// and returns matching entries ranked by hit count. The index is rebuilt per
// call; local datasets are small enough that this beats cache invalidation.
func (s *WikiService) Search(ctx context.Context, query string) ([]models.WikiEntry, error) {
	var entries []models.WikiEntry
	err := s.store.View(func(data *models.Snapshot) error {
		entries = append([]models.WikiEntry(nil), data.WikiEntries...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	index, err := search.NewIndex(entries)
	if err != nil {
		return nil, err
	}

	ranked := index.Search(query)
	byID := make(map[string]models.WikiEntry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}

	results := make([]models.WikiEntry, 0, len(ranked))
	for _, id := range ranked {
		if e, ok := byID[id]; ok {
			results = append(results, e)
		}
	}
	return results, nil
}
