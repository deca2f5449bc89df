package services

import (
	"context"
	"errors"
	"time"

	"github.com/mimirlabs/mimir/internal/models"
	"github.com/mimirlabs/mimir/internal/store"
)

// NoteService manages the notes collection.
type NoteService struct {
	store *store.Store
	now   func() time.Time
}

// NewNoteService constructs a note service over the snapshot store.
func NewNoteService(st *store.Store, opts ...ServiceOption) (*NoteService, error) {
	if st == nil {
		return nil, errors.New("note service: store is required")
	}
	svc := &NoteService{store: st, now: time.Now}
	for _, opt := range opts {
		opt.applyClock(&svc.now)
	}
	return svc, nil
}

// CreateNoteInput captures the caller-supplied note fields.
type CreateNoteInput struct {
	Title     string
	Content   string
	ProjectID string
	AuthorID  string
	Type      models.NoteType
	Priority  models.NotePriority
}

// NoteUpdate describes mutable note fields. A nil pointer means no change.
type NoteUpdate struct {
	Title    *string
	Content  *string
	Type     *models.NoteType
	Priority *models.NotePriority
}

// List returns notes, optionally scoped to a project.
func (s *NoteService) List(ctx context.Context, projectID string) ([]models.Note, error) {
	var notes []models.Note
	err := s.store.View(func(data *models.Snapshot) error {
		for _, n := range data.Notes {
			if projectID == "" || n.ProjectID == projectID {
				notes = append(notes, n)
			}
		}
		return nil
	})
	return notes, err
}

// GetByID returns the note or nil when the id is unknown.
func (s *NoteService) GetByID(ctx context.Context, id string) (*models.Note, error) {
	var found *models.Note
	err := s.store.View(func(data *models.Snapshot) error {
		for i := range data.Notes {
			if data.Notes[i].ID == id {
				note := data.Notes[i]
				found = &note
				return nil
			}
		}
		return nil
	})
	return found, err
}

// Create appends a new note and persists.
func (s *NoteService) Create(ctx context.Context, input CreateNoteInput) (*models.Note, error) {
	if input.ProjectID == "" {
		return nil, errors.New("note service: project id is required")
	}

	now := s.now()
	noteType := input.Type
	if noteType == "" {
		noteType = models.NotePlain
	}
	priority := input.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	note := models.Note{
		ID:        models.NewIDAt(now),
		Title:     input.Title,
		Content:   input.Content,
		ProjectID: input.ProjectID,
		AuthorID:  input.AuthorID,
		Type:      noteType,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.store.Update(func(data *models.Snapshot) error {
		data.Notes = append(data.Notes, note)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Update merges the supplied changes and refreshes updatedAt.
func (s *NoteService) Update(ctx context.Context, id string, update NoteUpdate) (*models.Note, error) {
	var updated models.Note
	err := s.store.Update(func(data *models.Snapshot) error {
		for i := range data.Notes {
			if data.Notes[i].ID != id {
				continue
			}

			note := &data.Notes[i]
			if update.Title != nil {
				note.Title = *update.Title
			}
			if update.Content != nil {
				note.Content = *update.Content
			}
			if update.Type != nil {
				note.Type = *update.Type
			}
			if update.Priority != nil {
				note.Priority = *update.Priority
			}
			note.UpdatedAt = s.now()

			updated = *note
			return nil
		}
		return ErrNoteNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a note. Deleting an absent id is a no-op.
func (s *NoteService) Delete(ctx context.Context, id string) error {
	return s.store.Update(func(data *models.Snapshot) error {
		for i := range data.Notes {
			if data.Notes[i].ID == id {
				data.Notes = append(data.Notes[:i], data.Notes[i+1:]...)
				return nil
			}
		}
		return nil
	})
}
