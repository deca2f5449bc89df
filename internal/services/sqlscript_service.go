package services

import (
	"context"
	"errors"
	"time"

	"github.com/mimirlabs/mimir/internal/models"
	"github.com/mimirlabs/mimir/internal/store"
)

// SqlScriptService manages the sqlScripts collection.
type SqlScriptService struct {
	store *store.Store
	now   func() time.Time
}

// NewSqlScriptService constructs a SQL script service over the snapshot store.
func NewSqlScriptService(st *store.Store, opts ...ServiceOption) (*SqlScriptService, error) {
	if st == nil {
		return nil, errors.New("sql script service: store is required")
	}
	svc := &SqlScriptService{store: st, now: time.Now}
	for _, opt := range opts {
		opt.applyClock(&svc.now)
	}
	return svc, nil
}

// CreateSqlScriptInput captures the caller-supplied script fields.
type CreateSqlScriptInput struct {
	Name        string
	Description string
	Content     string
	ProjectID   string
	AuthorID    string
	Database    string
	Version     string
}

// SqlScriptUpdate describes mutable script fields. A nil pointer means no change.
type SqlScriptUpdate struct {
	Name        *string
	Description *string
	Content     *string
	Database    *string
	Version     *string
}

// List returns scripts, optionally scoped to a project.
func (s *SqlScriptService) List(ctx context.Context, projectID string) ([]models.SqlScript, error) {
	var scripts []models.SqlScript
	err := s.store.View(func(data *models.Snapshot) error {
		for _, sc := range data.SqlScripts {
			if projectID == "" || sc.ProjectID == projectID {
				scripts = append(scripts, sc)
			}
		}
		return nil
	})
	return scripts, err
}

// GetByID returns the script or nil when the id is unknown.
func (s *SqlScriptService) GetByID(ctx context.Context, id string) (*models.SqlScript, error) {
	var found *models.SqlScript
	err := s.store.View(func(data *models.Snapshot) error {
		for i := range data.SqlScripts {
			if data.SqlScripts[i].ID == id {
				script := data.SqlScripts[i]
				found = &script
				return nil
			}
		}
		return nil
	})
	return found, err
}

// Create appends a new script and persists.
func (s *SqlScriptService) Create(ctx context.Context, input CreateSqlScriptInput) (*models.SqlScript, error) {
	now := s.now()
	script := models.SqlScript{
		ID:          models.NewIDAt(now),
		Name:        input.Name,
		Description: input.Description,
		Content:     input.Content,
		ProjectID:   input.ProjectID,
		AuthorID:    input.AuthorID,
		Database:    input.Database,
		Version:     input.Version,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.store.Update(func(data *models.Snapshot) error {
		data.SqlScripts = append(data.SqlScripts, script)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &script, nil
}

// Update merges the supplied changes and refreshes updatedAt.
func (s *SqlScriptService) Update(ctx context.Context, id string, update SqlScriptUpdate) (*models.SqlScript, error) {
	var updated models.SqlScript
	err := s.store.Update(func(data *models.Snapshot) error {
		for i := range data.SqlScripts {
			if data.SqlScripts[i].ID != id {
				continue
			}

			script := &data.SqlScripts[i]
			if update.Name != nil {
				script.Name = *update.Name
			}
			if update.Description != nil {
				script.Description = *update.Description
			}
			if update.Content != nil {
				script.Content = *update.Content
			}
			if update.Database != nil {
				script.Database = *update.Database
			}
			if update.Version != nil {
				script.Version = *update.Version
			}
			script.UpdatedAt = s.now()

			updated = *script
			return nil
		}
		return ErrSqlScriptNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a script. Deleting an absent id is a no-op.
func (s *SqlScriptService) Delete(ctx context.Context, id string) error {
	return s.store.Update(func(data *models.Snapshot) error {
		for i := range data.SqlScripts {
			if data.SqlScripts[i].ID == id {
				data.SqlScripts = append(data.SqlScripts[:i], data.SqlScripts[i+1:]...)
				return nil
			}
		}
		return nil
	})
}
