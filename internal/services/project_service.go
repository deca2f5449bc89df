package services

import (
	"context"
	"errors"
	"time"

	"github.com/mimirlabs/mimir/internal/models"
	"github.com/mimirlabs/mimir/internal/store"
)

// ProjectService manages the projects collection.
type ProjectService struct {
	store *store.Store
	now   func() time.Time
}

// NewProjectService constructs a project service over the snapshot store.
func NewProjectService(st *store.Store, opts ...ServiceOption) (*ProjectService, error) {
	if st == nil {
		return nil, errors.New("project service: store is required")
	}
	svc := &ProjectService{store: st, now: time.Now}
	for _, opt := range opts {
		opt.applyClock(&svc.now)
	}
	return svc, nil
}

// ProjectFilters narrows List results. Zero values mean "no filter"; filters
// combine with AND semantics.
type ProjectFilters struct {
	Language  string
	Framework string
	Status    models.ProjectStatus
	IsPublic  *bool
}

// CreateProjectInput captures the caller-supplied project fields.
type CreateProjectInput struct {
	Name         string
	Description  string
	Language     string
	Framework    string
	Dependencies models.ProjectDependencies
	Repository   string
	Status       models.ProjectStatus
	AuthorID     string
	IsPublic     bool
}

// ProjectUpdate describes mutable project fields. A nil pointer means no change.
type ProjectUpdate struct {
	Name         *string
	Description  *string
	Language     *string
	Framework    *string
	Dependencies *models.ProjectDependencies
	Repository   *string
	Status       *models.ProjectStatus
	IsPublic     *bool
}

func (f ProjectFilters) matches(p models.Project) bool {
	if f.Language != "" && p.Language != f.Language {
		return false
	}
	if f.Framework != "" && p.Framework != f.Framework {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.IsPublic != nil && p.IsPublic != *f.IsPublic {
		return false
	}
	return true
}

// List returns projects matching every provided filter, in insertion order.
func (s *ProjectService) List(ctx context.Context, filters ProjectFilters) ([]models.Project, error) {
	var projects []models.Project
	err := s.store.View(func(data *models.Snapshot) error {
		for _, p := range data.Projects {
			if filters.matches(p) {
				projects = append(projects, p)
			}
		}
		return nil
	})
	return projects, err
}

// GetByID returns the project or nil when the id is unknown.
func (s *ProjectService) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var found *models.Project
	err := s.store.View(func(data *models.Snapshot) error {
		for i := range data.Projects {
			if data.Projects[i].ID == id {
				project := data.Projects[i]
				found = &project
				return nil
			}
		}
		return nil
	})
	return found, err
}

// Create appends a new project with zeroed counters and persists.
func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	now := s.now()
	status := input.Status
	if status == "" {
		status = models.ProjectActive
	}

	project := models.Project{
		ID:           models.NewIDAt(now),
		Name:         input.Name,
		Description:  input.Description,
		Language:     input.Language,
		Framework:    input.Framework,
		Dependencies: input.Dependencies,
		Repository:   input.Repository,
		Status:       status,
		AuthorID:     input.AuthorID,
		CreatedAt:    now,
		UpdatedAt:    now,
		IsPublic:     input.IsPublic,
	}

	err := s.store.Update(func(data *models.Snapshot) error {
		data.Projects = append(data.Projects, project)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Update merges the supplied changes and refreshes updatedAt.
func (s *ProjectService) Update(ctx context.Context, id string, update ProjectUpdate) (*models.Project, error) {
	var updated models.Project
	err := s.store.Update(func(data *models.Snapshot) error {
		for i := range data.Projects {
			if data.Projects[i].ID != id {
				continue
			}

			project := &data.Projects[i]
			if update.Name != nil {
				project.Name = *update.Name
			}
			if update.Description != nil {
				project.Description = *update.Description
			}
			if update.Language != nil {
				project.Language = *update.Language
			}
			if update.Framework != nil {
				project.Framework = *update.Framework
			}
			if update.Dependencies != nil {
				project.Dependencies = *update.Dependencies
			}
			if update.Repository != nil {
				project.Repository = *update.Repository
			}
			if update.Status != nil {
				project.Status = *update.Status
			}
			if update.IsPublic != nil {
				project.IsPublic = *update.IsPublic
			}
			project.UpdatedAt = s.now()

			updated = *project
			return nil
		}
		return ErrProjectNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a project. Deleting an absent id is a no-op.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.store.Update(func(data *models.Snapshot) error {
		for i := range data.Projects {
			if data.Projects[i].ID == id {
				data.Projects = append(data.Projects[:i], data.Projects[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// IncrementViews bumps the cached view counter. Unknown ids are ignored;
// view tracking is best effort.
func (s *ProjectService) IncrementViews(ctx context.Context, id string) error {
	return s.store.Update(func(data *models.Snapshot) error {
		for i := range data.Projects {
			if data.Projects[i].ID == id {
				data.Projects[i].Views++
				return nil
			}
		}
		return nil
	})
}
