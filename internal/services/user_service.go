package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mimirlabs/mimir/internal/models"
	"github.com/mimirlabs/mimir/internal/store"
)

// UserService manages the users collection.
type UserService struct {
	store *store.Store
	now   func() time.Time
}

// NewUserService constructs a user service over the snapshot store.
func NewUserService(st *store.Store, opts ...ServiceOption) (*UserService, error) {
	if st == nil {
		return nil, errors.New("user service: store is required")
	}
	svc := &UserService{store: st, now: time.Now}
	for _, opt := range opts {
		opt.applyClock(&svc.now)
	}
	return svc, nil
}

// CreateUserInput captures the fields required to create a user. Password
// must already be hashed; this layer never sees plaintext credentials.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Avatar   string
	Role     models.Role
}

// UserUpdate describes mutable user fields. A nil pointer means no change.
type UserUpdate struct {
	Name      *string
	Email     *string
	Password  *string
	Avatar    *string
	Role      *models.Role
	LastLogin *time.Time
	IsActive  *bool
}

// List returns every user in insertion order.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.store.View(func(data *models.Snapshot) error {
		users = append([]models.User(nil), data.Users...)
		return nil
	})
	return users, err
}

// GetByID returns the user or nil when the id is unknown.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	var found *models.User
	err := s.store.View(func(data *models.Snapshot) error {
		for i := range data.Users {
			if data.Users[i].ID == id {
				user := data.Users[i]
				found = &user
				return nil
			}
		}
		return nil
	})
	return found, err
}

// GetByEmail returns the user matching the email case-insensitively, or nil.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	needle := strings.ToLower(strings.TrimSpace(email))
	var found *models.User
	err := s.store.View(func(data *models.Snapshot) error {
		for i := range data.Users {
			if strings.ToLower(data.Users[i].Email) == needle {
				user := data.Users[i]
				found = &user
				return nil
			}
		}
		return nil
	})
	return found, err
}

// Create appends a new user and persists the snapshot.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	role := input.Role
	if role == "" {
		role = models.RoleUser
	}

	user := models.User{
		ID:        models.NewIDAt(s.now()),
		Name:      input.Name,
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Password:  input.Password,
		Avatar:    input.Avatar,
		Role:      role,
		CreatedAt: s.now(),
	}

	err := s.store.Update(func(data *models.Snapshot) error {
		data.Users = append(data.Users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update merges the supplied changes into an existing user.
func (s *UserService) Update(ctx context.Context, id string, update UserUpdate) (*models.User, error) {
	var updated models.User
	err := s.store.Update(func(data *models.Snapshot) error {
		for i := range data.Users {
			if data.Users[i].ID != id {
				continue
			}

			user := &data.Users[i]
			if update.Name != nil {
				user.Name = *update.Name
			}
			if update.Email != nil {
				user.Email = strings.ToLower(strings.TrimSpace(*update.Email))
			}
			if update.Password != nil {
				user.Password = *update.Password
			}
			if update.Avatar != nil {
				user.Avatar = *update.Avatar
			}
			if update.Role != nil {
				user.Role = *update.Role
			}
			if update.LastLogin != nil {
				last := *update.LastLogin
				user.LastLogin = &last
			}
			if update.IsActive != nil {
				active := *update.IsActive
				user.IsActive = &active
			}

			updated = *user
			return nil
		}
		return ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a user. Deleting an absent id is a no-op.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.store.Update(func(data *models.Snapshot) error {
		for i := range data.Users {
			if data.Users[i].ID == id {
				data.Users = append(data.Users[:i], data.Users[i+1:]...)
				return nil
			}
		}
		return nil
	})
}
