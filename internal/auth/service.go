package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mimirlabs/mimir/internal/models"
	"github.com/mimirlabs/mimir/internal/services"
	"github.com/mimirlabs/mimir/pkg/crypto"
	apperrors "github.com/mimirlabs/mimir/pkg/errors"
	"github.com/mimirlabs/mimir/pkg/logger"
	"github.com/mimirlabs/mimir/pkg/metrics"
	"github.com/mimirlabs/mimir/pkg/validator"
)

// DefaultLogoutDelay is how long after a password change the forced logout
// fires, giving the UI time to show the confirmation.
const DefaultLogoutDelay = 2 * time.Second

// Config defines tunable behaviour for the auth service.
type Config struct {
	LogoutDelay time.Duration
	Clock       func() time.Time
}

// RegisterInput captures the details required to register a new account.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Service is the session/auth core: credential verification, attempt
// tracking, lockout, and session materialisation. The current user held in
// memory never carries the password hash.
type Service struct {
	users    *services.UserService
	tracker  AttemptTracker
	sessions *SessionManager
	hasher   crypto.Hasher
	clock    func() time.Time

	logoutDelay time.Duration
	log         *zap.Logger

	mu        sync.RWMutex
	current   *models.User
	sessionID string

	loading atomic.Bool
}

// NewService wires the auth core and restores any stored session.
func NewService(users *services.UserService, tracker AttemptTracker, sessions *SessionManager, hasher crypto.Hasher, cfg Config) (*Service, error) {
	if users == nil {
		return nil, errors.New("auth: user service is required")
	}
	if tracker == nil {
		return nil, errors.New("auth: attempt tracker is required")
	}
	if sessions == nil {
		return nil, errors.New("auth: session manager is required")
	}
	if hasher == nil {
		hasher = crypto.BcryptHasher{}
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	delay := cfg.LogoutDelay
	if delay <= 0 {
		delay = DefaultLogoutDelay
	}

	s := &Service{
		users:       users,
		tracker:     tracker,
		sessions:    sessions,
		hasher:      hasher,
		clock:       clock,
		logoutDelay: delay,
		log:         logger.WithModule("auth"),
	}

	if user, durable := sessions.Restore(); user != nil {
		s.current = user
		s.sessionID = uuid.NewString()
		if durable {
			s.log.Info("restored remembered session",
				zap.String("session_id", s.sessionID),
				zap.String("user", user.Name))
		}
	}

	return s, nil
}

// Loading reports whether an auth operation is in flight. It is the only
// concurrency signal the UI observes.
func (s *Service) Loading() bool {
	return s.loading.Load()
}

// CurrentUser returns a copy of the authenticated user, or nil.
func (s *Service) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil
	}
	user := *s.current
	return &user
}

// IsAuthenticated reports whether a session is active.
func (s *Service) IsAuthenticated() bool {
	return s.CurrentUser() != nil
}

// Login authenticates an email/password pair. The email format is checked
// before any lookup or attempt tracking; a blocked email is rejected before
// the credential check so failed probes cannot inflate the counter.
func (s *Service) Login(ctx context.Context, email, password string, rememberMe bool) (*models.User, error) {
	s.loading.Store(true)
	defer s.loading.Store(false)

	if !validator.IsEmail(email) {
		metrics.AuthAttempts.WithLabelValues("invalid_email").Inc()
		return nil, apperrors.NewValidation("email", "Please enter a valid email address.")
	}

	if status := s.tracker.Check(email); status.Blocked {
		metrics.AuthAttempts.WithLabelValues("locked").Inc()
		return nil, &AccountLockedError{MinutesRemaining: status.MinutesRemaining}
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.recordFailure(email)
		metrics.AuthAttempts.WithLabelValues("not_found").Inc()
		return nil, ErrEmailNotFound
	}

	if !s.hasher.Verify(user.Password, password) {
		outcome := s.recordFailure(email)
		metrics.AuthAttempts.WithLabelValues("wrong_password").Inc()
		return nil, &WrongPasswordError{
			AttemptsRemaining: outcome.AttemptsRemaining,
			Locked:            outcome.Locked,
		}
	}

	s.tracker.Reset(email)

	now := s.clock()
	if _, err := s.users.Update(ctx, user.ID, services.UserUpdate{LastLogin: &now}); err != nil {
		// Login stands even when the lastLogin stamp cannot be persisted.
		s.log.Warn("persist lastLogin failed", zap.Error(err))
	}

	sanitized := user.Sanitized()
	sanitized.LastLogin = &now
	if err := s.sessions.Persist(sanitized, rememberMe); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = &sanitized
	s.sessionID = uuid.NewString()
	sessionID := s.sessionID
	s.mu.Unlock()

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	s.log.Info("login",
		zap.String("session_id", sessionID),
		zap.String("user_id", sanitized.ID),
		zap.Bool("remember_me", rememberMe))

	return &sanitized, nil
}

func (s *Service) recordFailure(email string) FailureOutcome {
	outcome := s.tracker.RecordFailure(email)
	if outcome.Locked {
		metrics.Lockouts.Inc()
		s.log.Warn("account locked",
			zap.String("email", email),
			zap.Time("until", outcome.LockedUntil))
	} else if outcome.ShouldWarn() {
		s.log.Warn("approaching lockout",
			zap.String("email", email),
			zap.Int("attempts_remaining", outcome.AttemptsRemaining))
	}
	return outcome
}

// Register creates a new account and materialises an ephemeral session.
// Validation order matters and is part of the contract: email format,
// password strength, confirmation match, duplicate email, name length.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	s.loading.Store(true)
	defer s.loading.Store(false)

	if !validator.IsEmail(input.Email) {
		return nil, apperrors.NewValidation("email", "Please enter a valid email address.")
	}
	if err := checkPasswordStrength(input.Password); err != nil {
		return nil, err
	}
	if input.Password != input.ConfirmPassword {
		return nil, apperrors.NewValidation("confirmPassword", "Passwords do not match.")
	}

	existing, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflict("email", "This email is already registered.")
	}

	name := strings.TrimSpace(input.Name)
	if len([]rune(name)) < 3 {
		return nil, apperrors.NewValidation("name", "Name must be at least 3 characters.")
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, services.CreateUserInput{
		Name:     name,
		Email:    input.Email,
		Password: hashed,
		Role:     models.RoleUser,
	})
	if err != nil {
		return nil, err
	}

	sanitized := user.Sanitized()
	if err := s.sessions.Persist(sanitized, false); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = &sanitized
	s.sessionID = uuid.NewString()
	s.mu.Unlock()

	s.log.Info("registered", zap.String("user_id", sanitized.ID))
	return &sanitized, nil
}

// Logout clears the in-memory session and both stored copies.
func (s *Service) Logout() error {
	s.mu.Lock()
	var userID string
	if s.current != nil {
		userID = s.current.ID
	}
	s.current = nil
	s.sessionID = ""
	s.mu.Unlock()

	if err := s.sessions.Clear(); err != nil {
		return apperrors.NewStorage("clear session", err)
	}
	if userID != "" {
		s.log.Info("logout", zap.String("user_id", userID))
	}
	return nil
}

// UpdateProfile applies the changes to the authenticated user and refreshes
// the session copy in whichever storage tier is active.
func (s *Service) UpdateProfile(ctx context.Context, update services.UserUpdate) (*models.User, error) {
	current := s.CurrentUser()
	if current == nil {
		return nil, ErrNotAuthenticated
	}

	s.loading.Store(true)
	defer s.loading.Store(false)

	// Password changes go through ChangePassword, which verifies the
	// current credential first.
	update.Password = nil

	updated, err := s.users.Update(ctx, current.ID, update)
	if err != nil {
		return nil, err
	}

	sanitized := updated.Sanitized()
	if err := s.sessions.Persist(sanitized, s.sessions.Remembered()); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = &sanitized
	s.mu.Unlock()

	return &sanitized, nil
}

// ChangePassword verifies the current password against the stored hash,
// validates and persists the new one, then schedules a forced logout so the
// user re-authenticates.
func (s *Service) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	current := s.CurrentUser()
	if current == nil {
		return ErrNotAuthenticated
	}

	s.loading.Store(true)
	defer s.loading.Store(false)

	// The in-memory user is sanitized; re-fetch the stored record for the hash.
	full, err := s.users.GetByID(ctx, current.ID)
	if err != nil {
		return err
	}
	if full == nil || !s.hasher.Verify(full.Password, currentPassword) {
		return &apperrors.AppError{
			Kind:    apperrors.KindWrongPassword,
			Field:   "currentPassword",
			Message: "The current password is incorrect.",
		}
	}

	if err := checkPasswordStrength(newPassword); err != nil {
		return err
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if _, err := s.users.Update(ctx, current.ID, services.UserUpdate{Password: &hashed}); err != nil {
		return err
	}

	s.log.Info("password changed, scheduling logout",
		zap.String("user_id", current.ID),
		zap.Duration("delay", s.logoutDelay))
	time.AfterFunc(s.logoutDelay, func() {
		if err := s.Logout(); err != nil {
			s.log.Error("post password-change logout failed", zap.Error(err))
		}
	})

	return nil
}

// checkPasswordStrength is the acceptance check applied on register and
// password change: at least 6 characters with lower, upper, and a digit.
// The stricter 5-rule checklist in pkg/validator feeds live form feedback
// only; the two rule sets are deliberately separate.
func checkPasswordStrength(password string) error {
	if len(password) < 6 {
		return apperrors.NewValidation("password", "Password must be at least 6 characters.")
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !lower {
		return apperrors.NewValidation("password", "Password must contain lowercase letters.")
	}
	if !upper {
		return apperrors.NewValidation("password", "Password must contain uppercase letters.")
	}
	if !digit {
		return apperrors.NewValidation("password", "Password must contain numbers.")
	}
	return nil
}
