package app

import (
	"fmt"

	"github.com/mimirlabs/mimir/internal/app/maintenance"
	"github.com/mimirlabs/mimir/internal/auth"
	"github.com/mimirlabs/mimir/internal/services"
	"github.com/mimirlabs/mimir/internal/store"
	"github.com/mimirlabs/mimir/pkg/crypto"
	"github.com/mimirlabs/mimir/pkg/logger"
)

// App is the composition root. An embedding host constructs one App and
// calls the services directly; there is no network or CLI surface.
type App struct {
	Config *Config

	Store      *store.Store
	Users      *services.UserService
	Projects   *services.ProjectService
	Wiki       *services.WikiService
	Notes      *services.NoteService
	Comments   *services.CommentService
	SqlScripts *services.SqlScriptService
	Likes      *services.LikeService

	Auth    *auth.Service
	Tracker *auth.MemoryAttemptTracker

	cleaner *maintenance.Cleaner
}

// New wires every component from configuration: logger, durable store,
// collection services, attempt tracker, auth service, and maintenance.
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		loaded, err := LoadConfig()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("app: init logger: %w", err)
	}

	durable, err := store.NewFileKV(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}

	st, err := store.New(durable)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Store: st}

	if a.Users, err = services.NewUserService(st); err != nil {
		return nil, err
	}
	if a.Projects, err = services.NewProjectService(st); err != nil {
		return nil, err
	}
	if a.Wiki, err = services.NewWikiService(st); err != nil {
		return nil, err
	}
	if a.Notes, err = services.NewNoteService(st); err != nil {
		return nil, err
	}
	if a.Comments, err = services.NewCommentService(st); err != nil {
		return nil, err
	}
	if a.SqlScripts, err = services.NewSqlScriptService(st); err != nil {
		return nil, err
	}
	if a.Likes, err = services.NewLikeService(st); err != nil {
		return nil, err
	}

	a.Tracker = auth.NewMemoryAttemptTracker(cfg.Auth.LockoutThreshold, cfg.Auth.LockoutDuration)

	// Durable session slot shares the data directory; the ephemeral slot
	// lives and dies with the process, mirroring tab-scoped storage.
	sessionMgr, err := auth.NewSessionManager(durable, store.NewMemoryKV())
	if err != nil {
		return nil, err
	}

	a.Auth, err = auth.NewService(a.Users, a.Tracker, sessionMgr, crypto.BcryptHasher{}, auth.Config{
		LogoutDelay: cfg.Auth.LogoutDelay,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Maintenance.Enabled {
		a.cleaner, err = maintenance.NewCleaner(a.Tracker,
			maintenance.WithSweepSchedule(cfg.Maintenance.SweepSchedule))
		if err != nil {
			return nil, err
		}
		if err := a.cleaner.Start(); err != nil {
			return nil, fmt.Errorf("app: start maintenance: %w", err)
		}
	}

	return a, nil
}

// Close stops background work and flushes logs.
func (a *App) Close() {
	if a.cleaner != nil {
		a.cleaner.Stop()
	}
	_ = logger.Sync()
}
