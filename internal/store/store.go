package store

import (
	_ "embed"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/mimirlabs/mimir/internal/models"
	apperrors "github.com/mimirlabs/mimir/pkg/errors"
	"github.com/mimirlabs/mimir/pkg/logger"
	"github.com/mimirlabs/mimir/pkg/metrics"
)

// SnapshotKey is the storage key holding the serialised dataset. It is
// distinct from the session-only keys owned by the auth core.
const SnapshotKey = "mimir_database"

//go:embed seed.json
var seedJSON []byte

// Store owns the canonical in-memory snapshot of every collection and its
// durable mirror. All reads and read-modify-write sequences run under one
// mutex, preserving the at-most-one-writer invariant of the single-threaded
// original when called from concurrent goroutines.
type Store struct {
	kv  KV
	key string
	mu  sync.Mutex
	log *zap.Logger

	data *models.Snapshot
}

// Option customises a Store.
type Option func(*Store)

// WithKey overrides the snapshot storage key, primarily for tests that share
// one KV between isolated stores.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// New builds a Store over the supplied KV and loads the snapshot: the stored
// blob when present and parsable, the bundled seed dataset otherwise. Load
// problems degrade to the seed and are logged, never returned.
func New(kv KV, opts ...Option) (*Store, error) {
	if kv == nil {
		return nil, errors.New("store: kv is required")
	}

	s := &Store{
		kv:  kv,
		key: SnapshotKey,
		log: logger.WithModule("store"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.data = s.load()
	return s, nil
}

func (s *Store) load() *models.Snapshot {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.log.Warn("snapshot read failed, using seed data", zap.Error(err))
		return seedSnapshot(s.log)
	}
	if !ok {
		return seedSnapshot(s.log)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		s.log.Warn("snapshot unparsable, using seed data", zap.Error(err))
		return seedSnapshot(s.log)
	}
	return &snapshot
}

func seedSnapshot(log *zap.Logger) *models.Snapshot {
	var snapshot models.Snapshot
	if err := json.Unmarshal(seedJSON, &snapshot); err != nil {
		// The seed is compiled in; an unparsable seed is a build defect.
		log.Error("embedded seed unparsable, starting empty", zap.Error(err))
		return &models.Snapshot{}
	}
	return &snapshot
}

// save serialises the full snapshot and rewrites the stored blob. Callers
// must hold s.mu.
func (s *Store) save() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		metrics.SnapshotSaves.WithLabelValues("error").Inc()
		return apperrors.NewStorage("serialise snapshot", err)
	}
	if err := s.kv.Set(s.key, raw); err != nil {
		metrics.SnapshotSaves.WithLabelValues("error").Inc()
		s.log.Error("snapshot write failed", zap.Error(err))
		return apperrors.NewStorage("persist snapshot", err)
	}
	metrics.SnapshotSaves.WithLabelValues("ok").Inc()
	return nil
}

// View runs fn with read access to the snapshot. fn must not retain or
// mutate the snapshot; copy out what it needs.
func (s *Store) View(fn func(data *models.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.data)
}

// Update runs fn with write access to the snapshot and persists the result
// as one critical section. When fn returns an error the snapshot is rolled
// back and nothing is written, so no caller observes a half-applied state.
func (s *Store) Update(fn func(data *models.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.data.Clone()
	if err := fn(s.data); err != nil {
		s.data = backup
		return err
	}
	if err := s.save(); err != nil {
		s.data = backup
		return err
	}
	return nil
}
