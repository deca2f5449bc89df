package auth

import (
	"encoding/json"
	"errors"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/mimirlabs/mimir/internal/models"
	"github.com/mimirlabs/mimir/internal/store"
	"github.com/mimirlabs/mimir/pkg/logger"
)

// Session slot keys. These are distinct from the snapshot key owned by the
// document store.
const (
	sessionUserKey   = "user"
	rememberFlagKey  = "rememberMe"
	rememberFlagTrue = "true"
)

// SessionManager materialises the authenticated user into one of two storage
// tiers: the durable slot survives restarts ("remember me"), the ephemeral
// slot lives only as long as the owning process/tab.
type SessionManager struct {
	durable   store.KV
	ephemeral store.KV
	log       *zap.Logger
}

// NewSessionManager wires the two storage tiers.
func NewSessionManager(durable, ephemeral store.KV) (*SessionManager, error) {
	if durable == nil || ephemeral == nil {
		return nil, errors.New("session: both storage tiers are required")
	}
	return &SessionManager{
		durable:   durable,
		ephemeral: ephemeral,
		log:       logger.WithModule("session"),
	}, nil
}

// Persist writes the sanitized user into the selected tier. Choosing the
// ephemeral tier clears the durable remember flag so the next restore does
// not resurrect an older durable session.
func (m *SessionManager) Persist(user models.User, durable bool) error {
	raw, err := json.Marshal(user.Sanitized())
	if err != nil {
		return err
	}

	if durable {
		if err := m.durable.Set(sessionUserKey, raw); err != nil {
			return err
		}
		return m.durable.Set(rememberFlagKey, []byte(rememberFlagTrue))
	}

	if err := m.ephemeral.Set(sessionUserKey, raw); err != nil {
		return err
	}
	return m.durable.Delete(rememberFlagKey)
}

// Remembered reports whether the durable remember flag is set.
func (m *SessionManager) Remembered() bool {
	raw, ok, err := m.durable.Get(rememberFlagKey)
	if err != nil || !ok {
		return false
	}
	return string(raw) == rememberFlagTrue
}

// Restore loads the stored session, durable tier first (when remembered),
// then ephemeral. Corrupt slot contents are cleared and ignored.
func (m *SessionManager) Restore() (*models.User, bool) {
	if m.Remembered() {
		if user := m.restoreSlot(m.durable); user != nil {
			return user, true
		}
		// The durable slot was corrupt; drop the flag with it.
		if err := m.durable.Delete(rememberFlagKey); err != nil {
			m.log.Warn("clear remember flag failed", zap.Error(err))
		}
	}

	if user := m.restoreSlot(m.ephemeral); user != nil {
		return user, false
	}
	return nil, false
}

func (m *SessionManager) restoreSlot(kv store.KV) *models.User {
	raw, ok, err := kv.Get(sessionUserKey)
	if err != nil {
		m.log.Warn("session slot read failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var user models.User
	if err := json.Unmarshal(raw, &user); err != nil || user.ID == "" {
		m.log.Warn("session slot unparsable, clearing", zap.Error(err))
		if err := kv.Delete(sessionUserKey); err != nil {
			m.log.Warn("clear session slot failed", zap.Error(err))
		}
		return nil
	}
	return &user
}

// Clear removes the session from both tiers.
func (m *SessionManager) Clear() error {
	return multierr.Combine(
		m.durable.Delete(sessionUserKey),
		m.durable.Delete(rememberFlagKey),
		m.ephemeral.Delete(sessionUserKey),
	)
}
