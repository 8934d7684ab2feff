// Package memory provides per-user persistent memory: profiles, goals, and
// interaction history. Reads consult an in-process cache before the durable
// layer; writes go to both. Durable failures degrade the affected operation
// to cache-only and are logged, never surfaced to callers, so the facade
// keeps serving read-your-writes semantics while storage is down.
package memory

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/careerd/internal/profile"
	"github.com/kalambet/careerd/internal/storage"
)

// Durable defines the storage operations Memory needs. Implemented by
// storage.Store. Payloads are JSON strings so the durable layer stays
// schema-free about profile shape.
type Durable interface {
	SaveProfile(userID, payloadJSON string) error
	GetProfile(userID string) (string, error)
	SaveGoals(userID, payloadJSON string) error
	GetGoals(userID string) (string, error)
	SaveInteraction(i storage.Interaction) error
	RecentInteractions(userID, capability string, limit int) ([]storage.Interaction, error)
}

// Memory is the two-layer store. Safe for concurrent use; mutations for the
// same user are serialized, different users proceed independently.
type Memory struct {
	durable Durable
	logger  *slog.Logger

	mu    sync.Mutex
	users map[string]*userState
}

// userState caches one user's records. The loaded flags distinguish "never
// fetched" from "fetched and absent" so the durable layer is read at most
// once per family while the cache is warm.
type userState struct {
	mu sync.Mutex

	profile       *profile.UserProfile
	profileLoaded bool

	goals       *profile.Goals
	goalsLoaded bool

	interactions       []storage.Interaction // most recent first
	interactionsLoaded bool
}

// New creates a Memory over durable. A nil durable is valid and yields a
// volatile in-process store (used by tests and degraded startup).
func New(durable Durable, logger *slog.Logger) *Memory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Memory{
		durable: durable,
		logger:  logger,
		users:   make(map[string]*userState),
	}
}

func (m *Memory) user(userID string) *userState {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		u = &userState{}
		m.users[userID] = u
	}
	return u
}

// --- Profile ---

// PutProfile replaces the user's profile wholesale. The durable write is
// attempted first; if it fails the new value is still cached, so subsequent
// reads observe the write.
func (m *Memory) PutProfile(userID string, p profile.UserProfile) {
	u := m.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	m.persist(userID, "profile", p, m.saveProfile)
	cp := p.Clone()
	u.profile = &cp
	u.profileLoaded = true
}

// GetProfile returns the user's current profile. The second return is false
// when no profile has ever been stored for the user.
func (m *Memory) GetProfile(userID string) (profile.UserProfile, bool) {
	u := m.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.profileLoaded {
		u.profile = loadJSON[profile.UserProfile](m, userID, "profile", m.getProfile)
		u.profileLoaded = true
	}
	if u.profile == nil {
		return profile.UserProfile{}, false
	}
	return u.profile.Clone(), true
}

// --- Goals ---

// PutGoals replaces the user's goals wholesale.
func (m *Memory) PutGoals(userID string, g profile.Goals) {
	u := m.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	m.persist(userID, "goals", g, m.saveGoals)
	cp := g.Clone()
	u.goals = &cp
	u.goalsLoaded = true
}

// GetGoals returns the user's current goals; false when none are stored.
func (m *Memory) GetGoals(userID string) (profile.Goals, bool) {
	u := m.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.goalsLoaded {
		u.goals = loadJSON[profile.Goals](m, userID, "goals", m.getGoals)
		u.goalsLoaded = true
	}
	if u.goals == nil {
		return profile.Goals{}, false
	}
	return u.goals.Clone(), true
}

// --- Interactions ---

// AppendInteraction records a completed or failed exchange. Missing ID and
// CreatedAt are filled in. The per-user history is bounded at
// storage.RetentionLimit entries; the oldest are evicted.
func (m *Memory) AppendInteraction(i storage.Interaction) storage.Interaction {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	if i.Status == "" {
		i.Status = "completed"
	}

	u := m.user(i.UserID)
	u.mu.Lock()
	defer u.mu.Unlock()

	m.loadInteractionsLocked(u, i.UserID)

	if m.durable != nil {
		if err := m.durable.SaveInteraction(i); err != nil {
			m.logger.Warn("durable interaction write failed, continuing with cache",
				"user_id", i.UserID, "error", err)
		}
	}

	u.interactions = append([]storage.Interaction{i}, u.interactions...)
	if len(u.interactions) > storage.RetentionLimit {
		u.interactions = u.interactions[:storage.RetentionLimit]
	}
	return i
}

// RecentInteractions returns up to limit interactions for the user, most
// recent first. Empty capability matches all; limit <= 0 means no extra cap
// beyond the retention bound.
func (m *Memory) RecentInteractions(userID, capability string, limit int) []storage.Interaction {
	u := m.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	m.loadInteractionsLocked(u, userID)

	var out []storage.Interaction
	for _, i := range u.interactions {
		if capability != "" && i.Capability != capability {
			continue
		}
		out = append(out, i)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (m *Memory) loadInteractionsLocked(u *userState, userID string) {
	if u.interactionsLoaded {
		return
	}
	u.interactionsLoaded = true
	if m.durable == nil {
		return
	}
	rows, err := m.durable.RecentInteractions(userID, "", storage.RetentionLimit)
	if err != nil {
		m.logger.Warn("durable interaction read failed, serving cache only",
			"user_id", userID, "error", err)
		return
	}
	u.interactions = rows
}

// --- durable plumbing ---

// persist marshals v and writes it through save, logging instead of
// returning on any failure.
func (m *Memory) persist(userID, family string, v any, save func(userID, payload string) error) {
	if m.durable == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		m.logger.Warn("encoding record failed, continuing with cache",
			"user_id", userID, "family", family, "error", err)
		return
	}
	if err := save(userID, string(payload)); err != nil {
		m.logger.Warn("durable write failed, continuing with cache",
			"user_id", userID, "family", family, "error", err)
	}
}

// loadJSON fetches and decodes one record. Absent records, read failures,
// and corrupt payloads all come back as nil (treated as "no data").
func loadJSON[T any](m *Memory, userID, family string, get func(userID string) (string, error)) *T {
	if m.durable == nil {
		return nil
	}
	payload, err := get(userID)
	if err != nil {
		if err != storage.ErrNotFound {
			m.logger.Warn("durable read failed, serving cache only",
				"user_id", userID, "family", family, "error", err)
		}
		return nil
	}
	var v T
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		m.logger.Warn("corrupt stored record, treating as absent",
			"user_id", userID, "family", family, "error", err)
		return nil
	}
	return &v
}

func (m *Memory) saveProfile(userID, payload string) error { return m.durable.SaveProfile(userID, payload) }
func (m *Memory) getProfile(userID string) (string, error) { return m.durable.GetProfile(userID) }
func (m *Memory) saveGoals(userID, payload string) error   { return m.durable.SaveGoals(userID, payload) }
func (m *Memory) getGoals(userID string) (string, error)   { return m.durable.GetGoals(userID) }
