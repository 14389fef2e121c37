package game

import (
	"context"
	"log"
	"sync"

	"github.com/cindyyylam/mj-quizarium/internal/models"
)

type SessionStore interface {
	Get(ctx context.Context, chatID int64) (*models.ChatState, error)
	Upsert(ctx context.Context, st *models.ChatState) error
}

// SessionManager owns each chat's game state. The in-memory cache is the
// source of truth; the store is a best-effort mirror for restarts.
type SessionManager struct {
	store SessionStore

	mu    sync.RWMutex
	cache map[int64]models.GameState
}

func NewSessionManager(store SessionStore) *SessionManager {
	return &SessionManager{
		store: store,
		cache: make(map[int64]models.GameState),
	}
}

// GetState never persists anything: a chat unknown to the store reads as
// GameNotInPlay until its first transition.
func (m *SessionManager) GetState(ctx context.Context, chatID int64) models.GameState {
	m.mu.RLock()
	state, ok := m.cache[chatID]
	m.mu.RUnlock()
	if ok {
		return state
	}

	st, err := m.store.Get(ctx, chatID)
	if err != nil {
		log.Printf("[session] load chat %d: %v", chatID, err)
		return models.GameNotInPlay
	}

	state = models.GameNotInPlay
	if st != nil && st.GameState.Valid() {
		state = st.GameState
	}

	m.mu.Lock()
	if cached, ok := m.cache[chatID]; ok {
		state = cached
	} else {
		m.cache[chatID] = state
	}
	m.mu.Unlock()
	return state
}

// Transition updates the cache and upserts the durable record. A failed write
// is logged and the in-memory state stands.
func (m *SessionManager) Transition(ctx context.Context, chatID int64, state models.GameState) {
	m.mu.Lock()
	m.cache[chatID] = state
	m.mu.Unlock()

	if err := m.store.Upsert(ctx, &models.ChatState{ChatID: chatID, GameState: state}); err != nil {
		log.Printf("[session] persist chat %d -> %s: %v", chatID, state, err)
	}
}
