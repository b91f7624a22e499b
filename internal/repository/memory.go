package repository

import (
	"context"
	"sync"

	"lunchbot/internal/model"
)

// MemoryRepository хранит состояния в памяти процесса. Используется в тестах
// и при локальном запуске без настроенного Supabase.
type MemoryRepository struct {
	mu     sync.RWMutex
	states map[int64]*model.UserState
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		states: make(map[int64]*model.UserState),
	}
}

func (r *MemoryRepository) LoadState(_ context.Context, userID int64) (*model.UserState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[userID]
	if !ok {
		return model.NewUserState(userID), nil
	}
	return state.Clone(), nil
}

func (r *MemoryRepository) SaveState(_ context.Context, state *model.UserState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[state.UserID] = state.Clone()
	return nil
}

func (r *MemoryRepository) DeleteState(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.states, userID)
	return nil
}
