package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/homage/internal/domain/token"
)

type TokensRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]token.Token
}

func NewTokensRepo() *TokensRepo {
	return &TokensRepo{
		items: make(map[int64]token.Token),
	}
}

func (r *TokensRepo) Create(_ context.Context, t token.Token) (token.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	t.ID = r.nextID
	r.items[t.ID] = t

	return t, nil
}

func (r *TokensRepo) GetByID(_ context.Context, id int64) (token.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]
	if !ok {
		return token.Token{}, token.ErrNotFound
	}

	return t, nil
}

func (r *TokensRepo) GetByHash(_ context.Context, hash string) (token.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.items {
		if t.TokenHash == hash {
			return t, nil
		}
	}

	return token.Token{}, token.ErrNotFound
}

func (r *TokensRepo) TouchLastUsed(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok {
		return token.ErrNotFound
	}

	t.LastUsedAt = &at
	r.items[id] = t

	return nil
}

func (r *TokensRepo) DeleteAllForUser(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, t := range r.items {
		if t.UserID == userID {
			delete(r.items, id)
			n++
		}
	}

	return n, nil
}

// CountForUser reports how many tokens userID currently holds.
func (r *TokensRepo) CountForUser(userID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, t := range r.items {
		if t.UserID == userID {
			n++
		}
	}

	return n
}
