package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"payswitch/internal/domain"
	"payswitch/internal/repository"
)

type userRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*domain.User
	byPhone map[string]uuid.UUID
}

func NewUserRepository() repository.UserRepository {
	return &userRepository{
		byID:    make(map[uuid.UUID]*domain.User),
		byPhone: make(map[string]uuid.UUID),
	}
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[user.ID] = user
	if user.Phone != "" {
		r.byPhone[user.Phone] = user.ID
	}
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepository) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byPhone[phone]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.byID[id], nil
}

func (r *userRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, *u)
	}
	return users, nil
}
