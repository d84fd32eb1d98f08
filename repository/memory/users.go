package memory

import (
	"context"
	"errors"
	"sync"

	"wellbeing/model"
)

type InMemoryUserRepo struct {
	items map[string]model.User
	mu    sync.RWMutex
}

func NewUserRepo() *InMemoryUserRepo {
	return &InMemoryUserRepo{items: make(map[string]model.User)}
}

func (r *InMemoryUserRepo) AddUser(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.UserID == "" {
		return errors.New("user id required")
	}
	for _, u := range r.items {
		if u.Email == user.Email || u.Username == user.Username {
			return errors.New("duplicate user")
		}
	}
	r.items[user.UserID] = *user
	return nil
}

func (r *InMemoryUserRepo) find(match func(model.User) bool) *model.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if match(u) {
			found := u
			return &found
		}
	}
	return nil
}

func (r *InMemoryUserRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.UserID == userID }), nil
}

func (r *InMemoryUserRepo) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email }), nil
}

func (r *InMemoryUserRepo) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Username == username }), nil
}

func (r *InMemoryUserRepo) update(userID string, apply func(*model.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[userID]
	if !ok {
		return errors.New("user not found")
	}
	apply(&u)
	r.items[userID] = u
	return nil
}

func (r *InMemoryUserRepo) UpdateProfile(ctx context.Context, userID, username, email string) error {
	return r.update(userID, func(u *model.User) {
		u.Username = username
		u.Email = email
	})
}

func (r *InMemoryUserRepo) SaveCalibration(ctx context.Context, userID string, threshold float64) error {
	return r.update(userID, func(u *model.User) {
		u.CalibrationThreshold = threshold
		u.IsCalibrated = true
	})
}

func (r *InMemoryUserRepo) SetTwoFactor(ctx context.Context, userID, secret string, enabled bool) error {
	return r.update(userID, func(u *model.User) {
		u.TwoFactorSecret = secret
		u.TwoFactorEnabled = enabled
	})
}
