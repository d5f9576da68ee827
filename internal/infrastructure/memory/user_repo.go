package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mentorhub/community-platform/services/auth-service/internal/domain"
)

// UserRepo is an in-memory auth.UserRepo used in dev mode and transport
// tests. Email uniqueness is serialized by the mutex, so a concurrent
// duplicate registration fails with the same conflict the DB would raise.
type UserRepo struct {
	mu      sync.Mutex
	byID    map[string]domain.User
	byEmail map[string]string // email -> id
}

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserRepo) GetByResetTokenHash(ctx context.Context, tokenHash string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.ResetTokenHash != "" && u.ResetTokenHash == tokenHash {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrResetTokenNotFound()
}

func (r *UserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[u.Email]; exists {
		return domain.User{}, domain.ErrEmailAlreadyExists()
	}
	r.byID[u.ID] = u
	r.byEmail[u.Email] = u.ID
	return u, nil
}

func (r *UserRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	return r.update(userID, func(u *domain.User) {
		u.PasswordHash = newHash
	})
}

func (r *UserRepo) SetResetToken(ctx context.Context, userID, tokenHash string, expiry time.Time) error {
	return r.update(userID, func(u *domain.User) {
		u.ResetTokenHash = tokenHash
		u.ResetTokenExpiry = expiry
	})
}

func (r *UserRepo) ClearResetToken(ctx context.Context, userID string) error {
	return r.update(userID, func(u *domain.User) {
		u.ResetTokenHash = ""
		u.ResetTokenExpiry = time.Time{}
	})
}

func (r *UserRepo) LockUser(ctx context.Context, userID string) error {
	return r.update(userID, func(u *domain.User) { u.Locked = true })
}

func (r *UserRepo) UnlockUser(ctx context.Context, userID string) error {
	return r.update(userID, func(u *domain.User) { u.Locked = false })
}

func (r *UserRepo) SetRole(ctx context.Context, userID string, role string) error {
	if !domain.IsValidRole(role) {
		return domain.ErrInvalidRole(role)
	}
	return r.update(userID, func(u *domain.User) { u.Role = role })
}

func (r *UserRepo) CountByRole(ctx context.Context, role string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, u := range r.byID {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *UserRepo) update(userID string, fn func(*domain.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	fn(&u)
	r.byID[userID] = u
	return nil
}
