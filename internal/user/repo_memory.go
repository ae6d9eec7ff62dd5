package user

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory repository for tests and early development.
// Not intended for production.
type MemoryRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]User
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{nextID: 1, users: map[int64]User{}}
}

func (r *MemoryRepo) FindByEmail(ctx context.Context, email string) (User, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, true, nil
		}
	}
	return User{}, false, nil
}

func (r *MemoryRepo) FindByID(ctx context.Context, id int64) (User, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	return u, ok, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]User, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryRepo) Create(ctx context.Context, u User) (User, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u
	return u, nil
}

func (r *MemoryRepo) UpdateRole(ctx context.Context, id int64, role string) (User, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, false, nil
	}
	u.Role = role
	r.users[id] = u
	return u, true, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, id int64, status string) (User, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, false, nil
	}
	u.Status = status
	r.users[id] = u
	return u, true, nil
}
