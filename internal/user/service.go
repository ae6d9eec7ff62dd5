package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"hydrogen-dashboard/internal/rbac"

	"golang.org/x/crypto/bcrypt"
)

// Repository abstracts user persistence.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (User, bool, error)
	FindByID(ctx context.Context, id int64) (User, bool, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, u User) (User, error)
	UpdateRole(ctx context.Context, id int64, role string) (User, bool, error)
	UpdateStatus(ctx context.Context, id int64, status string) (User, bool, error)
}

var (
	ErrInvalidCredentials = errors.New("user: invalid credentials")
	ErrNotFound           = errors.New("user: not found")
	ErrEmailTaken         = errors.New("user: email already registered")
	ErrNotActive          = errors.New("user: account not active")
	ErrInvalidRole        = errors.New("user: invalid role")
	ErrInvalidStatus      = errors.New("user: invalid status")
	ErrInvalidRequest     = errors.New("user: invalid request")
)

// Service implements account flows: login, registration requests, and the
// supervisor-only role/status administration.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// Login checks credentials and account status.
// Credential and existence failures are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	u, ok, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	if u.Status != StatusActive {
		return User{}, ErrNotActive
	}
	return u, nil
}

type RegisterRequest struct {
	Email    string
	Password string
	Name     string
	OrgID    int64
}

// Register files a join request. The account starts INVITED and cannot log
// in until a supervisor activates it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || len(req.Password) < 8 || strings.TrimSpace(req.Name) == "" {
		return User{}, ErrInvalidRequest
	}

	if _, exists, err := s.repo.FindByEmail(ctx, email); err != nil {
		return User{}, err
	} else if exists {
		return User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	now := s.clock().UTC()
	return s.repo.Create(ctx, User{
		OrgID:        req.OrgID,
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Role:         rbac.RoleUser,
		Status:       StatusInvited,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

func (s *Service) GetByID(ctx context.Context, id int64) (User, error) {
	u, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdateRole(ctx context.Context, id int64, role string) (User, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if !rbac.IsKnown(role) {
		return User{}, ErrInvalidRole
	}
	u, ok, err := s.repo.UpdateRole(ctx, id, role)
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (User, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !validStatus(status) {
		return User{}, ErrInvalidStatus
	}
	u, ok, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return User{}, err
	}
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}
