package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service owns registration, login and account activation on top of the
// user directory and the token codec.
type Service struct {
	users UserStore
	codec *Codec
	now   func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithServiceClock overrides the time source (useful for tests).
func WithServiceClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the account service.
func NewService(users UserStore, codec *Codec, opts ...ServiceOption) (*Service, error) {
	if users == nil {
		return nil, errors.New("auth: user store is required")
	}
	if codec == nil {
		return nil, errors.New("auth: token codec is required")
	}
	svc := &Service{users: users, codec: codec, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Register creates an unapproved student or teacher account. Admin
// accounts are pre-seeded and cannot be registered through this path.
func (s *Service) Register(ctx context.Context, name, email, password, rawRole string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	role, ok := ParseRole(rawRole)
	if !ok || role == RoleAdmin {
		return nil, fmt.Errorf("%w: role must be student or teacher", ErrInvalidInput)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Approved:     false,
		CreatedAt:    s.now().UTC(),
	}
	id, err := s.users.Insert(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = id
	return user, nil
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// Login authenticates credentials and issues a session credential. The
// activation gate runs before the password ever matters: an unapproved
// account is denied no matter what was typed. Once issued, a credential
// stays valid until expiry; approval is not re-checked per request.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Approved {
		return nil, ErrPendingApproval
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.codec.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// CurrentUser loads the directory record behind a verified identity.
func (s *Service) CurrentUser(ctx context.Context, identity Identity) (*User, error) {
	return s.users.FindByID(ctx, identity.UserID)
}

// Approve flips the activation gate for a pending account. Only admins
// reach this path; there is no self-approval.
func (s *Service) Approve(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.users.SetApproved(ctx, userID)
}

// PendingUsers lists accounts waiting for activation.
func (s *Service) PendingUsers(ctx context.Context) ([]*User, error) {
	return s.users.ListPending(ctx)
}

// Users lists every account in the directory.
func (s *Service) Users(ctx context.Context) ([]*User, error) {
	return s.users.List(ctx)
}

// DeleteUser removes an account. Dependent rows cascade in the store.
func (s *Service) DeleteUser(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.users.Delete(ctx, userID)
}
