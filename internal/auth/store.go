package auth

import "context"

// UserStore describes the user directory the engine collaborates with.
// Implementations must return ErrNotFound for missing users and
// ErrConflict for duplicate emails.
type UserStore interface {
	Insert(ctx context.Context, u *User) (int64, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	SetApproved(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	ListPending(ctx context.Context) ([]*User, error)
	List(ctx context.Context) ([]*User, error)
}
