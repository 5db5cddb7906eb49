package auth

import "errors"

var (
	ErrNotFound           = errors.New("auth: not found")
	ErrConflict           = errors.New("auth: already exists")
	ErrInvalidInput       = errors.New("auth: invalid input")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrPendingApproval    = errors.New("auth: account pending approval")
)

// ErrInvalidToken indicates the credential failed verification. Any
// failure mode (malformed, bad signature, expired) collapses into this
// single rejection; callers never learn a partial identity.
var ErrInvalidToken = errors.New("auth: invalid token")
