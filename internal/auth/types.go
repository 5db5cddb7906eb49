package auth

import "time"

// User is an account in the directory. Approved stays false for
// student/teacher registrations until an admin flips it; admin accounts
// are pre-seeded as approved.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Approved     bool      `json:"is_approved"`
	CreatedAt    time.Time `json:"created_at"`
}
