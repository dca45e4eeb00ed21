package model

import "time"

// User represents an account in the `users` table. Handlers define their
// own response types, so no json tags are carried here.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique, stored lowercase)
	PasswordHash string    // users.password_hash (bcrypt)
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models a row in the `refresh_tokens` table. Only the SHA-256
// hash of the token is stored; the raw value goes back to the client once.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // hex SHA-256 of the raw token
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // nil while the token is still active
	CreatedAt time.Time  // refresh_tokens.created_at
}
