package model

import "time"

// Account roles.  CLIENT is a consumer browsing and reserving bags;
// EMPLOYEE operates a food shop.  The role is embedded in the JWT and
// checked by middleware.
const (
	RoleClient   = "CLIENT"
	RoleEmployee = "EMPLOYEE"
)

// User represents a row in the `users` table.  Profile data (name, phone,
// picture) lives in the clients/employees tables keyed by user id; this
// struct covers only identity and credentials.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address, stored lower-cased.
//  PasswordHash – bcrypt hashed password.
//  Role         – CLIENT or EMPLOYEE.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// Profile holds the per-role profile row from the clients or employees
// table.  Both tables share the same shape so a single struct serves both.
type Profile struct {
	UserID    uint64    // clients.user_id / employees.user_id
	FullName  string    // full_name
	Phone     string    // phone (optional, empty when unset)
	ImageURL  string    // image_url (optional)
	CreatedAt time.Time // created_at
	UpdatedAt time.Time // updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token value is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
