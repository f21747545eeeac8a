package user

import (
	"time"
)

// Role is the closed set of account roles. The role travels inside the signed
// token, so authorization decisions are made without re-reading the store.
type Role string

const (
	RoleDoctor  Role = "Doctor"
	RolePatient Role = "Patient"
	RoleAdmin   Role = "Admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleDoctor, RolePatient, RoleAdmin:
		return true
	}
	return false
}

// User is the identity record for the platform. PasswordHash is empty exactly
// when the account was provisioned through a federated login (GoogleID set).
// Phone and NationalID are nullable so federated accounts, which arrive
// without either, do not collide on the unique constraints. ResetTokenHash
// and ResetTokenExpiry are both set or both absent.
type User struct {
	ID              string     `db:"id"`
	FullName        string     `db:"full_name"`
	Username        string     `db:"username"`
	Email           string     `db:"email"`
	Phone           *string    `db:"phone"`
	NationalID      *string    `db:"national_id"`
	PasswordHash    string     `db:"password_hash"`
	Role            Role       `db:"role"`
	Verified        bool       `db:"verified"`
	GoogleID        *string    `db:"google_id"`
	ResetTokenHash  *string    `db:"reset_token_hash"`
	ResetTokenExpiry *time.Time `db:"reset_token_expiry"`
	LastLogoutAt    *time.Time `db:"last_logout_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// VerificationCode is the single-use, time-boxed one-time code issued to a
// user. The table holds at most one row per user: issuing a new code replaces
// the previous one atomically, which is what makes the at-most-one-active
// invariant hold under concurrent issuance.
type VerificationCode struct {
	UserID      string    `db:"user_id"`
	CodeHash    string    `db:"code_hash"`
	Attempts    int       `db:"attempts"`
	MaxAttempts int       `db:"max_attempts"`
	LastSentAt  time.Time `db:"last_sent_at"`
	ExpiresAt   time.Time `db:"expires_at"`
	CreatedAt   time.Time `db:"created_at"`
}

// OAuthState is the persisted CSRF state + PKCE verifier for an in-flight
// federated login.
type OAuthState struct {
	State     string    `db:"state"`
	Provider  string    `db:"provider"`
	Verifier  string    `db:"verifier"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}
