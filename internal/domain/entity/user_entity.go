package entity

import (
	"time"
)

// Role is the authorization role assigned to a user.
type Role string

const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
		return true
	}
	return false
}

// User is the aggregate root for the account domain.
// Password holds a bcrypt hash and must never be serialized;
// PasswordResetToken holds a sha-256 digest of the plain reset token,
// never the plain value itself.
type User struct {
	ID                   string     `db:"id"`
	Name                 string     `db:"name"`
	Email                string     `db:"email"`
	Password             string     `db:"password" json:"-"`
	Role                 Role       `db:"role"`
	PasswordChangedAt    *time.Time `db:"password_changed_at" json:"-"`
	PasswordResetToken   *string    `db:"password_reset_token" json:"-"`
	PasswordResetExpires *time.Time `db:"password_reset_expires" json:"-"`
	Active               bool       `db:"active"`
	CreatedAt            time.Time  `db:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

// ChangedPasswordAfter reports whether the password was changed at or after
// the given token issue time. Comparison is at second granularity because
// JWT iat claims carry seconds.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Unix() >= issuedAt.Unix()
}
