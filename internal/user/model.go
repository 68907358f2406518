package user

import "errors"

type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

var (
	ErrNotFound        = errors.New("user not found")
	ErrInvalidUsername = errors.New("username must be 3-64 characters")
	ErrInvalidPassword = errors.New("password must be 8-64 characters")
	ErrInvalidRole     = errors.New("unknown role")
	ErrUsernameTaken   = errors.New("username already taken")
)

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
}

// NewUser carries a user creation request; the plaintext password is hashed
// before it ever reaches storage.
type NewUser struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	Password string `json:"password"`
}

func (n NewUser) Validate() error {
	if len(n.Username) < 3 || len(n.Username) > 64 {
		return ErrInvalidUsername
	}
	if len(n.Password) < 8 || len(n.Password) > 64 {
		return ErrInvalidPassword
	}
	if !n.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}
