package user

import (
	"errors"
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatalf("password stored in plaintext")
	}

	if !VerifyPassword("correct horse battery", hash) {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword("wrong password", hash) {
		t.Fatalf("wrong password accepted")
	}
}

func TestNewUserValidate(t *testing.T) {
	valid := NewUser{Username: "ivan", Role: RoleUser, Password: "longenough"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid user rejected: %v", err)
	}

	tests := []struct {
		name string
		in   NewUser
		want error
	}{
		{"short username", NewUser{Username: "ab", Role: RoleUser, Password: "longenough"}, ErrInvalidUsername},
		{"long username", NewUser{Username: strings.Repeat("a", 65), Role: RoleUser, Password: "longenough"}, ErrInvalidUsername},
		{"short password", NewUser{Username: "ivan", Role: RoleUser, Password: "short"}, ErrInvalidPassword},
		{"long password", NewUser{Username: "ivan", Role: RoleUser, Password: strings.Repeat("p", 65)}, ErrInvalidPassword},
		{"bad role", NewUser{Username: "ivan", Role: "root", Password: "longenough"}, ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.in.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleUser, RoleManager, RoleAdmin} {
		if !r.Valid() {
			t.Fatalf("role %q should be valid", r)
		}
	}
	if Role("superuser").Valid() {
		t.Fatalf("unknown role accepted")
	}
}
