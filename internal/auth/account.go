package auth

import (
	"fmt"

	"github.com/frahmantamala/hr-records/internal/core/access"
	"golang.org/x/crypto/bcrypt"
)

// Stored account roles. They are mapped onto access roles when an identity
// is resolved.
const (
	StoredRoleManager  = "manager"
	StoredRoleEmployee = "employee"
	StoredRoleCoworker = "coworker"
)

var StoredRoles = []string{StoredRoleManager, StoredRoleEmployee, StoredRoleCoworker}

type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}

// AccessRole maps a stored role onto the authorization role.
func AccessRole(stored string) (access.Role, error) {
	switch stored {
	case StoredRoleManager:
		return access.RolePrivileged, nil
	case StoredRoleEmployee:
		return access.RoleStandard, nil
	case StoredRoleCoworker:
		return access.RolePeer, nil
	}
	return "", fmt.Errorf("unknown stored role %q", stored)
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
