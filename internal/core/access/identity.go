package access

import (
	"fmt"
	"strings"
)

// Role is the authorization class of the caller.
type Role string

const (
	RolePrivileged Role = "privileged"
	RoleStandard   Role = "standard"
	RolePeer       Role = "peer"
)

func (r Role) Valid() bool {
	switch r {
	case RolePrivileged, RoleStandard, RolePeer:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Identity is the resolved caller for a single request. SubjectID is the
// account id the bearer token was issued for.
type Identity struct {
	SubjectID int64
	Role      Role
}

func (i Identity) IsPrivileged() bool {
	return i.Role == RolePrivileged
}
