package domain

import (
	"strings"

	"github.com/google/uuid"
)

// User is the authenticated principal as asserted by the auth collaborator.
// Accounts themselves live outside this service.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Roles []string  `json:"roles,omitempty"`
}

func (u *User) HasRole(names ...string) bool {
	if u == nil {
		return false
	}
	for _, role := range u.Roles {
		for _, name := range names {
			if strings.EqualFold(strings.TrimSpace(role), name) {
				return true
			}
		}
	}
	return false
}

func (u *User) IsCurator() bool {
	return u.HasRole(CuratorRoles...)
}
