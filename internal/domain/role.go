package domain

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleMember = "member"
)

// CuratorRoles may write to the catalogue directly: run ingests and review
// submissions.
var CuratorRoles = []string{RoleAdmin, RoleEditor}
