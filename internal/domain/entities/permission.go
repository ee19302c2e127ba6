package entities

import "time"

// PermissionLevel is the strength of a delegated grant.
type PermissionLevel string

const (
	PermissionRead  PermissionLevel = "read"
	PermissionWrite PermissionLevel = "write"
	PermissionAdmin PermissionLevel = "admin"
)

// Valid reports whether the permission level is one of the known values.
func (p PermissionLevel) Valid() bool {
	switch p {
	case PermissionRead, PermissionWrite, PermissionAdmin:
		return true
	}
	return false
}

// Grant is a time-bounded delegation of access to a file for one identity.
// Absence of a grant means no delegated access; the owner always has
// implicit admin-equivalent access without any grant.
type Grant struct {
	FileID    uint64          `json:"file_id"`
	Grantee   string          `json:"grantee"`
	Level     PermissionLevel `json:"level"`
	GrantedBy string          `json:"granted_by"`
	GrantedAt time.Time       `json:"granted_at"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

// Active reports whether the grant is still in force at the given time.
// An expired grant is treated as absent but is never proactively deleted.
func (g *Grant) Active(now time.Time) bool {
	return g.ExpiresAt == nil || now.Before(*g.ExpiresAt)
}

// Allows reports whether the grant satisfies the required level.
// A grant matches its own level exactly; admin satisfies everything.
func (g *Grant) Allows(required PermissionLevel) bool {
	return g.Level == required || g.Level == PermissionAdmin
}
