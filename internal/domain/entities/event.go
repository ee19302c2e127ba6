package entities

import "time"

// Action names the domain event emitted by a registry operation.
type Action string

const (
	ActionRegister Action = "register"
	ActionUpdate   Action = "update"
	ActionTransfer Action = "transfer"
	ActionDelete   Action = "delete"
	ActionLock     Action = "lock"
	ActionUnlock   Action = "unlock"
	ActionDownload Action = "download"
	ActionGrant    Action = "grant"
	ActionRevoke   Action = "revoke"
	ActionBackup   Action = "backup"
)

// Event is the single domain event emitted by a successful mutating
// operation. Events flow to the audit sink and are never read back by the
// core.
type Event struct {
	ID        string    `json:"id"`
	FileID    uint64    `json:"file_id"`
	Actor     string    `json:"actor"`
	Action    Action    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
