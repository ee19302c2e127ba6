package entities

import "time"

// BackupCopy is a bookkeeping entry for a secondary copy of a file's
// content, keyed by (file id, backup id). The registry records and
// verifies copies; it never moves content itself. Backup entries sit
// outside the quota/category invariant set.
type BackupCopy struct {
	FileID     uint64     `json:"file_id"`
	BackupID   string     `json:"backup_id"`
	Location   string     `json:"location"`
	Checksum   string     `json:"checksum"`
	CreatedBy  string     `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

// Verified reports whether the copy has passed a verification check.
func (b *BackupCopy) Verified() bool {
	return b.VerifiedAt != nil
}
