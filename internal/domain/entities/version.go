package entities

import "time"

// VersionSnapshot is an immutable per-file version record. Version numbers
// for a file form a contiguous sequence starting at 1. History outlives the
// live file record: snapshots stay addressable after deletion.
type VersionSnapshot struct {
	FileID    uint64    `json:"file_id"`
	Version   int       `json:"version"`
	CID       string    `json:"cid"`
	UpdatedBy string    `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	Note      string    `json:"note"`
	Size      int64     `json:"size"`
}
