package entities

import "time"

// Quota is the per-identity storage accounting record. UsedBytes always
// equals the sum of sizes of files currently owned by the identity; it is
// maintained by paired reserve/release calls, never by recomputation.
type Quota struct {
	Identity  string    `json:"identity"`
	UsedBytes int64     `json:"used_bytes"`
	MaxBytes  int64     `json:"max_bytes"`
	FileCount int64     `json:"file_count"`
	MaxFiles  int64     `json:"max_files"`
	UpdatedAt time.Time `json:"updated_at"`
}
