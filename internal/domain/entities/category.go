package entities

import "time"

// Category groups file records. FileCount tracks the number of live records
// referencing the category and moves in lock-step with file creation and
// deletion.
type Category struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	FileCount   int64     `json:"file_count"`
	CreatedAt   time.Time `json:"created_at"`
}
