package types

import "time"

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterFileRequest represents the payload for registering a file record
type RegisterFileRequest struct {
	FileName      string     `json:"file_name" binding:"required"`
	CID           string     `json:"cid" binding:"required"`
	Size          int64      `json:"size" binding:"required"`
	ContentType   string     `json:"content_type"`
	Description   string     `json:"description"`
	AccessLevel   string     `json:"access_level"`
	CategoryID    uint64     `json:"category_id"`
	Tags          []string   `json:"tags"`
	Checksum      string     `json:"checksum"`
	EncryptionKey string     `json:"encryption_key"`
	License       string     `json:"license"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

// UpdateFileRequest represents a partial metadata edit
type UpdateFileRequest struct {
	FileName      *string    `json:"file_name"`
	ContentType   *string    `json:"content_type"`
	Description   *string    `json:"description"`
	AccessLevel   *string    `json:"access_level"`
	ExpiresAt     *time.Time `json:"expires_at"`
	Tags          []string   `json:"tags"`
	Checksum      *string    `json:"checksum"`
	EncryptionKey *string    `json:"encryption_key"`
	License       *string    `json:"license"`
	Note          string     `json:"note"`
}

// TransferRequest represents an ownership transfer
type TransferRequest struct {
	NewOwner string `json:"new_owner" binding:"required"`
}

// GrantRequest represents a permission delegation
type GrantRequest struct {
	Grantee   string     `json:"grantee" binding:"required"`
	Level     string     `json:"level" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// RevokeRequest removes a delegated permission
type RevokeRequest struct {
	Grantee string `json:"grantee" binding:"required"`
}

// CreateCategoryRequest represents a new category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateBackupRequest records an external copy of a file
type CreateBackupRequest struct {
	Location string `json:"location" binding:"required"`
	Checksum string `json:"checksum"`
}

// DownloadResponse carries the content address resolved by a download
type DownloadResponse struct {
	CID string `json:"cid"`
}

// CheckAccessResponse answers an authorization query
type CheckAccessResponse struct {
	Allowed bool `json:"allowed"`
}

// PauseRequest flips the administrative pause switch
type PauseRequest struct {
	Paused bool `json:"paused"`
}

// FeeRequest updates the registration fee
type FeeRequest struct {
	Amount int64 `json:"amount"`
}

// MaxFileSizeRequest updates the single-file size ceiling
type MaxFileSizeRequest struct {
	Bytes int64 `json:"bytes"`
}
