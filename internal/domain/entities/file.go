package entities

import "time"

// AccessLevel controls who may read a registered file.
type AccessLevel string

const (
	AccessPublic     AccessLevel = "public"
	AccessPrivate    AccessLevel = "private"
	AccessRestricted AccessLevel = "restricted"
)

// Valid reports whether the access level is one of the known values.
func (a AccessLevel) Valid() bool {
	switch a {
	case AccessPublic, AccessPrivate, AccessRestricted:
		return true
	}
	return false
}

// MaxTags is the maximum number of tags a file record may carry.
const MaxTags = 10

// FileRecord is the authoritative metadata record for a registered file.
// The record stores only a content-address reference; it never holds or
// verifies the content itself.
type FileRecord struct {
	ID            uint64      `json:"id"`
	FileName      string      `json:"file_name"`
	CID           string      `json:"cid"`
	UploadedBy    string      `json:"uploaded_by"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Size          int64       `json:"size"`
	ContentType   string      `json:"content_type"`
	Description   string      `json:"description"`
	AccessLevel   AccessLevel `json:"access_level"`
	DownloadCount int64       `json:"download_count"`
	Locked        bool        `json:"locked"`
	ExpiresAt     *time.Time  `json:"expires_at,omitempty"`
	CategoryID    uint64      `json:"category_id"`
	Tags          []string    `json:"tags,omitempty"`
	Checksum      string      `json:"checksum"`
	EncryptionKey string      `json:"encryption_key,omitempty"`
	Version       int         `json:"version"`
	License       string      `json:"license"`
}

// Expired reports whether the record carries an expiry time that has passed.
// Expiry is evaluated lazily at check time; expired records are never swept.
func (f *FileRecord) Expired(now time.Time) bool {
	return f.ExpiresAt != nil && !now.Before(*f.ExpiresAt)
}

// FileUpdate is a partial metadata edit. Nil fields are left untouched.
// The content address and size of a record are immutable after
// registration, so the update set deliberately has no fields for them.
type FileUpdate struct {
	FileName      *string      `json:"file_name,omitempty"`
	ContentType   *string      `json:"content_type,omitempty"`
	Description   *string      `json:"description,omitempty"`
	AccessLevel   *AccessLevel `json:"access_level,omitempty"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	Checksum      *string      `json:"checksum,omitempty"`
	EncryptionKey *string      `json:"encryption_key,omitempty"`
	License       *string      `json:"license,omitempty"`
	Note          string       `json:"note,omitempty"`
}

// Empty reports whether the update changes nothing.
func (u *FileUpdate) Empty() bool {
	return u.FileName == nil && u.ContentType == nil && u.Description == nil &&
		u.AccessLevel == nil && u.ExpiresAt == nil && u.Tags == nil &&
		u.Checksum == nil && u.EncryptionKey == nil && u.License == nil
}
