package model

import "time"

// UploadRequest is a standing invitation for third parties to deposit files.
type UploadRequest struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Token string `gorm:"column:token;size:64;uniqueIndex;not null" json:"token"`

	Title   string `gorm:"column:title;size:255;not null" json:"title"`
	Message string `gorm:"column:message;type:text" json:"message"`

	OwnerID uint64 `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Owner   User   `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Password     string     `gorm:"column:pass_word;size:255;not null;default:''" json:"-"`
	ExpiresAt    *time.Time `gorm:"column:expires_at;index" json:"expires_at"`
	MaxFiles     *int       `gorm:"column:max_files" json:"max_files"`
	MaxSizeBytes *int64     `gorm:"column:max_size_bytes" json:"max_size_bytes"`

	Active bool `gorm:"column:active;not null;default:true" json:"active"`

	ReceivedFiles []ReceivedFile `gorm:"foreignKey:UploadRequestID" json:"received_files,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (UploadRequest) TableName() string {
	return "upload_request"
}

// HasPassword reports whether deposits require a password.
func (r *UploadRequest) HasPassword() bool {
	return r.Password != ""
}
