package model

import "time"

type File struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	OwnerID uint64 `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Owner   User   `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Filename     string `gorm:"column:filename;size:255;not null" json:"filename"`
	OriginalName string `gorm:"column:original_name;size:255;not null" json:"original_name"`
	MimeType     string `gorm:"column:mime_type;size:128;not null" json:"mime_type"`
	Size         int64  `gorm:"column:size;not null" json:"size"`
	Path         string `gorm:"column:path;size:512;not null" json:"-"`

	Password     string     `gorm:"column:pass_word;size:255;not null;default:''" json:"-"`
	ExpiresAt    *time.Time `gorm:"column:expires_at;index" json:"expires_at"`
	MaxDownloads *int       `gorm:"column:max_downloads" json:"max_downloads"`
	Downloads    int        `gorm:"column:downloads;not null;default:0" json:"downloads"`

	Shares []Share `gorm:"foreignKey:FileID" json:"shares,omitempty"`

	CreatedAt time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

// TableName returns the database table name.
func (File) TableName() string {
	return "file"
}
