package model

import "time"

type Share struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Token string `gorm:"column:token;size:64;uniqueIndex;not null" json:"token"`

	FileID uint64 `gorm:"column:file_id;not null;index" json:"file_id"`
	File   File   `gorm:"foreignKey:FileID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Password     string     `gorm:"column:pass_word;size:255;not null;default:''" json:"-"`
	ExpiresAt    *time.Time `gorm:"column:expires_at;index" json:"expires_at"`
	MaxDownloads *int       `gorm:"column:max_downloads" json:"max_downloads"`
	Downloads    int        `gorm:"column:downloads;not null;default:0" json:"downloads"`

	Label string `gorm:"column:label;size:255;not null;default:''" json:"label"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Share) TableName() string {
	return "share"
}

// HasPassword reports whether the share is password gated.
func (s *Share) HasPassword() bool {
	return s.Password != ""
}
