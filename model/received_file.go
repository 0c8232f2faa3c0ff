package model

import "time"

// ReceivedFile is a file deposited against an upload request.
type ReceivedFile struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	UploadRequestID uint64        `gorm:"column:upload_request_id;not null;index" json:"upload_request_id"`
	UploadRequest   UploadRequest `gorm:"foreignKey:UploadRequestID;references:ID;constraint:OnDelete:CASCADE" json:"-"`

	Filename     string `gorm:"column:filename;size:255;not null" json:"filename"`
	OriginalName string `gorm:"column:original_name;size:255;not null" json:"original_name"`
	MimeType     string `gorm:"column:mime_type;size:128;not null" json:"mime_type"`
	Size         int64  `gorm:"column:size;not null" json:"size"`
	Path         string `gorm:"column:path;size:512;not null" json:"-"`

	UploaderName  string `gorm:"column:uploader_name;size:255;not null;default:''" json:"uploader_name"`
	UploaderEmail string `gorm:"column:uploader_email;size:255;not null;default:''" json:"uploader_email"`
	Message       string `gorm:"column:message;type:text" json:"message"`

	CreatedAt time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

// TableName returns the database table name.
func (ReceivedFile) TableName() string {
	return "received_file"
}
