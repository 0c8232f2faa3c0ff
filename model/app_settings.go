package model

import "time"

// Deposit form field policies.
const (
	FieldHidden   = "hidden"
	FieldOptional = "optional"
	FieldRequired = "required"
)

// SettingsID is the primary key of the single settings row.
const SettingsID = "singleton"

type AppSettings struct {
	ID string `gorm:"primaryKey;size:16" json:"id"`

	AppName string `gorm:"column:app_name;size:100;not null;default:'SendBay'" json:"app_name"`
	LogoURL string `gorm:"column:logo_url;size:512;not null;default:''" json:"logo_url"`
	SiteURL string `gorm:"column:site_url;size:512;not null;default:''" json:"site_url"`

	SMTPHost   string `gorm:"column:smtp_host;size:255;not null;default:''" json:"-"`
	SMTPPort   int    `gorm:"column:smtp_port;not null;default:587" json:"-"`
	SMTPFrom   string `gorm:"column:smtp_from;size:255;not null;default:''" json:"-"`
	SMTPUser   string `gorm:"column:smtp_user;size:255;not null;default:''" json:"-"`
	SMTPPass   string `gorm:"column:smtp_pass;size:255;not null;default:''" json:"-"`
	SMTPSecure bool   `gorm:"column:smtp_secure;not null;default:true" json:"-"`

	AllowRegistration bool `gorm:"column:allow_registration;not null;default:false" json:"allow_registration"`

	UploaderNameReq  string `gorm:"column:uploader_name_req;size:16;not null;default:'optional'" json:"uploader_name_req"`
	UploaderEmailReq string `gorm:"column:uploader_email_req;size:16;not null;default:'optional'" json:"uploader_email_req"`
	UploaderMsgReq   string `gorm:"column:uploader_msg_req;size:16;not null;default:'optional'" json:"uploader_msg_req"`

	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name.
func (AppSettings) TableName() string {
	return "app_settings"
}

// SMTPConfigured reports whether outgoing mail can be sent.
func (s *AppSettings) SMTPConfigured() bool {
	return s.SMTPHost != "" && s.SMTPFrom != ""
}
