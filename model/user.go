package model

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID uint64 `gorm:"primaryKey" json:"id"`

	Email string `gorm:"column:email;type:varchar(255);not null;unique" json:"email"`
	Name  string `gorm:"column:name;type:varchar(100);not null" json:"name"`

	Password string `gorm:"column:pass_word;type:varchar(255);not null" json:"-"`

	Role     string `gorm:"column:role;type:varchar(16);not null;default:'USER'" json:"role"`
	IsActive bool   `gorm:"column:is_active;not null;default:true" json:"is_active"`

	AvatarURL string `gorm:"column:avatar_url;type:varchar(512);not null;default:''" json:"avatar_url"`

	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `gorm:"column:last_login_at" json:"last_login_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "user_db"
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
