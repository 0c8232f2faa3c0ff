package dto

import "time"

// UserResponse is the public shape of an account.
type UserResponse struct {
	ID          uint64     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	AvatarURL   string     `json:"avatar_url"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type SetupResponse struct {
	SetupNeeded bool `json:"setup_needed"`
}

// UploadedFileResponse is returned for each file of an upload batch.
type UploadedFileResponse struct {
	ID           uint64     `json:"id"`
	OriginalName string     `json:"original_name"`
	MimeType     string     `json:"mime_type"`
	Size         int64      `json:"size"`
	ExpiresAt    *time.Time `json:"expires_at"`
	ShareToken   string     `json:"share_token"`
}

// ShareInfoResponse is the public metadata of a share link. Serving it does
// not consume a download.
type ShareInfoResponse struct {
	Token        string     `json:"token"`
	Label        string     `json:"label"`
	Filename     string     `json:"filename"`
	MimeType     string     `json:"mime_type"`
	Size         int64      `json:"size"`
	ExpiresAt    *time.Time `json:"expires_at"`
	HasPassword  bool       `json:"has_password"`
	Downloads    int        `json:"downloads"`
	MaxDownloads *int       `json:"max_downloads"`
}

// UploadRequestInfoResponse is the public metadata of a deposit link.
type UploadRequestInfoResponse struct {
	Token        string     `json:"token"`
	Title        string     `json:"title"`
	Message      string     `json:"message"`
	ExpiresAt    *time.Time `json:"expires_at"`
	HasPassword  bool       `json:"has_password"`
	MaxFiles     *int       `json:"max_files"`
	MaxSizeBytes *int64     `json:"max_size_bytes"`
}

// DepositedFileResponse is returned for each file of a deposit batch.
type DepositedFileResponse struct {
	ID           uint64 `json:"id"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
}

// OwnerSummary identifies the owning account in admin listings.
type OwnerSummary struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SMTPSettingsResponse exposes the SMTP config to administrators.
type SMTPSettingsResponse struct {
	SMTPHost   string `json:"smtp_host"`
	SMTPPort   int    `json:"smtp_port"`
	SMTPFrom   string `json:"smtp_from"`
	SMTPUser   string `json:"smtp_user"`
	SMTPPass   string `json:"smtp_pass"`
	SMTPSecure bool   `json:"smtp_secure"`
}
