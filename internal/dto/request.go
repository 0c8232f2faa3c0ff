package dto

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type AdminCreateUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type AdminUpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
	Password *string `json:"password"`
}

type ShareDownloadRequest struct {
	Password string `json:"password"`
}

type SendShareMailRequest struct {
	To     string   `json:"to" binding:"required"`
	Tokens []string `json:"tokens" binding:"required"`
}

type CreateUploadRequestRequest struct {
	Title     string   `json:"title" binding:"required"`
	Message   string   `json:"message"`
	Password  string   `json:"password"`
	ExpiresIn *int64   `json:"expires_in"`
	MaxFiles  *int     `json:"max_files"`
	MaxSizeMb *float64 `json:"max_size_mb"`
}

type SMTPSettingsRequest struct {
	SMTPHost   *string `json:"smtp_host"`
	SMTPPort   *int    `json:"smtp_port"`
	SMTPFrom   *string `json:"smtp_from"`
	SMTPUser   *string `json:"smtp_user"`
	SMTPPass   *string `json:"smtp_pass"`
	SMTPSecure *bool   `json:"smtp_secure"`
}

type AppNameRequest struct {
	AppName string `json:"app_name" binding:"required"`
}

type SiteURLRequest struct {
	SiteURL string `json:"site_url"`
}

type UploaderFieldsRequest struct {
	UploaderNameReq  *string `json:"uploader_name_req"`
	UploaderEmailReq *string `json:"uploader_email_req"`
	UploaderMsgReq   *string `json:"uploader_msg_req"`
}

type RegistrationPolicyRequest struct {
	AllowRegistration bool `json:"allow_registration"`
}
