package handler

import (
	"SendBay/internal/dto"
	"SendBay/internal/service"
	"SendBay/internal/storage"
	"SendBay/utils"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

var logoExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".svg":  true,
	".webp": true,
	".gif":  true,
}

// GetSettings returns the public settings. SMTP fields never serialize.
func GetSettings(c *gin.Context) {
	settings, err := service.GetSettings()
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, settings)
}

// GetSMTPSettings returns the SMTP configuration (admin only).
func GetSMTPSettings(c *gin.Context) {
	settings, err := service.GetSettings()
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, dto.SMTPSettingsResponse{
		SMTPHost:   settings.SMTPHost,
		SMTPPort:   settings.SMTPPort,
		SMTPFrom:   settings.SMTPFrom,
		SMTPUser:   settings.SMTPUser,
		SMTPPass:   settings.SMTPPass,
		SMTPSecure: settings.SMTPSecure,
	})
}

// UpdateSMTPSettings stores a partial SMTP configuration (admin only).
func UpdateSMTPSettings(c *gin.Context) {
	var req dto.SMTPSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid params")
		return
	}
	updates := make(map[string]interface{})
	if req.SMTPHost != nil {
		updates["smtp_host"] = strings.TrimSpace(*req.SMTPHost)
	}
	if req.SMTPPort != nil {
		updates["smtp_port"] = *req.SMTPPort
	}
	if req.SMTPFrom != nil {
		updates["smtp_from"] = strings.TrimSpace(*req.SMTPFrom)
	}
	if req.SMTPUser != nil {
		updates["smtp_user"] = *req.SMTPUser
	}
	if req.SMTPPass != nil {
		updates["smtp_pass"] = *req.SMTPPass
	}
	if req.SMTPSecure != nil {
		updates["smtp_secure"] = *req.SMTPSecure
	}
	if len(updates) == 0 {
		utils.Fail(c, http.StatusBadRequest, "nothing to update")
		return
	}
	settings, err := service.UpdateSettings(updates)
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, gin.H{"success": true, "smtp_host": settings.SMTPHost, "smtp_from": settings.SMTPFrom})
}

// TestSMTP probes the configured SMTP host over TCP (admin only).
func TestSMTP(c *gin.Context) {
	if err := service.TestSMTPConnection(); err != nil {
		if errors.Is(err, service.ErrSMTPUnavailable) {
			utils.Fail(c, http.StatusBadRequest, "smtp configuration incomplete")
			return
		}
		utils.Fail(c, http.StatusBadGateway, err.Error())
		return
	}
	utils.Success(c, gin.H{"success": true})
}

// UpdateAppName changes the application display name (admin only).
func UpdateAppName(c *gin.Context) {
	var req dto.AppNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid params")
		return
	}
	name := strings.TrimSpace(req.AppName)
	if name == "" {
		utils.Fail(c, http.StatusBadRequest, "invalid name")
		return
	}
	settings, err := service.UpdateSettings(map[string]interface{}{"app_name": name})
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, settings)
}

// UpdateSiteURL changes the public base URL used in share links (admin only).
func UpdateSiteURL(c *gin.Context) {
	var req dto.SiteURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid params")
		return
	}
	settings, err := service.UpdateSettings(map[string]interface{}{"site_url": strings.TrimSpace(req.SiteURL)})
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, gin.H{"site_url": settings.SiteURL})
}

// UpdateUploaderFields configures the deposit form field policies (admin only).
func UpdateUploaderFields(c *gin.Context) {
	var req dto.UploaderFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid params")
		return
	}
	updates := make(map[string]interface{})
	if req.UploaderNameReq != nil {
		if !service.ValidFieldPolicy(*req.UploaderNameReq) {
			utils.Fail(c, http.StatusBadRequest, "invalid field policy")
			return
		}
		updates["uploader_name_req"] = *req.UploaderNameReq
	}
	if req.UploaderEmailReq != nil {
		if !service.ValidFieldPolicy(*req.UploaderEmailReq) {
			utils.Fail(c, http.StatusBadRequest, "invalid field policy")
			return
		}
		updates["uploader_email_req"] = *req.UploaderEmailReq
	}
	if req.UploaderMsgReq != nil {
		if !service.ValidFieldPolicy(*req.UploaderMsgReq) {
			utils.Fail(c, http.StatusBadRequest, "invalid field policy")
			return
		}
		updates["uploader_msg_req"] = *req.UploaderMsgReq
	}
	if len(updates) == 0 {
		utils.Fail(c, http.StatusBadRequest, "nothing to update")
		return
	}
	settings, err := service.UpdateSettings(updates)
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, gin.H{
		"uploader_name_req":  settings.UploaderNameReq,
		"uploader_email_req": settings.UploaderEmailReq,
		"uploader_msg_req":   settings.UploaderMsgReq,
	})
}

// UpdateRegistrationPolicy toggles open registration (admin only).
func UpdateRegistrationPolicy(c *gin.Context) {
	var req dto.RegistrationPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid params")
		return
	}
	settings, err := service.UpdateSettings(map[string]interface{}{"allow_registration": req.AllowRegistration})
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, gin.H{"allow_registration": settings.AllowRegistration})
}

// UploadLogo replaces the application logo (admin only).
func UploadLogo(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "no file received")
		return
	}
	ext := strings.ToLower(path.Ext(header.Filename))
	if !logoExtensions[ext] {
		utils.Fail(c, http.StatusBadRequest, "unsupported image format")
		return
	}

	settings, err := service.GetSettings()
	if err != nil {
		FailService(c, err)
		return
	}
	if settings.LogoURL != "" {
		old := strings.TrimPrefix(settings.LogoURL, "/uploads/")
		_ = storage.Default.Delete(c.Request.Context(), old)
	}

	src, err := header.Open()
	if err != nil {
		FailService(c, err)
		return
	}
	defer src.Close()

	blobPath := "logos/" + utils.NewBlobName(ext)
	if _, err := storage.Default.Save(c.Request.Context(), blobPath, src); err != nil {
		FailService(c, err)
		return
	}
	updated, err := service.UpdateSettings(map[string]interface{}{"logo_url": "/uploads/" + blobPath})
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, updated)
}

// DeleteLogo removes the application logo (admin only).
func DeleteLogo(c *gin.Context) {
	settings, err := service.GetSettings()
	if err != nil {
		FailService(c, err)
		return
	}
	if settings.LogoURL != "" {
		old := strings.TrimPrefix(settings.LogoURL, "/uploads/")
		_ = storage.Default.Delete(c.Request.Context(), old)
	}
	updated, err := service.UpdateSettings(map[string]interface{}{"logo_url": ""})
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, updated)
}
