package handler

import (
	"SendBay/internal/dto"
	"SendBay/internal/service"
	"SendBay/internal/storage"
	"SendBay/model"
	"SendBay/utils"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

var avatarExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".gif":  true,
}

func userResponse(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        user.Role,
		IsActive:    user.IsActive,
		AvatarURL:   user.AvatarURL,
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}

// Setup reports whether the first account still has to be created.
func Setup(c *gin.Context) {
	count, err := service.CountUsers()
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, dto.SetupResponse{SetupNeeded: count == 0})
}

// Login authenticates a user and returns a signed token.
func Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid params")
		return
	}
	user, err := service.Authenticate(req.Email, req.Password)
	if err != nil {
		FailService(c, err)
		return
	}
	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, dto.LoginResponse{Token: token, User: userResponse(user)})
}

// Register creates an account. The very first account may always be
// created and becomes the admin; afterwards registration requires an admin
// caller or the open-registration setting.
func Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid params")
		return
	}

	count, err := service.CountUsers()
	if err != nil {
		FailService(c, err)
		return
	}

	callerIsAdmin := false
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if claims, err := utils.VerifyToken(strings.TrimPrefix(auth, "Bearer ")); err == nil {
			callerIsAdmin = claims.Role == model.RoleAdmin
		}
	}

	if count > 0 && !callerIsAdmin {
		settings, err := service.GetSettings()
		if err != nil {
			FailService(c, err)
			return
		}
		if !settings.AllowRegistration {
			utils.Fail(c, http.StatusForbidden, "registration disabled")
			return
		}
	}

	role := req.Role
	if !callerIsAdmin {
		role = model.RoleUser
	}
	user, err := service.CreateUser(req.Email, req.Name, req.Password, role)
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Created(c, userResponse(user))
}

// Me returns the authenticated account.
func Me(c *gin.Context) {
	user, err := service.GetUserByID(utils.CurrentUserID(c))
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, userResponse(user))
}

// UpdateProfile changes the caller's display name.
func UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid params")
		return
	}
	user, err := service.UpdateProfile(utils.CurrentUserID(c), req.Name)
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, userResponse(user))
}

// ChangePassword verifies the current password and sets a new one.
func ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid params")
		return
	}
	if err := service.ChangePassword(utils.CurrentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		if err == service.ErrPasswordInvalid {
			utils.Fail(c, http.StatusBadRequest, "current password incorrect")
			return
		}
		FailService(c, err)
		return
	}
	utils.Success(c, gin.H{"success": true})
}

// UploadAvatar stores a new avatar image for the caller.
func UploadAvatar(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "no file received")
		return
	}
	ext := strings.ToLower(path.Ext(header.Filename))
	if !avatarExtensions[ext] {
		utils.Fail(c, http.StatusBadRequest, "unsupported image format")
		return
	}

	src, err := header.Open()
	if err != nil {
		FailService(c, err)
		return
	}
	defer src.Close()

	blobPath := "avatars/" + utils.NewBlobName(ext)
	if _, err := storage.Default.Save(c.Request.Context(), blobPath, src); err != nil {
		FailService(c, err)
		return
	}
	if err := service.SetAvatar(c.Request.Context(), utils.CurrentUserID(c), blobPath); err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, gin.H{"avatar_url": "/uploads/" + blobPath})
}

// DeleteAvatar removes the caller's avatar.
func DeleteAvatar(c *gin.Context) {
	if err := service.SetAvatar(c.Request.Context(), utils.CurrentUserID(c), ""); err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, gin.H{"success": true})
}
