package handler

import (
	"SendBay/config"
	"SendBay/internal/dto"
	"SendBay/internal/service"
	"SendBay/internal/storage"
	"SendBay/model"
	"SendBay/utils"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// parseUploadOptions turns the form fields of an upload batch into share
// settings. Any written blob is rolled back on a bad field value.
func parseUploadOptions(result *service.IntakeResult) (service.UploadOptions, error) {
	opts := service.UploadOptions{}

	if raw := result.Field("expiresIn"); raw != "" {
		seconds, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || seconds <= 0 {
			return opts, service.ErrValidation
		}
		at := time.Now().Add(time.Duration(seconds) * time.Second)
		opts.ExpiresAt = &at
	}
	if raw := result.Field("maxDownloads"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return opts, service.ErrValidation
		}
		opts.MaxDownloads = &limit
	}
	if password := result.Field("password"); password != "" {
		hash, err := utils.GetPwd(password)
		if err != nil {
			return opts, err
		}
		opts.PasswordHash = hash
	}
	return opts, nil
}

// UploadFiles consumes a multipart batch, stores the blobs and creates a
// file plus share per part.
func UploadFiles(c *gin.Context) {
	reader, err := c.Request.MultipartReader()
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "multipart body expected")
		return
	}

	ctx := c.Request.Context()
	result, err := service.ConsumeMultipart(ctx, reader, storage.Default, "", config.AppConfig.MaxUploadBytes)
	if err != nil {
		FailService(c, err)
		return
	}
	if len(result.Files) == 0 {
		utils.Fail(c, http.StatusBadRequest, "no file received")
		return
	}

	opts, err := parseUploadOptions(result)
	if err != nil {
		service.DiscardIntake(ctx, storage.Default, result.Files)
		FailService(c, err)
		return
	}

	files, err := service.SaveUploadedFiles(ctx, utils.CurrentUserID(c), result.Files, opts)
	if err != nil {
		FailService(c, err)
		return
	}

	out := make([]dto.UploadedFileResponse, 0, len(files))
	for _, f := range files {
		token := ""
		if len(f.Shares) > 0 {
			token = f.Shares[0].Token
		}
		out = append(out, dto.UploadedFileResponse{
			ID:           f.ID,
			OriginalName: f.OriginalName,
			MimeType:     f.MimeType,
			Size:         f.Size,
			ExpiresAt:    f.ExpiresAt,
			ShareToken:   token,
		})
	}
	utils.Created(c, out)
}

// ListFiles returns the caller's files with their shares.
func ListFiles(c *gin.Context) {
	files, err := service.ListFiles(utils.CurrentUserID(c))
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, files)
}

// GetFile returns one of the caller's files.
func GetFile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid file id")
		return
	}
	file, err := service.GetFileForOwner(id, utils.CurrentUserID(c))
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, file)
}

// DeleteFile removes a file; owners delete their own, admins any.
func DeleteFile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid file id")
		return
	}
	isAdmin := utils.CurrentRole(c) == model.RoleAdmin
	if err := service.DeleteFile(c.Request.Context(), id, utils.CurrentUserID(c), isAdmin); err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, gin.H{"success": true})
}
