package handler

import (
	"SendBay/config"
	"SendBay/internal/dto"
	"SendBay/internal/service"
	"SendBay/internal/storage"
	"SendBay/model"
	"SendBay/utils"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// CreateUploadRequest creates a reverse share for the caller.
func CreateUploadRequest(c *gin.Context) {
	var req dto.CreateUploadRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid params")
		return
	}

	params := service.CreateRequestParams{
		Title:    req.Title,
		Message:  req.Message,
		Password: req.Password,
	}
	if req.ExpiresIn != nil {
		if *req.ExpiresIn <= 0 {
			utils.Fail(c, http.StatusBadRequest, "invalid expiry")
			return
		}
		at := time.Now().Add(time.Duration(*req.ExpiresIn) * time.Second)
		params.ExpiresAt = &at
	}
	if req.MaxFiles != nil {
		if *req.MaxFiles <= 0 {
			utils.Fail(c, http.StatusBadRequest, "invalid file limit")
			return
		}
		params.MaxFiles = req.MaxFiles
	}
	if req.MaxSizeMb != nil {
		if *req.MaxSizeMb <= 0 {
			utils.Fail(c, http.StatusBadRequest, "invalid size limit")
			return
		}
		limit := int64(math.Round(*req.MaxSizeMb * 1024 * 1024))
		params.MaxSizeBytes = &limit
	}

	request, err := service.CreateUploadRequest(c.Request.Context(), utils.CurrentUserID(c), params)
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Created(c, gin.H{
		"id":         request.ID,
		"token":      request.Token,
		"title":      request.Title,
		"expires_at": request.ExpiresAt,
	})
}

// ListUploadRequests returns the caller's requests with file counts.
func ListUploadRequests(c *gin.Context) {
	requests, err := service.ListUploadRequests(utils.CurrentUserID(c))
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, requests)
}

// UploadRequestInfo returns the public metadata of a deposit link.
func UploadRequestInfo(c *gin.Context) {
	request, err := service.GetUploadRequestByToken(c.Param("token"))
	if err != nil {
		FailService(c, err)
		return
	}
	if err := service.CheckDepositGates(request, 0, time.Now()); err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, dto.UploadRequestInfoResponse{
		Token:        request.Token,
		Title:        request.Title,
		Message:      request.Message,
		ExpiresAt:    request.ExpiresAt,
		HasPassword:  request.HasPassword(),
		MaxFiles:     request.MaxFiles,
		MaxSizeBytes: request.MaxSizeBytes,
	})
}

// failDeposit maps deposit gate errors; an exhausted file limit reads as
// too-many-requests rather than gone.
func failDeposit(c *gin.Context, err error) {
	if errors.Is(err, service.ErrLimitReached) {
		utils.Fail(c, http.StatusTooManyRequests, "file limit reached")
		return
	}
	FailService(c, err)
}

// DepositFiles accepts an anonymous multipart deposit against a request.
// The password field is validated only after the whole body has been
// consumed; any failure rolls back every blob written for the batch.
func DepositFiles(c *gin.Context) {
	ctx := c.Request.Context()
	request, err := service.GetUploadRequestByToken(c.Param("token"))
	if err != nil {
		FailService(c, err)
		return
	}

	count, err := service.CountReceivedFiles(request.ID)
	if err != nil {
		FailService(c, err)
		return
	}
	if err := service.CheckDepositGates(request, int(count), time.Now()); err != nil {
		failDeposit(c, err)
		return
	}

	reader, err := c.Request.MultipartReader()
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "multipart body expected")
		return
	}

	perFileLimit := config.AppConfig.MaxUploadBytes
	if request.MaxSizeBytes != nil && *request.MaxSizeBytes < perFileLimit {
		perFileLimit = *request.MaxSizeBytes
	}

	result, err := service.ConsumeMultipart(ctx, reader, storage.Default, service.ReceivedDir(request.ID), perFileLimit)
	if err != nil {
		FailService(c, err)
		return
	}

	if request.HasPassword() {
		if err := service.CheckGatePassword(request.Password, result.Field("password")); err != nil {
			service.DiscardIntake(ctx, storage.Default, result.Files)
			FailService(c, err)
			return
		}
	}
	if len(result.Files) == 0 {
		utils.Fail(c, http.StatusBadRequest, "no file received")
		return
	}

	received, err := service.CommitDeposit(
		ctx,
		request,
		result.Files,
		result.Field("uploaderName"),
		result.Field("uploaderEmail"),
		result.Field("message"),
	)
	if err != nil {
		failDeposit(c, err)
		return
	}

	out := make([]dto.DepositedFileResponse, 0, len(received))
	for _, f := range received {
		out = append(out, dto.DepositedFileResponse{
			ID:           f.ID,
			OriginalName: f.OriginalName,
			Size:         f.Size,
		})
	}
	utils.Created(c, out)
}

// requestByManagementID resolves the numeric id used by the management
// routes, enforcing ownership.
func requestByManagementID(c *gin.Context) (*model.UploadRequest, bool) {
	id, err := strconv.ParseUint(c.Param("token"), 10, 64)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request id")
		return nil, false
	}
	isAdmin := utils.CurrentRole(c) == model.RoleAdmin
	request, err := service.GetUploadRequestForOwner(id, utils.CurrentUserID(c), isAdmin)
	if err != nil {
		FailService(c, err)
		return nil, false
	}
	return request, true
}

// ListReceivedFiles returns the files deposited against a request.
func ListReceivedFiles(c *gin.Context) {
	request, ok := requestByManagementID(c)
	if !ok {
		return
	}
	files, err := service.ListReceivedFiles(request.ID)
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, files)
}

// DownloadReceivedFile streams one deposited blob to the request owner.
func DownloadReceivedFile(c *gin.Context) {
	request, ok := requestByManagementID(c)
	if !ok {
		return
	}
	fileID, err := strconv.ParseUint(c.Param("fileID"), 10, 64)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid file id")
		return
	}
	file, err := service.GetReceivedFile(request.ID, fileID)
	if err != nil {
		FailService(c, err)
		return
	}
	blob, size, err := storage.Default.Open(c.Request.Context(), file.Path)
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "file missing on server")
		return
	}
	defer blob.Close()

	disposition := fmt.Sprintf("attachment; filename=%q", utils.SanitizeHeaderFilename(file.OriginalName))
	c.DataFromReader(http.StatusOK, size, file.MimeType, blob, map[string]string{
		"Content-Disposition": disposition,
	})
}

// ToggleUploadRequest flips a request between active and paused.
func ToggleUploadRequest(c *gin.Context) {
	request, ok := requestByManagementID(c)
	if !ok {
		return
	}
	active, err := service.ToggleUploadRequest(request)
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, gin.H{"active": active})
}

// DeleteUploadRequest removes a request with its received files and blobs.
func DeleteUploadRequest(c *gin.Context) {
	request, ok := requestByManagementID(c)
	if !ok {
		return
	}
	if err := service.DeleteUploadRequest(c.Request.Context(), request); err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, gin.H{"success": true})
}
