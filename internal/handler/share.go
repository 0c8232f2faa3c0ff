package handler

import (
	"SendBay/internal/dto"
	"SendBay/internal/service"
	"SendBay/internal/storage"
	"SendBay/internal/task"
	"SendBay/utils"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/gin-gonic/gin"
)

// ShareInfo returns the public metadata of a share link without consuming
// a download.
func ShareInfo(c *gin.Context) {
	share, err := service.GetShareByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		FailService(c, err)
		return
	}
	if err := service.CheckShareGates(share, time.Now()); err != nil {
		FailService(c, err)
		return
	}

	shared, err := service.GetShareFile(share)
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, dto.ShareInfoResponse{
		Token:        share.Token,
		Label:        share.Label,
		Filename:     shared.OriginalName,
		MimeType:     shared.MimeType,
		Size:         shared.Size,
		ExpiresAt:    share.ExpiresAt,
		HasPassword:  share.HasPassword(),
		Downloads:    share.Downloads,
		MaxDownloads: share.MaxDownloads,
	})
}

// ShareDownload streams a shared blob after the full gate sequence and
// accounts the download atomically.
func ShareDownload(c *gin.Context) {
	ctx := c.Request.Context()
	share, err := service.GetShareByToken(ctx, c.Param("token"))
	if err != nil {
		FailService(c, err)
		return
	}

	var req dto.ShareDownloadRequest
	_ = c.ShouldBindJSON(&req)

	if err := service.AuthorizeDownload(share, req.Password, time.Now()); err != nil {
		FailService(c, err)
		return
	}

	file, err := service.GetShareFile(share)
	if err != nil {
		FailService(c, err)
		return
	}
	blob, size, err := storage.Default.Open(ctx, file.Path)
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "file missing on server")
		return
	}
	defer blob.Close()

	if err := service.RegisterDownload(ctx, share); err != nil {
		FailService(c, err)
		return
	}

	disposition := fmt.Sprintf("attachment; filename=%q", utils.SanitizeHeaderFilename(file.OriginalName))
	c.DataFromReader(http.StatusOK, size, file.MimeType, blob, map[string]string{
		"Content-Disposition": disposition,
	})
}

// SendShareEmail queues an email carrying one or more share links.
func SendShareEmail(c *gin.Context) {
	var req dto.SendShareMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid params")
		return
	}
	if _, err := mail.ParseAddress(req.To); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(req.Tokens) == 0 {
		utils.Fail(c, http.StatusBadRequest, "no share links given")
		return
	}
	if err := task.SendShareLinks(c.Request.Context(), req.To, req.Tokens); err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, gin.H{"success": true})
}
