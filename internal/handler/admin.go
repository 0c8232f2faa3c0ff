package handler

import (
	"SendBay/internal/dto"
	"SendBay/internal/service"
	"SendBay/model"
	"SendBay/utils"

	"github.com/gin-gonic/gin"
)

type adminFileEntry struct {
	model.File
	Owner dto.OwnerSummary `json:"owner"`
}

type adminRequestEntry struct {
	service.RequestSummary
	Owner dto.OwnerSummary `json:"owner"`
}

func ownerSummary(user *model.User) dto.OwnerSummary {
	return dto.OwnerSummary{ID: user.ID, Name: user.Name, Email: user.Email}
}

// AdminStats returns entity counts, stored byte totals and disk usage.
func AdminStats(c *gin.Context) {
	stats, err := service.GetAdminStats()
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, stats)
}

// AdminCleanup sweeps expired files and upload requests.
func AdminCleanup(c *gin.Context) {
	report, err := service.RunCleanup(c.Request.Context())
	if err != nil {
		FailService(c, err)
		return
	}
	utils.Success(c, report)
}

// AdminListFiles returns every file of every user.
func AdminListFiles(c *gin.Context) {
	files, err := service.ListAllFiles()
	if err != nil {
		FailService(c, err)
		return
	}
	out := make([]adminFileEntry, 0, len(files))
	for _, f := range files {
		out = append(out, adminFileEntry{File: f, Owner: ownerSummary(&f.Owner)})
	}
	utils.Success(c, out)
}

// AdminListUploadRequests returns every upload request with its owner.
func AdminListUploadRequests(c *gin.Context) {
	requests, err := service.ListAllUploadRequests()
	if err != nil {
		FailService(c, err)
		return
	}
	out := make([]adminRequestEntry, 0, len(requests))
	for _, r := range requests {
		out = append(out, adminRequestEntry{RequestSummary: r, Owner: ownerSummary(&r.Owner)})
	}
	utils.Success(c, out)
}
