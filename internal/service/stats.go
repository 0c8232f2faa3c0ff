package service

import (
	"SendBay/config"
	"SendBay/internal/repo"
	"SendBay/model"
	"syscall"
)

// DiskStats describes the filesystem backing the upload directory.
type DiskStats struct {
	TotalBytes uint64 `json:"total_bytes"`
	FreeBytes  uint64 `json:"free_bytes"`
	UsedBytes  uint64 `json:"used_bytes"`
}

// AdminStats is the aggregate view returned to administrators.
type AdminStats struct {
	FilesCount         int64     `json:"files_count"`
	SharesCount        int64     `json:"shares_count"`
	UploadRequests     int64     `json:"upload_requests_count"`
	ReceivedFilesCount int64     `json:"received_files_count"`
	TotalSize          int64     `json:"total_size"`
	TotalReceivedSize  int64     `json:"total_received_size"`
	Disk               DiskStats `json:"disk"`
}

// GetAdminStats collects entity counts, stored byte totals and disk usage.
func GetAdminStats() (*AdminStats, error) {
	stats := &AdminStats{}

	if err := repo.Db.Model(&model.File{}).Count(&stats.FilesCount).Error; err != nil {
		return nil, err
	}
	if err := repo.Db.Model(&model.Share{}).Count(&stats.SharesCount).Error; err != nil {
		return nil, err
	}
	if err := repo.Db.Model(&model.UploadRequest{}).Count(&stats.UploadRequests).Error; err != nil {
		return nil, err
	}
	if err := repo.Db.Model(&model.ReceivedFile{}).Count(&stats.ReceivedFilesCount).Error; err != nil {
		return nil, err
	}

	if err := repo.Db.Model(&model.File{}).
		Select("COALESCE(SUM(size), 0)").
		Scan(&stats.TotalSize).Error; err != nil {
		return nil, err
	}
	if err := repo.Db.Model(&model.ReceivedFile{}).
		Select("COALESCE(SUM(size), 0)").
		Scan(&stats.TotalReceivedSize).Error; err != nil {
		return nil, err
	}

	stats.Disk = diskUsage(config.AppConfig.UploadDir)
	return stats, nil
}

// diskUsage reads filesystem stats for the upload directory. Failures (or a
// non-disk backend) just leave the numbers at zero.
func diskUsage(dir string) DiskStats {
	var fs syscall.Statfs_t
	if err := syscall.Statfs(dir, &fs); err != nil {
		return DiskStats{}
	}
	total := fs.Blocks * uint64(fs.Bsize)
	free := fs.Bavail * uint64(fs.Bsize)
	return DiskStats{
		TotalBytes: total,
		FreeBytes:  free,
		UsedBytes:  total - free,
	}
}
