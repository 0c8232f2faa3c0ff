package service

import (
	"SendBay/internal/repo"
	"SendBay/internal/storage"
	"SendBay/model"
	"log"
	"time"

	"golang.org/x/net/context"
	"gorm.io/gorm"
)

// CleanupReport summarizes one cleanup sweep.
type CleanupReport struct {
	DeletedFiles          int64 `json:"deleted_files"`
	DeletedUploadRequests int64 `json:"deleted_upload_requests"`
}

// RunCleanup deletes every expired file and upload request together with
// their blobs. Blob deletion failures are logged and skipped; the row
// deletion proceeds regardless, so a failed disk delete can at worst leave
// an orphaned blob. A Redis lock keeps concurrent sweeps from racing.
func RunCleanup(ctx context.Context) (*CleanupReport, error) {
	if repo.Redis != nil {
		lock := repo.NewRedisLock(repo.Redis, "cleanup:lock", 5*time.Minute)
		if err := lock.Lock(ctx); err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Unlock(ctx); err != nil {
				log.Printf("release cleanup lock failed: %v", err)
			}
		}()
	}

	now := time.Now()
	report := &CleanupReport{}

	var expiredFiles []model.File
	if err := repo.Db.Preload("Shares").
		Where("expires_at < ?", now).
		Find(&expiredFiles).Error; err != nil {
		return nil, err
	}
	for _, file := range expiredFiles {
		if err := storage.Default.Delete(ctx, file.Path); err != nil {
			log.Printf("cleanup: delete blob %s failed: %v", file.Path, err)
		}
		for _, share := range file.Shares {
			repo.InvalidateShareCache(ctx, share.Token)
		}
	}
	if len(expiredFiles) > 0 {
		err := repo.Db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("file_id IN (?)",
				tx.Model(&model.File{}).Select("id").Where("expires_at < ?", now),
			).Delete(&model.Share{}).Error; err != nil {
				return err
			}
			res := tx.Where("expires_at < ?", now).Delete(&model.File{})
			report.DeletedFiles = res.RowsAffected
			return res.Error
		})
		if err != nil {
			return nil, err
		}
	}

	var expiredRequests []model.UploadRequest
	if err := repo.Db.Preload("ReceivedFiles").
		Where("expires_at < ?", now).
		Find(&expiredRequests).Error; err != nil {
		return nil, err
	}
	for _, request := range expiredRequests {
		for _, f := range request.ReceivedFiles {
			if err := storage.Default.Delete(ctx, f.Path); err != nil {
				log.Printf("cleanup: delete blob %s failed: %v", f.Path, err)
			}
		}
		if err := storage.Default.DeleteDir(ctx, ReceivedDir(request.ID)); err != nil {
			log.Printf("cleanup: delete received dir for request %d failed: %v", request.ID, err)
		}
	}
	if len(expiredRequests) > 0 {
		err := repo.Db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("upload_request_id IN (?)",
				tx.Model(&model.UploadRequest{}).Select("id").Where("expires_at < ?", now),
			).Delete(&model.ReceivedFile{}).Error; err != nil {
				return err
			}
			res := tx.Where("expires_at < ?", now).Delete(&model.UploadRequest{})
			report.DeletedUploadRequests = res.RowsAffected
			return res.Error
		})
		if err != nil {
			return nil, err
		}
	}

	log.Printf("cleanup sweep: %d files, %d upload requests removed",
		report.DeletedFiles, report.DeletedUploadRequests)
	return report, nil
}
