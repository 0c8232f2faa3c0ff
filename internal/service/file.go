package service

import (
	"SendBay/internal/repo"
	"SendBay/internal/storage"
	"SendBay/model"
	"SendBay/utils"
	"log"
	"time"

	"golang.org/x/net/context"
	"gorm.io/gorm"
)

// UploadOptions are the share settings applied to a whole upload batch.
type UploadOptions struct {
	ExpiresAt    *time.Time
	MaxDownloads *int
	PasswordHash string
}

// SaveUploadedFiles persists one File and one Share per intake file in a
// single transaction. The share inherits the batch's expiry, limit and
// password.
func SaveUploadedFiles(ctx context.Context, ownerID uint64, intake []IntakeFile, opts UploadOptions) ([]model.File, error) {
	if len(intake) == 0 {
		return nil, ErrValidation
	}

	files := make([]model.File, 0, len(intake))
	err := repo.Db.Transaction(func(tx *gorm.DB) error {
		for _, item := range intake {
			file := model.File{
				OwnerID:      ownerID,
				Filename:     item.Filename,
				OriginalName: item.OriginalName,
				MimeType:     item.MimeType,
				Size:         item.Size,
				Path:         item.Path,
				Password:     opts.PasswordHash,
				ExpiresAt:    opts.ExpiresAt,
				MaxDownloads: opts.MaxDownloads,
			}
			if err := tx.Create(&file).Error; err != nil {
				return err
			}
			share := model.Share{
				Token:        utils.GetToken(),
				FileID:       file.ID,
				Password:     opts.PasswordHash,
				ExpiresAt:    opts.ExpiresAt,
				MaxDownloads: opts.MaxDownloads,
			}
			if err := tx.Create(&share).Error; err != nil {
				return err
			}
			file.Shares = []model.Share{share}
			files = append(files, file)
		}
		return nil
	})
	if err != nil {
		// metadata failed, the blobs are orphans; clean them up
		DiscardIntake(ctx, storage.Default, intake)
		return nil, err
	}
	return files, nil
}

// ListFiles returns a user's files with their shares, newest first.
func ListFiles(ownerID uint64) ([]model.File, error) {
	var files []model.File
	err := repo.Db.Preload("Shares").
		Where("owner_id = ?", ownerID).
		Order("uploaded_at DESC").
		Find(&files).Error
	return files, err
}

// ListAllFiles returns every file with owner and shares (admin view).
func ListAllFiles() ([]model.File, error) {
	var files []model.File
	err := repo.Db.Preload("Shares").Preload("Owner").
		Order("uploaded_at DESC").
		Find(&files).Error
	return files, err
}

// GetFileForOwner looks up a file restricted to its owner.
func GetFileForOwner(id, ownerID uint64) (*model.File, error) {
	var file model.File
	err := repo.Db.Preload("Shares").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&file).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// DeleteFile removes a file row, its shares and its blob. Owners may delete
// their own files, admins any file. Blob removal is best-effort.
func DeleteFile(ctx context.Context, id, userID uint64, isAdmin bool) error {
	query := repo.Db.Where("id = ?", id)
	if !isAdmin {
		query = query.Where("owner_id = ?", userID)
	}
	var file model.File
	if err := query.Preload("Shares").First(&file).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	if err := storage.Default.Delete(ctx, file.Path); err != nil {
		log.Printf("delete blob %s failed: %v", file.Path, err)
	}

	return repo.Db.Transaction(func(tx *gorm.DB) error {
		for _, share := range file.Shares {
			repo.InvalidateShareCache(ctx, share.Token)
		}
		if err := tx.Where("file_id = ?", file.ID).Delete(&model.Share{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.File{}, file.ID).Error
	})
}
