package service

import (
	"SendBay/internal/repo"
	"SendBay/model"
	"time"

	"golang.org/x/net/context"
	"gorm.io/gorm"
)

// GetShareByToken resolves a share, reading through the Redis cache.
func GetShareByToken(ctx context.Context, token string) (*model.Share, error) {
	if share, ok := repo.GetShareFromCache(ctx, token); ok {
		return share, nil
	}

	var share model.Share
	err := repo.Db.Where("token = ?", token).First(&share).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	repo.SetShareToCache(ctx, &share)
	return &share, nil
}

// CheckShareGates evaluates a share's expiry and download limit.
func CheckShareGates(share *model.Share, now time.Time) error {
	return GateError(EvaluateGate(share.ExpiresAt, share.Downloads, share.MaxDownloads, now))
}

// AuthorizeDownload runs the full gate sequence for a download attempt:
// expiry, limit, then password. The counter is not touched here.
func AuthorizeDownload(share *model.Share, password string, now time.Time) error {
	if err := CheckShareGates(share, now); err != nil {
		return err
	}
	return CheckGatePassword(share.Password, password)
}

// RegisterDownload accounts one successful download. The increment is a
// conditional update so two concurrent downloads cannot push the counter
// past the limit: the losing request sees zero affected rows.
func RegisterDownload(ctx context.Context, share *model.Share) error {
	err := repo.Db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Share{}).
			Where("id = ? AND (max_downloads IS NULL OR downloads < max_downloads)", share.ID).
			UpdateColumn("downloads", gorm.Expr("downloads + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrLimitReached
		}
		return tx.Model(&model.File{}).
			Where("id = ?", share.FileID).
			UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error
	})
	if err != nil {
		return err
	}
	repo.InvalidateShareCache(ctx, share.Token)
	return nil
}

// GetShareFile loads the file a share points at.
func GetShareFile(share *model.Share) (*model.File, error) {
	var file model.File
	err := repo.Db.Where("id = ?", share.FileID).First(&file).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// GetSharesByTokens loads shares with their files for outgoing mail.
func GetSharesByTokens(tokens []string) ([]model.Share, error) {
	var shares []model.Share
	err := repo.Db.Preload("File").Where("token IN ?", tokens).Find(&shares).Error
	if err != nil {
		return nil, err
	}
	if len(shares) == 0 {
		return nil, ErrNotFound
	}
	return shares, nil
}
