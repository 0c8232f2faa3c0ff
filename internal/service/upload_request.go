package service

import (
	"SendBay/internal/repo"
	"SendBay/internal/storage"
	"SendBay/model"
	"SendBay/utils"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/net/context"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReceivedDir is the blob subtree for files deposited against a request.
func ReceivedDir(requestID uint64) string {
	return fmt.Sprintf("received/%d", requestID)
}

// CreateRequestParams describes a new upload request.
type CreateRequestParams struct {
	Title        string
	Message      string
	Password     string
	ExpiresAt    *time.Time
	MaxFiles     *int
	MaxSizeBytes *int64
}

// CreateUploadRequest creates a reverse share owned by a user.
func CreateUploadRequest(ctx context.Context, ownerID uint64, params CreateRequestParams) (*model.UploadRequest, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrValidation
	}

	hash := ""
	if params.Password != "" {
		var err error
		hash, err = utils.GetPwd(params.Password)
		if err != nil {
			return nil, err
		}
	}

	request := &model.UploadRequest{
		Token:        utils.GetToken(),
		Title:        title,
		Message:      strings.TrimSpace(params.Message),
		OwnerID:      ownerID,
		Password:     hash,
		ExpiresAt:    params.ExpiresAt,
		MaxFiles:     params.MaxFiles,
		MaxSizeBytes: params.MaxSizeBytes,
		Active:       true,
	}
	if err := repo.Db.Create(request).Error; err != nil {
		return nil, err
	}

	if request.ExpiresAt != nil {
		repo.SetUploadRequestTombstone(ctx, request.Token, *request.ExpiresAt)
	}
	return request, nil
}

// GetUploadRequestByToken resolves a public deposit token. Inactive and
// unknown tokens are indistinguishable to the caller.
func GetUploadRequestByToken(token string) (*model.UploadRequest, error) {
	var request model.UploadRequest
	err := repo.Db.Where("token = ?", token).First(&request).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !request.Active {
		return nil, ErrNotFound
	}
	return &request, nil
}

// GetUploadRequestForOwner looks up a request for management; admins may
// reach any request, owners only their own.
func GetUploadRequestForOwner(id, userID uint64, isAdmin bool) (*model.UploadRequest, error) {
	query := repo.Db.Where("id = ?", id)
	if !isAdmin {
		query = query.Where("owner_id = ?", userID)
	}
	var request model.UploadRequest
	err := query.First(&request).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// CountReceivedFiles returns how many files a request holds.
func CountReceivedFiles(requestID uint64) (int64, error) {
	var count int64
	err := repo.Db.Model(&model.ReceivedFile{}).
		Where("upload_request_id = ?", requestID).
		Count(&count).Error
	return count, err
}

// CheckDepositGates evaluates a request's expiry and file-count limit.
func CheckDepositGates(request *model.UploadRequest, filesCount int, now time.Time) error {
	return GateError(EvaluateGate(request.ExpiresAt, filesCount, request.MaxFiles, now))
}

// CommitDeposit persists a deposit batch. The capacity check runs inside a
// transaction holding a row lock on the request, so a batch that does not
// fit the remaining capacity is rejected whole even under concurrent
// deposits; no overshoot is possible.
func CommitDeposit(ctx context.Context, request *model.UploadRequest, intake []IntakeFile, uploaderName, uploaderEmail, message string) ([]model.ReceivedFile, error) {
	if len(intake) == 0 {
		return nil, ErrValidation
	}

	received := make([]model.ReceivedFile, 0, len(intake))
	err := repo.Db.Transaction(func(tx *gorm.DB) error {
		var locked model.UploadRequest
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", request.ID).
			First(&locked).Error; err != nil {
			return err
		}

		if locked.MaxFiles != nil {
			var count int64
			if err := tx.Model(&model.ReceivedFile{}).
				Where("upload_request_id = ?", locked.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if int(count)+len(intake) > *locked.MaxFiles {
				return ErrLimitReached
			}
		}

		for _, item := range intake {
			row := model.ReceivedFile{
				UploadRequestID: locked.ID,
				Filename:        item.Filename,
				OriginalName:    item.OriginalName,
				MimeType:        item.MimeType,
				Size:            item.Size,
				Path:            item.Path,
				UploaderName:    strings.TrimSpace(uploaderName),
				UploaderEmail:   strings.TrimSpace(uploaderEmail),
				Message:         strings.TrimSpace(message),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			received = append(received, row)
		}
		return nil
	})
	if err != nil {
		DiscardIntake(ctx, storage.Default, intake)
		return nil, err
	}
	return received, nil
}

// RequestSummary is a request with its received-file count.
type RequestSummary struct {
	model.UploadRequest
	FilesCount int64 `json:"files_count"`
}

// ListUploadRequests returns a user's requests, newest first, with counts.
func ListUploadRequests(ownerID uint64) ([]RequestSummary, error) {
	var requests []model.UploadRequest
	if err := repo.Db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return withFileCounts(requests)
}

// ListAllUploadRequests returns every request with its owner (admin view).
func ListAllUploadRequests() ([]RequestSummary, error) {
	var requests []model.UploadRequest
	if err := repo.Db.Preload("Owner").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return withFileCounts(requests)
}

func withFileCounts(requests []model.UploadRequest) ([]RequestSummary, error) {
	summaries := make([]RequestSummary, 0, len(requests))
	for _, request := range requests {
		count, err := CountReceivedFiles(request.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, RequestSummary{UploadRequest: request, FilesCount: count})
	}
	return summaries, nil
}

// ListReceivedFiles returns the files deposited against a request.
func ListReceivedFiles(requestID uint64) ([]model.ReceivedFile, error) {
	var files []model.ReceivedFile
	err := repo.Db.Where("upload_request_id = ?", requestID).
		Order("uploaded_at DESC").
		Find(&files).Error
	return files, err
}

// GetReceivedFile looks up one deposited file within a request.
func GetReceivedFile(requestID, fileID uint64) (*model.ReceivedFile, error) {
	var file model.ReceivedFile
	err := repo.Db.Where("id = ? AND upload_request_id = ?", fileID, requestID).
		First(&file).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// ToggleUploadRequest flips a request's active flag.
func ToggleUploadRequest(request *model.UploadRequest) (bool, error) {
	next := !request.Active
	err := repo.Db.Model(&model.UploadRequest{}).
		Where("id = ?", request.ID).
		Update("active", next).Error
	return next, err
}

// DeleteUploadRequest removes a request, its received rows and blobs.
// Blob removal is best-effort and never blocks the row deletion.
func DeleteUploadRequest(ctx context.Context, request *model.UploadRequest) error {
	files, err := ListReceivedFiles(request.ID)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := storage.Default.Delete(ctx, f.Path); err != nil {
			log.Printf("delete blob %s failed: %v", f.Path, err)
		}
	}
	if err := storage.Default.DeleteDir(ctx, ReceivedDir(request.ID)); err != nil {
		log.Printf("delete received dir for request %d failed: %v", request.ID, err)
	}

	return repo.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("upload_request_id = ?", request.ID).Delete(&model.ReceivedFile{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.UploadRequest{}, request.ID).Error
	})
}
