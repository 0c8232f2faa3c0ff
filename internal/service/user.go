package service

import (
	"SendBay/internal/repo"
	"SendBay/internal/storage"
	"SendBay/model"
	"SendBay/utils"
	"log"
	"strings"
	"time"

	"golang.org/x/net/context"
	"gorm.io/gorm"
)

// CountUsers returns the total number of accounts.
func CountUsers() (int64, error) {
	var count int64
	err := repo.Db.Model(&model.User{}).Count(&count).Error
	return count, err
}

// CreateUser hashes the password and creates an account. The first account
// ever created is promoted to admin regardless of the requested role.
func CreateUser(email, name, password, role string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" || len(password) < 8 {
		return nil, ErrValidation
	}

	count, err := CountUsers()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		role = model.RoleAdmin
	} else if role != model.RoleAdmin {
		role = model.RoleUser
	}

	var existing model.User
	if err := repo.Db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrValidation
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := utils.GetPwd(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:    email,
		Name:     name,
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	if err := repo.Db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials for an active account and records the
// login time.
func Authenticate(email, password string) (*model.User, error) {
	var user model.User
	err := repo.Db.Where("email = ?", strings.TrimSpace(strings.ToLower(email))).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrPasswordInvalid
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive || !utils.CheckPwd(password, user.Password) {
		return nil, ErrPasswordInvalid
	}

	now := time.Now()
	if err := repo.Db.Model(&user).Update("last_login_at", &now).Error; err != nil {
		log.Printf("record login time failed: %v", err)
	}
	return &user, nil
}

// GetUserByID looks up an account.
func GetUserByID(id uint64) (*model.User, error) {
	var user model.User
	err := repo.Db.Where("id = ?", id).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every account, oldest first.
func ListUsers() ([]model.User, error) {
	var users []model.User
	err := repo.Db.Order("created_at ASC").Find(&users).Error
	return users, err
}

// UpdateProfile changes an account's display name.
func UpdateProfile(id uint64, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrValidation
	}
	if err := repo.Db.Model(&model.User{}).Where("id = ?", id).Update("name", name).Error; err != nil {
		return nil, err
	}
	return GetUserByID(id)
}

// ChangePassword verifies the current password and sets a new one.
func ChangePassword(id uint64, current, next string) error {
	if len(next) < 8 {
		return ErrValidation
	}
	user, err := GetUserByID(id)
	if err != nil {
		return err
	}
	if !utils.CheckPwd(current, user.Password) {
		return ErrPasswordInvalid
	}
	hash, err := utils.GetPwd(next)
	if err != nil {
		return err
	}
	return repo.Db.Model(&model.User{}).Where("id = ?", id).Update("pass_word", hash).Error
}

// AdminUpdateUser applies a partial account update on behalf of an admin.
func AdminUpdateUser(id uint64, updates map[string]interface{}) (*model.User, error) {
	if password, ok := updates["pass_word"]; ok {
		plain, _ := password.(string)
		hash, err := utils.GetPwd(plain)
		if err != nil {
			return nil, err
		}
		updates["pass_word"] = hash
	}
	res := repo.Db.Model(&model.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return GetUserByID(id)
}

// SetAvatar replaces an account's avatar blob and URL.
func SetAvatar(ctx context.Context, id uint64, avatarPath string) error {
	user, err := GetUserByID(id)
	if err != nil {
		return err
	}
	removeUploadBlob(ctx, user.AvatarURL)
	url := ""
	if avatarPath != "" {
		url = "/uploads/" + avatarPath
	}
	return repo.Db.Model(&model.User{}).Where("id = ?", id).Update("avatar_url", url).Error
}

// DeleteUser removes an account with its files, shares, upload requests and
// blobs. Blob removal is best-effort; row deletion always proceeds.
func DeleteUser(ctx context.Context, id uint64) error {
	user, err := GetUserByID(id)
	if err != nil {
		return err
	}

	var files []model.File
	if err := repo.Db.Where("owner_id = ?", id).Find(&files).Error; err != nil {
		return err
	}
	for _, f := range files {
		if err := storage.Default.Delete(ctx, f.Path); err != nil {
			log.Printf("delete blob %s failed: %v", f.Path, err)
		}
	}

	var requests []model.UploadRequest
	if err := repo.Db.Preload("ReceivedFiles").Where("owner_id = ?", id).Find(&requests).Error; err != nil {
		return err
	}
	for _, r := range requests {
		for _, f := range r.ReceivedFiles {
			if err := storage.Default.Delete(ctx, f.Path); err != nil {
				log.Printf("delete blob %s failed: %v", f.Path, err)
			}
		}
		if err := storage.Default.DeleteDir(ctx, ReceivedDir(r.ID)); err != nil {
			log.Printf("delete received dir for request %d failed: %v", r.ID, err)
		}
	}

	removeUploadBlob(ctx, user.AvatarURL)

	return repo.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("file_id IN (?)", tx.Model(&model.File{}).Select("id").Where("owner_id = ?", id)).Delete(&model.Share{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", id).Delete(&model.File{}).Error; err != nil {
			return err
		}
		if err := tx.Where("upload_request_id IN (?)", tx.Model(&model.UploadRequest{}).Select("id").Where("owner_id = ?", id)).Delete(&model.ReceivedFile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", id).Delete(&model.UploadRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
}

// removeUploadBlob deletes a blob referenced by a /uploads/ URL.
func removeUploadBlob(ctx context.Context, url string) {
	if url == "" {
		return
	}
	path := strings.TrimPrefix(url, "/uploads/")
	if path == url || path == "" {
		return
	}
	if err := storage.Default.Delete(ctx, path); err != nil {
		log.Printf("delete blob %s failed: %v", path, err)
	}
}
