package service

import (
	"SendBay/internal/repo"
	"SendBay/model"
	"fmt"
	"net"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetSettings returns the singleton settings row, creating it on first use.
func GetSettings() (*model.AppSettings, error) {
	var settings model.AppSettings
	err := repo.Db.Where("id = ?", model.SettingsID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = model.AppSettings{
			ID:               model.SettingsID,
			AppName:          "SendBay",
			SMTPPort:         587,
			SMTPSecure:       true,
			UploaderNameReq:  model.FieldOptional,
			UploaderEmailReq: model.FieldOptional,
			UploaderMsgReq:   model.FieldOptional,
		}
		// concurrent first requests may race on the insert
		err = repo.Db.Clauses(clause.OnConflict{DoNothing: true}).Create(&settings).Error
		if err == nil {
			err = repo.Db.Where("id = ?", model.SettingsID).First(&settings).Error
		}
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings applies a partial update to the settings row.
func UpdateSettings(updates map[string]interface{}) (*model.AppSettings, error) {
	if _, err := GetSettings(); err != nil {
		return nil, err
	}
	if err := repo.Db.Model(&model.AppSettings{}).
		Where("id = ?", model.SettingsID).
		Updates(updates).Error; err != nil {
		return nil, err
	}
	return GetSettings()
}

// ValidFieldPolicy reports whether a deposit form field policy is known.
func ValidFieldPolicy(policy string) bool {
	switch policy {
	case model.FieldHidden, model.FieldOptional, model.FieldRequired:
		return true
	default:
		return false
	}
}

// TestSMTPConnection probes the configured SMTP host with a plain TCP dial.
func TestSMTPConnection() error {
	settings, err := GetSettings()
	if err != nil {
		return err
	}
	if !settings.SMTPConfigured() {
		return ErrSMTPUnavailable
	}
	addr := fmt.Sprintf("%s:%d", settings.SMTPHost, settings.SMTPPort)
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return fmt.Errorf("smtp connection to %s failed: %w", addr, err)
	}
	return conn.Close()
}
