package service

import (
	"SendBay/config"
	"SendBay/internal/repo"
	"SendBay/internal/storage"
	"SendBay/model"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"
)

var dbOnce sync.Once

// requireTestDB connects to the test database once per run. Tests in this
// file need a reachable MySQL instance and skip without one.
func requireTestDB(t *testing.T) {
	t.Helper()
	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("TEST_DB_HOST not set")
	}
	dbOnce.Do(func() {
		config.InitConfig()
		config.AppConfig.DBHost = os.Getenv("TEST_DB_HOST")
		repo.InitMysqlTest()
	})

	store, err := storage.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("new disk store failed: %v", err)
	}
	storage.Default = store

	cleanTables(t)
}

func cleanTables(t *testing.T) {
	t.Helper()
	repo.Db.Exec("SET FOREIGN_KEY_CHECKS = 0")
	tables := []string{"received_file", "upload_request", "share", "file", "app_settings", "user_db"}
	for _, table := range tables {
		if err := repo.Db.Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("clean %s table failed: %v", table, err)
		}
	}
	repo.Db.Exec("SET FOREIGN_KEY_CHECKS = 1")
}

func mustCreateUser(t *testing.T, email string) *model.User {
	t.Helper()
	user, err := CreateUser(email, "Test User", "password123", model.RoleUser)
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func fakeIntake(names ...string) []IntakeFile {
	files := make([]IntakeFile, 0, len(names))
	for i, name := range names {
		files = append(files, IntakeFile{
			Filename:     fmt.Sprintf("blob-%d.bin", i),
			OriginalName: name,
			MimeType:     "application/octet-stream",
			Size:         int64(10 + i),
			Path:         fmt.Sprintf("blob-%d.bin", i),
		})
	}
	return files
}

// TestCreateUserFirstIsAdmin tests the first-account promotion.
func TestCreateUserFirstIsAdmin(t *testing.T) {
	requireTestDB(t)

	first := mustCreateUser(t, "first@example.com")
	if first.Role != model.RoleAdmin {
		t.Fatalf("first account should be admin, got %q", first.Role)
	}

	second := mustCreateUser(t, "second@example.com")
	if second.Role != model.RoleUser {
		t.Fatalf("second account should be a user, got %q", second.Role)
	}

	if _, err := CreateUser("first@example.com", "Dup", "password123", model.RoleUser); !errors.Is(err, ErrValidation) {
		t.Fatalf("duplicate email: expected ErrValidation, got %v", err)
	}
}

// TestAuthenticate tests credential checks and inactive accounts.
func TestAuthenticate(t *testing.T) {
	requireTestDB(t)
	user := mustCreateUser(t, "login@example.com")

	got, err := Authenticate("Login@Example.com", "password123")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if got.ID != user.ID {
		t.Fatalf("wrong account returned")
	}

	if _, err := Authenticate("login@example.com", "bad"); !errors.Is(err, ErrPasswordInvalid) {
		t.Fatalf("wrong password: expected ErrPasswordInvalid, got %v", err)
	}

	if err := repo.Db.Model(&model.User{}).Where("id = ?", user.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if _, err := Authenticate("login@example.com", "password123"); !errors.Is(err, ErrPasswordInvalid) {
		t.Fatalf("inactive account: expected ErrPasswordInvalid, got %v", err)
	}
}

// TestUploadCreatesSharePerFile tests the upload transaction.
func TestUploadCreatesSharePerFile(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	user := mustCreateUser(t, "uploader@example.com")

	limit := 3
	files, err := SaveUploadedFiles(ctx, user.ID, fakeIntake("a.txt", "b.txt"), UploadOptions{MaxDownloads: &limit})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	for _, f := range files {
		if len(f.Shares) != 1 {
			t.Fatalf("file %d should carry exactly one share", f.ID)
		}
		if f.Shares[0].MaxDownloads == nil || *f.Shares[0].MaxDownloads != 3 {
			t.Fatalf("share did not inherit the download limit")
		}
	}
}

// TestRegisterDownloadNoOvershoot tests the conditional counter update.
func TestRegisterDownloadNoOvershoot(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	user := mustCreateUser(t, "counter@example.com")

	limit := 2
	files, err := SaveUploadedFiles(ctx, user.ID, fakeIntake("c.txt"), UploadOptions{MaxDownloads: &limit})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	share := &files[0].Shares[0]

	for i := 0; i < 2; i++ {
		fresh, err := GetShareByToken(ctx, share.Token)
		if err != nil {
			t.Fatalf("resolve share failed: %v", err)
		}
		if err := AuthorizeDownload(fresh, "", time.Now()); err != nil {
			t.Fatalf("download %d rejected: %v", i+1, err)
		}
		if err := RegisterDownload(ctx, fresh); err != nil {
			t.Fatalf("register %d failed: %v", i+1, err)
		}
	}

	fresh, err := GetShareByToken(ctx, share.Token)
	if err != nil {
		t.Fatalf("resolve share failed: %v", err)
	}
	if err := AuthorizeDownload(fresh, "", time.Now()); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("exhausted share: expected ErrLimitReached, got %v", err)
	}
	if err := RegisterDownload(ctx, fresh); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("counter overshot: %v", err)
	}

	var file model.File
	if err := repo.Db.First(&file, files[0].ID).Error; err != nil {
		t.Fatalf("reload file failed: %v", err)
	}
	if file.Downloads != 2 {
		t.Fatalf("file counter: got %d", file.Downloads)
	}
}

// TestRegisterDownloadConcurrent tests the counter under parallel downloads.
func TestRegisterDownloadConcurrent(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	user := mustCreateUser(t, "racer@example.com")

	limit := 3
	files, err := SaveUploadedFiles(ctx, user.ID, fakeIntake("d.txt"), UploadOptions{MaxDownloads: &limit})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	share := files[0].Shares[0]

	const attempts = 8
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := share
			results <- RegisterDownload(ctx, &local)
		}()
	}
	wg.Wait()
	close(results)

	var ok, rejected int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrLimitReached):
			rejected++
		default:
			t.Fatalf("unexpected register error: %v", err)
		}
	}
	if ok != limit || rejected != attempts-limit {
		t.Fatalf("got %d accepted and %d rejected, want %d/%d", ok, rejected, limit, attempts-limit)
	}

	var stored model.Share
	if err := repo.Db.First(&stored, share.ID).Error; err != nil {
		t.Fatalf("reload share failed: %v", err)
	}
	if stored.Downloads != limit {
		t.Fatalf("share counter: got %d, want %d", stored.Downloads, limit)
	}
}

// TestCommitDepositCapacity tests the batch-level file limit.
func TestCommitDepositCapacity(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	user := mustCreateUser(t, "depositor@example.com")

	maxFiles := 2
	request, err := CreateUploadRequest(ctx, user.ID, CreateRequestParams{
		Title:    "drop zone",
		MaxFiles: &maxFiles,
	})
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}

	if _, err := CommitDeposit(ctx, request, fakeIntake("one.txt"), "alice", "", ""); err != nil {
		t.Fatalf("first deposit failed: %v", err)
	}

	// two more files would exceed the limit; the batch fails whole
	if _, err := CommitDeposit(ctx, request, fakeIntake("two.txt", "three.txt"), "bob", "", ""); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("oversized batch: expected ErrLimitReached, got %v", err)
	}

	count, err := CountReceivedFiles(request.ID)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("partial batch committed: %d rows", count)
	}

	if _, err := CommitDeposit(ctx, request, fakeIntake("two.txt"), "bob", "", ""); err != nil {
		t.Fatalf("fitting deposit failed: %v", err)
	}
}

// TestToggleAndTokenPrivacy tests that paused requests resolve as unknown.
func TestToggleAndTokenPrivacy(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	user := mustCreateUser(t, "owner@example.com")

	request, err := CreateUploadRequest(ctx, user.ID, CreateRequestParams{Title: "inbox"})
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	if _, err := GetUploadRequestByToken(request.Token); err != nil {
		t.Fatalf("active request unresolved: %v", err)
	}

	active, err := ToggleUploadRequest(request)
	if err != nil || active {
		t.Fatalf("toggle failed: active=%v err=%v", active, err)
	}
	if _, err := GetUploadRequestByToken(request.Token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("paused request: expected ErrNotFound, got %v", err)
	}
}

// TestRunCleanup tests the expiry sweep across both entity kinds.
func TestRunCleanup(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()
	user := mustCreateUser(t, "sweeper@example.com")

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	expired, err := SaveUploadedFiles(ctx, user.ID, fakeIntake("old.txt"), UploadOptions{ExpiresAt: &past})
	if err != nil {
		t.Fatalf("save expired file failed: %v", err)
	}
	if _, err := SaveUploadedFiles(ctx, user.ID, fakeIntake("new.txt"), UploadOptions{ExpiresAt: &future}); err != nil {
		t.Fatalf("save live file failed: %v", err)
	}

	deadRequest, err := CreateUploadRequest(ctx, user.ID, CreateRequestParams{Title: "dead", ExpiresAt: &past})
	if err != nil {
		t.Fatalf("create expired request failed: %v", err)
	}
	if _, err := CommitDeposit(ctx, deadRequest, fakeIntake("recv.txt"), "", "", ""); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := CreateUploadRequest(ctx, user.ID, CreateRequestParams{Title: "alive", ExpiresAt: &future}); err != nil {
		t.Fatalf("create live request failed: %v", err)
	}

	report, err := RunCleanup(ctx)
	if err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if report.DeletedFiles != 1 || report.DeletedUploadRequests != 1 {
		t.Fatalf("report: %+v", report)
	}

	var fileCount int64
	repo.Db.Model(&model.File{}).Count(&fileCount)
	if fileCount != 1 {
		t.Fatalf("expected 1 surviving file, got %d", fileCount)
	}
	if err := repo.Db.First(&model.File{}, expired[0].ID).Error; err == nil {
		t.Fatal("expired file row survived the sweep")
	}
	var receivedCount int64
	repo.Db.Model(&model.ReceivedFile{}).Count(&receivedCount)
	if receivedCount != 0 {
		t.Fatalf("received rows survived: %d", receivedCount)
	}
}

// TestSettingsSingleton tests lazy creation and partial updates.
func TestSettingsSingleton(t *testing.T) {
	requireTestDB(t)

	settings, err := GetSettings()
	if err != nil {
		t.Fatalf("get settings failed: %v", err)
	}
	if settings.ID != model.SettingsID {
		t.Fatalf("settings id: got %q", settings.ID)
	}
	if settings.SMTPConfigured() {
		t.Fatal("fresh settings should not be smtp-configured")
	}

	updated, err := UpdateSettings(map[string]interface{}{
		"smtp_host": "mail.example.com",
		"smtp_from": "noreply@example.com",
	})
	if err != nil {
		t.Fatalf("update settings failed: %v", err)
	}
	if !updated.SMTPConfigured() {
		t.Fatal("settings should be smtp-configured after update")
	}
}
