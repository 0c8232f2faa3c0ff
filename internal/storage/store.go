package storage

import (
	"context"
	"io"
	"log"

	"SendBay/config"
)

// Store abstracts the blob store. Keys are slash-separated relative paths
// (for example "received/42/abc.png"); the disk backend maps them onto the
// upload directory, the MinIO backend onto object names.
type Store interface {
	// Save streams data to the named blob and returns the byte count.
	// A failed write must not leave a partial blob behind.
	Save(ctx context.Context, name string, data io.Reader) (int64, error)
	// Open returns a reader and the blob size.
	Open(ctx context.Context, name string) (io.ReadCloser, int64, error)
	// Delete removes a blob; a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// DeleteDir removes every blob under the given prefix.
	DeleteDir(ctx context.Context, prefix string) error
}

// Default is the main blob store instance.
var Default Store

// InitStore initializes the configured blob store backend.
func InitStore() {
	switch config.AppConfig.StorageBackend {
	case "minio":
		InitMinio()
	default:
		store, err := NewDiskStore(config.AppConfig.UploadDir)
		if err != nil {
			log.Fatal("init disk store fail: ", err)
		}
		Default = store
		log.Println("init disk store success:", config.AppConfig.UploadDir)
	}
}
