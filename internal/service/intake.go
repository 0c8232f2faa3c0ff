package service

import (
	"SendBay/internal/storage"
	"SendBay/utils"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"path"
	"strings"
)

// maxFieldBytes bounds non-file form field values.
const maxFieldBytes = 1 << 20

// IntakeFile describes one blob written during an intake pass.
type IntakeFile struct {
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Path         string
}

// IntakeResult is the outcome of consuming one multipart request body.
type IntakeResult struct {
	Files  []IntakeFile
	Fields map[string]string
}

// Field returns a collected form field value.
func (r *IntakeResult) Field(name string) string {
	return r.Fields[name]
}

// ceilingReader fails the read once more than limit bytes have passed
// through, so an oversized part aborts mid-stream instead of being
// truncated.
type ceilingReader struct {
	r         io.Reader
	remaining int64
	exceeded  bool
}

func (c *ceilingReader) Read(p []byte) (int, error) {
	if c.remaining < 0 {
		c.exceeded = true
		return 0, ErrSizeExceeded
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		c.exceeded = true
		return n, ErrSizeExceeded
	}
	return n, err
}

// ConsumeMultipart streams every part of a multipart body in one pass.
// Fields and file parts may interleave in any order; fields are collected
// into the result map and each file is streamed to the store under dir with
// a generated name. perFileLimit, when positive, is a per-file byte ceiling:
// exceeding it deletes everything written during this pass and fails the
// whole request. Any mid-stream failure takes the same rollback path.
func ConsumeMultipart(ctx context.Context, reader *multipart.Reader, store storage.Store, dir string, perFileLimit int64) (*IntakeResult, error) {
	result := &IntakeResult{Fields: make(map[string]string)}

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			DiscardIntake(ctx, store, result.Files)
			return nil, err
		}

		if part.FileName() == "" {
			value, err := io.ReadAll(io.LimitReader(part, maxFieldBytes))
			part.Close()
			if err != nil {
				DiscardIntake(ctx, store, result.Files)
				return nil, err
			}
			result.Fields[part.FormName()] = string(value)
			continue
		}

		saved, err := saveFilePart(ctx, part, store, dir, perFileLimit)
		part.Close()
		if err != nil {
			DiscardIntake(ctx, store, result.Files)
			return nil, err
		}
		result.Files = append(result.Files, *saved)
	}

	return result, nil
}

// saveFilePart streams one file part to the store.
func saveFilePart(ctx context.Context, part *multipart.Part, store storage.Store, dir string, perFileLimit int64) (*IntakeFile, error) {
	original := part.FileName()
	ext := path.Ext(original)
	blobName := utils.NewBlobName(ext)
	blobPath := blobName
	if dir != "" {
		blobPath = path.Join(dir, blobName)
	}

	var body io.Reader = part
	var ceiling *ceilingReader
	if perFileLimit > 0 {
		ceiling = &ceilingReader{r: part, remaining: perFileLimit}
		body = ceiling
	}

	size, err := store.Save(ctx, blobPath, body)
	if err != nil {
		// The store backend may wrap the reader's error, so the ceiling
		// flag is checked before the error chain.
		if ceiling != nil && ceiling.exceeded {
			return nil, ErrSizeExceeded
		}
		if errors.Is(err, ErrSizeExceeded) {
			return nil, ErrSizeExceeded
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if original == "" {
		original = "file"
	}
	return &IntakeFile{
		Filename:     blobName,
		OriginalName: original,
		MimeType:     DetectMimeType(original),
		Size:         size,
		Path:         blobPath,
	}, nil
}

// DiscardIntake best-effort deletes every blob written during a pass.
func DiscardIntake(ctx context.Context, store storage.Store, files []IntakeFile) {
	for _, f := range files {
		if err := store.Delete(ctx, f.Path); err != nil {
			log.Printf("discard intake blob %s failed: %v", f.Path, err)
		}
	}
}

// DetectMimeType resolves a content type from the original filename.
func DetectMimeType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if ext != "" {
		if mimeType := mime.TypeByExtension(ext); mimeType != "" {
			return mimeType
		}
	}
	return "application/octet-stream"
}
