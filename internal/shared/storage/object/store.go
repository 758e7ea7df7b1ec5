package object

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"resume-screener/internal/shared/util"
)

// ObjectStore defines the contract for saving and retrieving binary objects by key.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// UploadKey builds the archive key for an uploaded file: uploads/<utc stamp>_<digest prefix>_<sanitized name>.
func UploadKey(now time.Time, digest, fileName string) (string, error) {
	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	if len(digest) > 12 {
		digest = digest[:12]
	}
	name := fmt.Sprintf("%s_%s_%s", now.UTC().Format("20060102T150405Z"), digest, sanitized)
	return path.Join("uploads", name), nil
}

// ExtractedTextKey is the sibling key holding the text extracted from an upload.
func ExtractedTextKey(uploadKey string) string {
	return uploadKey + ".extracted.txt"
}
