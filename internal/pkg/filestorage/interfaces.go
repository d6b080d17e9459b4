package filestorage

import (
	"context"
	"errors"
	"io"
)

// ErrUnsupportedType is returned for files whose extension is not allowed
var ErrUnsupportedType = errors.New("unsupported file type")

// FileStorage stores opaque blobs and hands back a URL to reach them.
// Callers persist the URL only, never the bytes.
type FileStorage interface {
	// Save stores the content of r under subPath, keeping the extension of filename,
	// and returns the public URL of the stored file
	Save(ctx context.Context, filename string, r io.Reader, subPath string) (string, error)

	// DeleteFile removes a file previously returned by Save; missing files are not an error
	DeleteFile(fileURL string) error
}
