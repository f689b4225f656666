package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// StorageService stores uploaded event images.
type StorageService interface {
	// UploadFile stores r under destFolder and returns where it can be fetched.
	UploadFile(ctx context.Context, r io.Reader, filename, destFolder string) (*UploadResult, error)
	// DeleteFile removes a previously uploaded object.
	DeleteFile(ctx context.Context, objectID string) error
}

// UploadResult identifies a stored object.
type UploadResult struct {
	ObjectID string `json:"objectId"`
	URL      string `json:"url"`
}

// objectName builds a collision-free object name that keeps the original
// extension, e.g. "events/3f0c...e1.jpg".
func objectName(destFolder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	name := uuid.New().String() + ext
	destFolder = strings.Trim(destFolder, "/")
	if destFolder == "" {
		return name
	}
	return destFolder + "/" + name
}
