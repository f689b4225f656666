package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// FirebaseStorageService implements StorageService on the project's Firebase
// Storage bucket.
type FirebaseStorageService struct {
	bucket     *storage.BucketHandle
	bucketName string
}

// NewFirebaseStorageService wraps the default bucket returned by the Firebase
// storage client.
func NewFirebaseStorageService(bucket *storage.BucketHandle, bucketName string) *FirebaseStorageService {
	return &FirebaseStorageService{bucket: bucket, bucketName: bucketName}
}

// UploadFile writes the object with a download token so the Firebase download
// URL works without signing.
func (s *FirebaseStorageService) UploadFile(ctx context.Context, r io.Reader, filename, destFolder string) (*UploadResult, error) {
	objectPath := objectName(destFolder, filename)
	token := uuid.New().String()

	w := s.bucket.Object(objectPath).NewWriter(ctx)
	w.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}
	if ext := path.Ext(filename); ext != "" {
		w.ObjectAttrs.ContentType = mime.TypeByExtension(ext)
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to copy file to storage: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	return &UploadResult{
		ObjectID: objectPath,
		URL:      downloadURL(s.bucketName, objectPath, token),
	}, nil
}

// DeleteFile deletes an object from the bucket.
func (s *FirebaseStorageService) DeleteFile(ctx context.Context, objectID string) error {
	if err := s.bucket.Object(objectID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func downloadURL(bucketName, objectPath, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucketName, url.PathEscape(objectPath), token)
}
