package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// BlobStore uploads media and returns stable public URLs. Incident photos
// and chat media both go through here; the resulting URL is what gets
// persisted on the document.
type BlobStore interface {
	Upload(ctx context.Context, request *UploadRequest) (*UploadResponse, error)
	Delete(ctx context.Context, key string) error
}

type UploadRequest struct {
	Key         string            `json:"key"`
	Reader      io.Reader         `json:"-"`
	ContentType string            `json:"content_type"`
	Size        int64             `json:"size"`
	Metadata    map[string]string `json:"metadata"`
}

type UploadResponse struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
	ETag string `json:"etag,omitempty"`
}

// IncidentPhotoKey builds the object key for an incident photo. The
// reporter uid and a timestamp keep concurrent uploads from colliding.
func IncidentPhotoKey(reporterUID, filename string, now time.Time) string {
	return fmt.Sprintf("incidents/%s/%s-%d", reporterUID, filename, now.UnixMilli())
}

// ChatMediaKey builds the object key for a chat attachment.
func ChatMediaKey(incidentID, filename string, now time.Time) string {
	return fmt.Sprintf("chats/%s/%d_%s", incidentID, now.UnixMilli(), filename)
}
