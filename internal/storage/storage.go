package storage

import (
	"context"
	"fmt"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// PlanArchive stores exported plan documents in object storage.
type PlanArchive interface {
	// PutObject uploads body under objectKey.
	PutObject(ctx context.Context, objectKey string, body []byte, contentType string) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}

// PlanKey is the object key of an exported plan.
func PlanKey(userID, planID string) string {
	return fmt.Sprintf("plans/%s/%s.json", userID, planID)
}
