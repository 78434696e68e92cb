package backup

import "context"

// BackupService exports and restores all engine data as one JSON document
type BackupService interface {
	Export(ctx context.Context) (Document, error)

	// Restore validates doc and replaces every shift, event and status with it
	Restore(ctx context.Context, doc Document) (RestoreResponse, error)
}
