package archive

import (
	"context"
	"time"
)

// Client defines the operations the service needs from remote artifact
// storage. This is a port implemented by the Google Drive adapter.
type Client interface {
	// ListFiles lists files in a folder
	ListFiles(ctx context.Context, folderID string) ([]FileInfo, error)

	// ListArtifacts lists media files in a folder sorted by creation time,
	// oldest first
	ListArtifacts(ctx context.Context, folderID string) ([]FileInfo, error)

	// FindFileByName returns the file with the given name in a folder, or
	// nil when no such file exists
	FindFileByName(ctx context.Context, folderID, name string) (*FileInfo, error)

	// GetStorageQuota returns the current storage quota information
	GetStorageQuota(ctx context.Context) (*StorageInfo, error)

	// UploadAndShare uploads a file and makes it publicly readable,
	// returning its shareable URL
	UploadAndShare(ctx context.Context, req UploadRequest) (*UploadResult, error)

	// DeletePermanently deletes a file permanently, bypassing trash
	DeletePermanently(ctx context.Context, fileID string) error

	// EmptyTrash empties the trash permanently
	EmptyTrash(ctx context.Context) error
}

// FileInfo represents metadata about a stored file
type FileInfo struct {
	ID          string
	Name        string
	MimeType    string
	Size        int64
	CreatedTime time.Time
}
