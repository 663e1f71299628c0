package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shailu9/MediaInfoApi/domain/archive"
	"github.com/shailu9/MediaInfoApi/domain/media"
)

// Service archives finished artifacts to remote storage, making room by
// deleting the oldest archived artifacts when the quota runs low
type Service struct {
	client   archive.Client
	sniffer  media.TypeSniffer
	folderID string
	output   io.Writer
}

// NewService creates a new archive service. The sniffer may be nil, in
// which case MIME types fall back to the artifact extension.
func NewService(client archive.Client, sniffer media.TypeSniffer, folderID string, output io.Writer) *Service {
	if output == nil {
		output = io.Discard
	}
	return &Service{
		client:   client,
		sniffer:  sniffer,
		folderID: folderID,
		output:   output,
	}
}

// Archive uploads a local artifact and shares it publicly. An existing
// archived file with the same name is replaced; quota headroom is ensured
// before the upload.
func (s *Service) Archive(ctx context.Context, localPath string) (*archive.UploadResult, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return nil, fmt.Errorf("artifact not readable: %w", err)
	}

	fileName := filepath.Base(localPath)

	cleanup, err := s.EnsureSpace(ctx, info.Size())
	if err != nil {
		return nil, fmt.Errorf("storage check failed: %w", err)
	}
	for _, df := range cleanup.DeletedFiles {
		fmt.Fprintf(s.output, "      Removed: %s (%.1f MB)\n", df.Name, float64(df.Size)/1024/1024)
	}

	// Replace any previously archived artifact of the same name
	existing, err := s.client.FindFileByName(ctx, s.folderID, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing file: %w", err)
	}
	if existing != nil {
		fmt.Fprintf(s.output, "      Replacing existing %s (%.1f MB)\n", existing.Name, float64(existing.Size)/1024/1024)
		if err := s.client.DeletePermanently(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete existing file %s: %w", existing.Name, err)
		}
	}

	req := archive.UploadRequest{
		LocalPath: localPath,
		FileName:  fileName,
		FolderID:  s.folderID,
		MimeType:  s.mimeTypeFor(localPath),
	}

	result, err := s.client.UploadAndShare(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to upload and share %s: %w", fileName, err)
	}

	return result, nil
}

// EnsureSpace deletes the oldest archived artifacts until neededBytes fit
// in the remaining quota. It returns what was deleted.
func (s *Service) EnsureSpace(ctx context.Context, neededBytes int64) (*archive.CleanupResult, error) {
	result := &archive.CleanupResult{}

	for {
		storage, err := s.client.GetStorageQuota(ctx)
		if err != nil {
			return result, fmt.Errorf("failed to check storage: %w", err)
		}

		if storage.HasSpaceFor(neededBytes) {
			return result, nil
		}

		files, err := s.client.ListArtifacts(ctx, s.folderID)
		if err != nil {
			return result, fmt.Errorf("failed to list artifacts: %w", err)
		}

		if len(files) == 0 {
			return result, fmt.Errorf("no archived artifacts to delete, need %d bytes but only %d available",
				neededBytes, storage.AvailableBytes)
		}

		oldest := files[0] // Sorted by creation time, oldest first

		if err := s.client.DeletePermanently(ctx, oldest.ID); err != nil {
			return result, fmt.Errorf("failed to delete %s: %w", oldest.Name, err)
		}

		result.DeletedFiles = append(result.DeletedFiles, archive.DeletedFile{
			Name: oldest.Name,
			Size: oldest.Size,
		})
		result.FreedBytes += oldest.Size
	}
}

// ListArchived lists the archived artifacts, oldest first
func (s *Service) ListArchived(ctx context.Context) ([]archive.FileInfo, error) {
	return s.client.ListArtifacts(ctx, s.folderID)
}

// mimeTypeFor determines the artifact MIME type by content, falling back
// to the filename extension
func (s *Service) mimeTypeFor(path string) string {
	if s.sniffer != nil {
		if mime, err := s.sniffer.DetectFile(path); err == nil && mime != "" {
			return mime
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return archive.MimeTypeMP3
	default:
		return archive.MimeTypeMP4
	}
}
