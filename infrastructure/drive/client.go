package drive

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/shailu9/MediaInfoApi/domain/archive"
)

// DriveService defines the interface for Google Drive API operations
// This allows mocking the Google Drive API in tests
type DriveService interface {
	ListFiles(ctx context.Context, query string, fields string, orderBy string) ([]*drive.File, error)
	GetAbout(ctx context.Context, fields string) (*drive.About, error)
	CreateFile(ctx context.Context, file *drive.File, content io.Reader) (*drive.File, error)
	CreatePermission(ctx context.Context, fileID string, perm *drive.Permission) error
	DeleteFile(ctx context.Context, fileID string) error
	EmptyTrash(ctx context.Context) error
}

// GoogleDriveService is the production implementation using the Google Drive API
type GoogleDriveService struct {
	service *drive.Service
}

// ListFiles lists files matching the query
func (s *GoogleDriveService) ListFiles(ctx context.Context, query string, fields string, orderBy string) ([]*drive.File, error) {
	r, err := s.service.Files.List().
		Q(query).
		Fields(googleapi.Field("files(" + fields + ")")).
		OrderBy(orderBy).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return r.Files, nil
}

// GetAbout fetches account information
func (s *GoogleDriveService) GetAbout(ctx context.Context, fields string) (*drive.About, error) {
	return s.service.About.Get().
		Fields(googleapi.Field(fields)).
		Context(ctx).
		Do()
}

// CreateFile uploads a new file with the given content
func (s *GoogleDriveService) CreateFile(ctx context.Context, file *drive.File, content io.Reader) (*drive.File, error) {
	return s.service.Files.Create(file).
		Media(content).
		Fields("id, name, size, webViewLink").
		Context(ctx).
		Do()
}

// CreatePermission adds a permission to a file
func (s *GoogleDriveService) CreatePermission(ctx context.Context, fileID string, perm *drive.Permission) error {
	_, err := s.service.Permissions.Create(fileID, perm).
		Context(ctx).
		Do()
	return err
}

// DeleteFile deletes a file permanently
func (s *GoogleDriveService) DeleteFile(ctx context.Context, fileID string) error {
	return s.service.Files.Delete(fileID).
		Context(ctx).
		Do()
}

// EmptyTrash empties the trash
func (s *GoogleDriveService) EmptyTrash(ctx context.Context) error {
	return s.service.Files.EmptyTrash().
		Context(ctx).
		Do()
}

// Client implements archive.Client using the Google Drive API
type Client struct {
	driveService DriveService
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithDriveService sets a custom drive service (for testing)
func WithDriveService(svc DriveService) ClientOption {
	return func(c *Client) {
		c.driveService = svc
	}
}

// NewClient creates a new Google Drive client authenticated with a service
// account. If no options are provided, it initializes a real Google Drive
// service.
func NewClient(ctx context.Context, credentialsPath string, opts ...ClientOption) (*Client, error) {
	c := &Client{}

	for _, opt := range opts {
		opt(c)
	}

	// If no custom drive service was provided, create a real one
	if c.driveService == nil {
		svc, err := newGoogleDriveService(ctx, credentialsPath)
		if err != nil {
			return nil, err
		}
		c.driveService = svc
	}

	return c, nil
}

// newGoogleDriveService creates a production Google Drive service
func newGoogleDriveService(ctx context.Context, credentialsPath string) (*GoogleDriveService, error) {
	b, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(b, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	client := config.Client(ctx)
	srv, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive service: %w", err)
	}

	return &GoogleDriveService{service: srv}, nil
}

// ListFiles implements archive.Client
func (c *Client) ListFiles(ctx context.Context, folderID string) ([]archive.FileInfo, error) {
	query := fmt.Sprintf("'%s' in parents and trashed = false", folderID)
	files, err := c.driveService.ListFiles(ctx, query, "id, name, mimeType, size, createdTime", "name")
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return toFileInfos(files), nil
}

// ListArtifacts implements archive.Client. Only media files count; oldest
// first so cleanup can walk the slice in deletion order.
func (c *Client) ListArtifacts(ctx context.Context, folderID string) ([]archive.FileInfo, error) {
	query := fmt.Sprintf(
		"'%s' in parents and trashed = false and (mimeType contains 'video/' or mimeType contains 'audio/')",
		folderID)
	files, err := c.driveService.ListFiles(ctx, query, "id, name, mimeType, size, createdTime", "createdTime")
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return toFileInfos(files), nil
}

// FindFileByName implements archive.Client
func (c *Client) FindFileByName(ctx context.Context, folderID, name string) (*archive.FileInfo, error) {
	escaped := strings.ReplaceAll(name, `'`, `\'`)
	query := fmt.Sprintf("'%s' in parents and name = '%s' and trashed = false", folderID, escaped)

	files, err := c.driveService.ListFiles(ctx, query, "id, name, mimeType, size, createdTime", "name")
	if err != nil {
		return nil, fmt.Errorf("failed to search for %s: %w", name, err)
	}
	if len(files) == 0 {
		return nil, nil
	}

	info := toFileInfo(files[0])
	return &info, nil
}

// GetStorageQuota implements archive.Client. An account without a quota
// limit reports unbounded available space.
func (c *Client) GetStorageQuota(ctx context.Context) (*archive.StorageInfo, error) {
	about, err := c.driveService.GetAbout(ctx, "storageQuota")
	if err != nil {
		return nil, fmt.Errorf("failed to get storage quota: %w", err)
	}

	quota := about.StorageQuota
	if quota == nil {
		return nil, fmt.Errorf("storage quota missing from response")
	}

	info := &archive.StorageInfo{
		TotalBytes: quota.Limit,
		UsedBytes:  quota.Usage,
	}
	if quota.Limit == 0 {
		info.AvailableBytes = math.MaxInt64
	} else {
		info.AvailableBytes = quota.Limit - quota.Usage
	}
	return info, nil
}

// UploadAndShare implements archive.Client
func (c *Client) UploadAndShare(ctx context.Context, req archive.UploadRequest) (*archive.UploadResult, error) {
	f, err := os.Open(req.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", req.LocalPath, err)
	}
	defer f.Close()

	meta := &drive.File{
		Name:     req.FileName,
		MimeType: req.MimeType,
	}
	if req.FolderID != "" {
		meta.Parents = []string{req.FolderID}
	}

	uploaded, err := c.driveService.CreateFile(ctx, meta, f)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", req.FileName, err)
	}

	perm := &drive.Permission{Type: "anyone", Role: "reader"}
	if err := c.driveService.CreatePermission(ctx, uploaded.Id, perm); err != nil {
		return nil, fmt.Errorf("failed to share %s: %w", req.FileName, err)
	}

	url := uploaded.WebViewLink
	if url == "" {
		url = fmt.Sprintf("https://drive.google.com/file/d/%s/view", uploaded.Id)
	}

	return &archive.UploadResult{
		FileID:       uploaded.Id,
		FileName:     uploaded.Name,
		ShareableURL: url,
		Size:         uploaded.Size,
	}, nil
}

// DeletePermanently implements archive.Client
func (c *Client) DeletePermanently(ctx context.Context, fileID string) error {
	if err := c.driveService.DeleteFile(ctx, fileID); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}
	return nil
}

// EmptyTrash implements archive.Client
func (c *Client) EmptyTrash(ctx context.Context) error {
	if err := c.driveService.EmptyTrash(ctx); err != nil {
		return fmt.Errorf("failed to empty trash: %w", err)
	}
	return nil
}

func toFileInfos(files []*drive.File) []archive.FileInfo {
	var result []archive.FileInfo
	for _, f := range files {
		result = append(result, toFileInfo(f))
	}
	return result
}

func toFileInfo(f *drive.File) archive.FileInfo {
	return archive.FileInfo{
		ID:          f.Id,
		Name:        f.Name,
		MimeType:    f.MimeType,
		Size:        f.Size,
		CreatedTime: parseTime(f.CreatedTime),
	}
}

// parseTime parses a Google Drive timestamp string
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Ensure Client implements archive.Client
var _ archive.Client = (*Client)(nil)
