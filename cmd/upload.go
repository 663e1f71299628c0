package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	apparchive "github.com/shailu9/MediaInfoApi/application/archive"
	"github.com/shailu9/MediaInfoApi/domain/archive"
	"github.com/shailu9/MediaInfoApi/domain/media"
	"github.com/shailu9/MediaInfoApi/infrastructure/drive"
	"github.com/shailu9/MediaInfoApi/infrastructure/filesystem"

	"github.com/spf13/cobra"
)

var uploadFilePath string

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Archive a file to Google Drive with public sharing",
	Long: `Upload a file to the configured Google Drive folder and set public sharing.

The file is made accessible with "anyone with the link" permission. An
already archived file with the same name is replaced, and the oldest
archived artifacts are deleted first when quota headroom is needed.

Example:
  mediainfo-api upload --file /srv/artifacts/session-trimmed.mp4`,
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().StringVar(&uploadFilePath, "file", "", "Path to the file to upload (required)")
	uploadCmd.MarkFlagRequired("file")
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	if cfg.Archive.FolderID == "" {
		return fmt.Errorf("archive.folder_id is not configured; run 'mediainfo-api setup' first")
	}

	// Create drive client with OAuth
	ctx := cmd.Context()
	client, err := drive.NewClientWithOAuth(ctx, drive.OAuthConfig{
		CredentialsFile: cfg.Google.CredentialsFile,
		TokenFile:       cfg.Google.TokenFile,
	})
	if err != nil {
		return fmt.Errorf("failed to create Google Drive client: %w", err)
	}

	return RunUploadWithDependencies(
		ctx,
		client,
		filesystem.NewSniffer(),
		cfg.Archive.FolderID,
		uploadFilePath,
		os.Stdout,
	)
}

// RunUploadWithDependencies runs the upload command with injected dependencies (for testing)
func RunUploadWithDependencies(
	ctx context.Context,
	client archive.Client,
	sniffer media.TypeSniffer,
	folderID string,
	filePath string,
	output io.Writer,
) error {
	service := apparchive.NewService(client, sniffer, folderID, output)

	fmt.Fprintf(output, "Uploading: %s...\n", filepath.Base(filePath))
	result, err := service.Archive(ctx, filePath)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Fprintf(output, "Uploaded successfully!\n")
	fmt.Fprintf(output, "  File ID: %s\n", result.FileID)
	fmt.Fprintf(output, "  Size: %.2f MB\n", float64(result.Size)/1024/1024)
	fmt.Fprintf(output, "  Shareable URL: %s\n", result.ShareableURL)
	return nil
}
