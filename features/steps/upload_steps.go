//go:build integration

package steps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shailu9/MediaInfoApi/cmd"
	"github.com/shailu9/MediaInfoApi/domain/archive"

	"github.com/cucumber/godog"
)

// mockDriveClient implements the archive client port in memory. Deleting a
// file returns its size to the available quota so space cleanup terminates.
type mockDriveClient struct {
	files          []archive.FileInfo
	quota          archive.StorageInfo
	uploads        []archive.UploadRequest
	deletedFileIDs []string
	deletedNames   []string
	trashEmptied   bool
	uploadErr      error
	nextFileID     int
}

func newMockDriveClient() *mockDriveClient {
	return &mockDriveClient{
		quota: archive.StorageInfo{
			TotalBytes:     15 * 1024 * 1024 * 1024,
			AvailableBytes: 15 * 1024 * 1024 * 1024,
		},
		nextFileID: 1,
	}
}

func (m *mockDriveClient) ListFiles(ctx context.Context, folderID string) ([]archive.FileInfo, error) {
	return m.files, nil
}

func (m *mockDriveClient) ListArtifacts(ctx context.Context, folderID string) ([]archive.FileInfo, error) {
	return m.files, nil
}

func (m *mockDriveClient) FindFileByName(ctx context.Context, folderID, name string) (*archive.FileInfo, error) {
	for i := range m.files {
		if m.files[i].Name == name {
			found := m.files[i]
			return &found, nil
		}
	}
	return nil, nil
}

func (m *mockDriveClient) GetStorageQuota(ctx context.Context) (*archive.StorageInfo, error) {
	quota := m.quota
	return &quota, nil
}

func (m *mockDriveClient) UploadAndShare(ctx context.Context, req archive.UploadRequest) (*archive.UploadResult, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}

	info, err := os.Stat(req.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}

	fileID := fmt.Sprintf("uploaded-file-%d", m.nextFileID)
	m.nextFileID++

	m.uploads = append(m.uploads, req)
	return &archive.UploadResult{
		FileID:       fileID,
		FileName:     req.FileName,
		ShareableURL: fmt.Sprintf("https://drive.google.com/file/d/%s/view?usp=sharing", fileID),
		Size:         info.Size(),
	}, nil
}

func (m *mockDriveClient) DeletePermanently(ctx context.Context, fileID string) error {
	for i := range m.files {
		if m.files[i].ID == fileID {
			m.deletedFileIDs = append(m.deletedFileIDs, fileID)
			m.deletedNames = append(m.deletedNames, m.files[i].Name)
			m.quota.AvailableBytes += m.files[i].Size
			m.quota.UsedBytes -= m.files[i].Size
			m.files = append(m.files[:i], m.files[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("file %s not found", fileID)
}

func (m *mockDriveClient) EmptyTrash(ctx context.Context) error {
	m.trashEmptied = true
	return nil
}

// uploadContext holds test state for upload scenarios
type uploadContext struct {
	folderID     string
	artifactPath string
	client       *mockDriveClient
	sniffer      *mockSniffer
	output       *bytes.Buffer
	err          error
}

// SharedUploadContext is reset before each scenario via Before hook
var SharedUploadContext *uploadContext

func getUploadContext() *uploadContext {
	return SharedUploadContext
}

func InitializeUploadScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		SharedUploadContext = &uploadContext{
			client:  newMockDriveClient(),
			sniffer: &mockSniffer{types: make(map[string]string)},
			output:  &bytes.Buffer{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		// Clean up test files if created
		if SharedUploadContext != nil && SharedUploadContext.artifactPath != "" {
			os.Remove(SharedUploadContext.artifactPath)
		}
		SharedUploadContext = nil
		return c, nil
	})

	ctx.Step(`^the archive folder ID is "([^"]*)"$`, theArchiveFolderIDIs)
	ctx.Step(`^a local artifact "([^"]*)" of (\d+) bytes$`, aLocalArtifactOfBytes)
	ctx.Step(`^no local artifact exists at "([^"]*)"$`, noLocalArtifactExistsAt)
	ctx.Step(`^the archive has (\d+) bytes available$`, theArchiveHasBytesAvailable)
	ctx.Step(`^the archive already holds:$`, theArchiveAlreadyHolds)
	ctx.Step(`^the remote upload will fail with "([^"]*)"$`, theRemoteUploadWillFailWith)
	ctx.Step(`^I upload the artifact$`, iUploadTheArtifact)
	ctx.Step(`^the upload should report success$`, theUploadShouldReportSuccess)
	ctx.Step(`^the uploaded request should target folder "([^"]*)"$`, theUploadedRequestShouldTargetFolder)
	ctx.Step(`^the uploaded MIME type should be "([^"]*)"$`, theUploadedMIMETypeShouldBe)
	ctx.Step(`^the upload output should mention "([^"]*)"$`, theUploadOutputShouldMention)
	ctx.Step(`^the upload output should not mention "([^"]*)"$`, theUploadOutputShouldNotMention)
	ctx.Step(`^the archived file "([^"]*)" should have been deleted$`, theArchivedFileShouldHaveBeenDeleted)
	ctx.Step(`^the archived file "([^"]*)" should not have been deleted$`, theArchivedFileShouldNotHaveBeenDeleted)
	ctx.Step(`^no archived files should have been deleted$`, noArchivedFilesShouldHaveBeenDeleted)
	ctx.Step(`^the upload should fail mentioning "([^"]*)"$`, theUploadShouldFailMentioning)
}

func theArchiveFolderIDIs(folderID string) error {
	u := getUploadContext()
	u.folderID = folderID
	return nil
}

func aLocalArtifactOfBytes(name string, size int) error {
	u := getUploadContext()
	if err := os.WriteFile(name, bytes.Repeat([]byte("x"), size), 0o644); err != nil {
		return fmt.Errorf("failed to create test file: %v", err)
	}
	u.artifactPath = name
	return nil
}

func noLocalArtifactExistsAt(name string) error {
	u := getUploadContext()
	u.artifactPath = name
	return nil
}

func theArchiveHasBytesAvailable(available int) error {
	u := getUploadContext()
	u.client.quota.AvailableBytes = int64(available)
	u.client.quota.UsedBytes = u.client.quota.TotalBytes - int64(available)
	return nil
}

func theArchiveAlreadyHolds(table *godog.Table) error {
	u := getUploadContext()

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		// Columns: id, name, size; rows listed oldest first
		size := int64(0)
		fmt.Sscanf(row.Cells[2].Value, "%d", &size)
		u.client.files = append(u.client.files, archive.FileInfo{
			ID:   row.Cells[0].Value,
			Name: row.Cells[1].Value,
			Size: size,
		})
	}
	return nil
}

func theRemoteUploadWillFailWith(message string) error {
	u := getUploadContext()
	u.client.uploadErr = errors.New(message)
	return nil
}

func iUploadTheArtifact() error {
	u := getUploadContext()

	u.err = cmd.RunUploadWithDependencies(
		context.Background(),
		u.client,
		u.sniffer,
		u.folderID,
		u.artifactPath,
		u.output,
	)
	return nil
}

func theUploadShouldReportSuccess() error {
	u := getUploadContext()
	if u.err != nil {
		return fmt.Errorf("expected upload to succeed, but got error: %v", u.err)
	}
	if !strings.Contains(u.output.String(), "Uploaded successfully!") {
		return fmt.Errorf("expected success message, got: %s", u.output.String())
	}
	return nil
}

func theUploadedRequestShouldTargetFolder(folderID string) error {
	u := getUploadContext()
	if len(u.client.uploads) == 0 {
		return fmt.Errorf("nothing was uploaded")
	}
	if got := u.client.uploads[0].FolderID; got != folderID {
		return fmt.Errorf("expected folder %q, got %q", folderID, got)
	}
	return nil
}

func theUploadedMIMETypeShouldBe(mimeType string) error {
	u := getUploadContext()
	if len(u.client.uploads) == 0 {
		return fmt.Errorf("nothing was uploaded")
	}
	if got := u.client.uploads[0].MimeType; got != mimeType {
		return fmt.Errorf("expected MIME type %q, got %q", mimeType, got)
	}
	return nil
}

func theUploadOutputShouldMention(expected string) error {
	u := getUploadContext()
	if !strings.Contains(u.output.String(), expected) {
		return fmt.Errorf("expected output to mention %q, got: %s", expected, u.output.String())
	}
	return nil
}

func theUploadOutputShouldNotMention(unexpected string) error {
	u := getUploadContext()
	if strings.Contains(u.output.String(), unexpected) {
		return fmt.Errorf("expected output NOT to mention %q, but it did: %s", unexpected, u.output.String())
	}
	return nil
}

func theArchivedFileShouldHaveBeenDeleted(name string) error {
	u := getUploadContext()
	for _, deleted := range u.client.deletedNames {
		if deleted == name {
			return nil
		}
	}
	return fmt.Errorf("expected %q to be deleted, but it wasn't (deleted: %v)", name, u.client.deletedNames)
}

func theArchivedFileShouldNotHaveBeenDeleted(name string) error {
	u := getUploadContext()
	for _, deleted := range u.client.deletedNames {
		if deleted == name {
			return fmt.Errorf("expected %q to survive, but it was deleted", name)
		}
	}
	return nil
}

func noArchivedFilesShouldHaveBeenDeleted() error {
	u := getUploadContext()
	if len(u.client.deletedFileIDs) > 0 {
		return fmt.Errorf("expected no deletions, but %d files were deleted: %v", len(u.client.deletedFileIDs), u.client.deletedNames)
	}
	return nil
}

func theUploadShouldFailMentioning(expected string) error {
	u := getUploadContext()
	if u.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(u.err.Error(), expected) {
		return fmt.Errorf("expected error mentioning %q, got: %v", expected, u.err)
	}
	return nil
}
