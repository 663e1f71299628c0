package archive

// UploadRequest contains the parameters needed to archive an artifact
type UploadRequest struct {
	LocalPath string // Full path to the local file
	FileName  string // Target filename in the archive folder
	FolderID  string // Target folder ID
	MimeType  string // MIME type of the file
}

// UploadResult contains the result of a successful upload
type UploadResult struct {
	FileID       string // Remote file ID
	FileName     string // Name of the uploaded file
	ShareableURL string // URL for sharing the file
	Size         int64  // Size of the uploaded file in bytes
}

// Fallback MIME types for artifacts whose content cannot be sniffed
const (
	MimeTypeMP4 = "video/mp4"
	MimeTypeMP3 = "audio/mpeg"
)
