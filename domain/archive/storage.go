package archive

// StorageInfo represents remote storage quota information
type StorageInfo struct {
	TotalBytes     int64
	UsedBytes      int64
	AvailableBytes int64
}

// HasSpaceFor returns true if there's enough space for the given bytes
func (s StorageInfo) HasSpaceFor(bytes int64) bool {
	return s.AvailableBytes >= bytes
}

// CleanupResult contains information about files deleted during cleanup
type CleanupResult struct {
	DeletedFiles []DeletedFile
	FreedBytes   int64
}

// DeletedFile represents a file that was deleted
type DeletedFile struct {
	Name string
	Size int64
}
