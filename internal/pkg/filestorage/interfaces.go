package filestorage

import (
	"mime/multipart"
)

// StoredFile describes a file written to storage
type StoredFile struct {
	Path     string // relative to the storage root, slash separated
	FileName string // generated name on disk
	URL      string // public URL, empty without a base URL
	Size     int64
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// Save writes an uploaded file under subPath with a generated unique name
	Save(fileHeader *multipart.FileHeader, subPath string) (*StoredFile, error)

	// Delete removes a stored file; a missing file is not an error
	Delete(relPath string) error

	// FullPath returns the filesystem path of a stored file
	FullPath(relPath string) (string, error)
}
