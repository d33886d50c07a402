package filestorage

import (
	"mime/multipart"
)

// FileStorage defines the interface for file storage operations.
// Callers only ever see the returned URL; where the bytes live is opaque.
type FileStorage interface {
	// SaveFile saves a file and returns the URL it can be fetched from
	SaveFile(fileHeader *multipart.FileHeader) (string, error)

	// SaveFileWithPath lets you specify a subdirectory for storing the file
	SaveFileWithPath(fileHeader *multipart.FileHeader, path string) (string, error)

	// DeleteFile removes a file previously returned by SaveFile*
	DeleteFile(fileURL string) error
}
