package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/yigit/hostelhub/internal/pkg/logger"
)

// MaxImageDimension is the longest side kept for uploaded photos.
const MaxImageDimension = 1600

// MaxUploadSize caps a single upload.
const MaxUploadSize = 10 << 20

// ErrUnsupportedFileType is returned for uploads that are not images
var ErrUnsupportedFileType = errors.New("only JPEG and PNG images are accepted")

// ErrFileTooLarge is returned for uploads over MaxUploadSize
var ErrFileTooLarge = errors.New("uploaded file is too large")

var imageFormats = map[string]imaging.Format{
	".jpg":  imaging.JPEG,
	".jpeg": imaging.JPEG,
	".png":  imaging.PNG,
}

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // The root directory where files will be stored
	baseURL  string // The public URL the root directory is served under
}

// NewLocalStorage creates a new LocalStorage instance.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// SaveFileWithPath saves an uploaded image to a subdirectory, downscaling it
// when its longest side exceeds MaxImageDimension.
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}
	if fileHeader.Size > MaxUploadSize {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	format, ok := imageFormats[ext]
	if !ok {
		return "", ErrUnsupportedFileType
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	subPath = strings.Trim(filepath.ToSlash(filepath.Clean("/"+subPath)), "/")
	fullDirPath := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	uniqueFilename := uuid.New().String() + ext
	dstPath := filepath.Join(fullDirPath, uniqueFilename)

	if err := writeImage(file, dstPath, format); err != nil {
		_ = os.Remove(dstPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to store uploaded image")
		return "", err
	}

	relative := uniqueFilename
	if subPath != "" {
		relative = subPath + "/" + uniqueFilename
	}
	accessiblePath := ls.baseURL + "/" + relative

	logger.Info().Str("filename", fileHeader.Filename).Str("accessible_path", accessiblePath).Msg("File saved successfully")
	return accessiblePath, nil
}

func writeImage(src io.Reader, dstPath string, format imaging.Format) error {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedFileType, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > MaxImageDimension || bounds.Dy() > MaxImageDimension {
		img = imaging.Fit(img, MaxImageDimension, MaxImageDimension, imaging.Lanczos)
	}

	dst, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if err := imaging.Encode(dst, img, format, imaging.JPEGQuality(85)); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// SaveFile saves an uploaded file at the storage root
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader) (string, error) {
	return ls.SaveFileWithPath(fileHeader, "")
}

// DeleteFile removes a file given the URL SaveFileWithPath returned.
// Missing files are not an error.
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	physicalPath, err := ls.physicalPath(fileURL)
	if err != nil {
		return err
	}

	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

func (ls *LocalStorage) physicalPath(fileURL string) (string, error) {
	relative := strings.TrimPrefix(fileURL, ls.baseURL)
	relative = strings.Trim(filepath.ToSlash(filepath.Clean("/"+relative)), "/")
	if relative == "" || relative == "." {
		return "", fmt.Errorf("invalid file path: %s", fileURL)
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(relative)), nil
}
