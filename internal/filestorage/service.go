// File: internal/filestorage/service.go
package filestorage

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"medical_assistant_backend/internal/common"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// sniffLen is how much of an upload is read to detect its type.
const sniffLen = 3072

var (
	ErrEmptyUpload     = common.ErrBadRequest.WithDetails("The uploaded file is empty.")
	ErrUploadTooLarge  = common.NewAPIError(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "The uploaded file exceeds the maximum allowed size.")
	ErrUnsupportedType = common.NewAPIError(http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "Only audio recordings can be uploaded.")
	ErrInvalidPath     = errors.New("invalid file path")
)

// StoredFile describes a file written by the service.
type StoredFile struct {
	RelativePath string // slash separated, relative to the storage root
	MIME         string
	Size         int64
	Checksum     string // hex BLAKE2b-256 of the content
}

// FileStorageService stores audio recordings on local disk.
type FileStorageService struct {
	storagePath string
	maxBytes    int64 // 0 means unlimited
	logger      *zap.Logger
}

// NewFileStorageService creates a new FileStorageService rooted at storagePath.
func NewFileStorageService(storagePath string, maxBytes int64, logger *zap.Logger) (*FileStorageService, error) {
	if storagePath == "" {
		return nil, fmt.Errorf("storage path cannot be empty")
	}
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		logger.Error("Failed to create storage path directory", zap.String("path", storagePath), zap.Error(err))
		return nil, fmt.Errorf("failed to create storage path %s: %w", storagePath, err)
	}
	logger.Info("FileStorageService initialized", zap.String("storagePath", storagePath), zap.Int64("maxBytes", maxBytes))
	return &FileStorageService{storagePath: storagePath, maxBytes: maxBytes, logger: logger}, nil
}

// IsAudio reports whether the detected type is an audio container we accept.
func IsAudio(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "audio/") || m.Is("video/3gpp") || m.Is("application/ogg") {
			return true
		}
	}
	return false
}

// SaveAudio sniffs the upload, rejects anything that is not audio and writes
// it under subDir with a slugged, unique name.
func (s *FileStorageService) SaveAudio(fileHeader *multipart.FileHeader, subDir string) (*StoredFile, error) {
	if fileHeader == nil {
		return nil, fmt.Errorf("fileHeader cannot be nil")
	}
	if fileHeader.Size == 0 {
		return nil, ErrEmptyUpload
	}
	if s.maxBytes > 0 && fileHeader.Size > s.maxBytes {
		return nil, ErrUploadTooLarge.WithDetails(fmt.Sprintf("%d bytes > %d bytes", fileHeader.Size, s.maxBytes))
	}

	src, err := fileHeader.Open()
	if err != nil {
		s.logger.Error("Failed to open uploaded file", zap.Error(err))
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	head = head[:n]

	mtype := mimetype.Detect(head)
	if !IsAudio(mtype) {
		s.logger.Warn("Rejected non-audio upload", zap.String("filename", fileHeader.Filename), zap.String("mime", mtype.String()))
		return nil, ErrUnsupportedType.WithDetails(mtype.String())
	}

	cleanSubDir, err := cleanRelative(subDir)
	if err != nil {
		s.logger.Error("Invalid subDir", zap.String("subDir", subDir))
		return nil, err
	}
	destinationDir := filepath.Join(s.storagePath, cleanSubDir)
	if err := os.MkdirAll(destinationDir, 0o755); err != nil {
		s.logger.Error("Failed to create sub-directory for file storage", zap.String("path", destinationDir), zap.Error(err))
		return nil, fmt.Errorf("failed to create directory %s: %w", destinationDir, err)
	}

	filename := uniqueFilename(fileHeader.Filename, mtype.Extension())
	destinationPath := filepath.Join(destinationDir, filename)

	dst, err := os.Create(destinationPath)
	if err != nil {
		s.logger.Error("Failed to create destination file", zap.String("path", destinationPath), zap.Error(err))
		return nil, fmt.Errorf("failed to create file %s: %w", destinationPath, err)
	}
	defer dst.Close()

	hasher, err := blake2b.New256(nil)
	if err != nil {
		_ = os.Remove(destinationPath)
		return nil, fmt.Errorf("failed to init checksum: %w", err)
	}
	written, err := io.Copy(io.MultiWriter(dst, hasher), io.MultiReader(bytes.NewReader(head), src))
	if err != nil {
		s.logger.Error("Failed to copy uploaded file to destination", zap.String("path", destinationPath), zap.Error(err))
		_ = os.Remove(destinationPath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	rel := filepath.ToSlash(filepath.Join(cleanSubDir, filename))
	s.logger.Info("Audio saved", zap.String("path", rel), zap.String("mime", mtype.String()), zap.Int64("size", written))
	return &StoredFile{
		RelativePath: rel,
		MIME:         mtype.String(),
		Size:         written,
		Checksum:     hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// uniqueFilename keeps a readable slug of the original name and makes it unique.
func uniqueFilename(original, extension string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	name := slug.Make(base)
	if name == "" {
		name = "recording"
	}
	if len(name) > 48 {
		name = strings.Trim(name[:48], "-")
	}
	return name + "-" + uuid.NewString()[:8] + extension
}

// FullPath resolves a stored relative path to its location on disk.
func (s *FileStorageService) FullPath(relativePath string) (string, error) {
	clean, err := cleanRelative(relativePath)
	if err != nil || clean == "." {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.storagePath, clean), nil
}

// DeleteFile deletes a file given its path relative to the storage root.
// A missing file is not an error.
func (s *FileStorageService) DeleteFile(relativePath string) error {
	if relativePath == "" {
		return fmt.Errorf("relative path cannot be empty")
	}
	fullPath, err := s.FullPath(relativePath)
	if err != nil {
		s.logger.Warn("Attempt to delete file with path traversal", zap.String("relativePath", relativePath))
		return fmt.Errorf("invalid file path for deletion: %w", err)
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("Attempt to delete non-existent file", zap.String("path", fullPath))
			return nil
		}
		s.logger.Error("Failed to delete file", zap.String("path", fullPath), zap.Error(err))
		return fmt.Errorf("failed to delete file %s: %w", fullPath, err)
	}

	s.logger.Info("File deleted successfully", zap.String("path", fullPath))
	return nil
}

func cleanRelative(p string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(p))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", ErrInvalidPath
	}
	return clean, nil
}
