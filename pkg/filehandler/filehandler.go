package filehandler

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
)

/*
File explanation:
This file contains utility functions for file handling: detecting image formats,
reading files with a size limit, hashing inputs, saving outputs and listing the
images in a directory. Decoding and encoding of the images themselves lives in
image.go, container metadata in pngtext.go and jpegmeta.go.
*/

// DefaultMaxFileSize is the largest input accepted when no limit is configured
const DefaultMaxFileSize int64 = 100 * 1024 * 1024

var (
	// ErrUnsupportedFormat means the container cannot be decoded or written
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrMetadataUnsupported means the container has no place for a text comment
	ErrMetadataUnsupported = errors.New("image format cannot carry metadata")
	// ErrFileTooLarge means the input exceeds the configured size limit
	ErrFileTooLarge = errors.New("file too large")
)

// SupportedImageFormats is a map of file extensions to their format names
var SupportedImageFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
	".webp": "webp",
}

// ImageExtensions returns the supported extensions, e.g. for FilesInDirectory
func ImageExtensions() []string {
	exts := make([]string, 0, len(SupportedImageFormats))
	for ext := range SupportedImageFormats {
		exts = append(exts, ext)
	}
	return exts
}

// DetectFileFormat detects the format of a file
func DetectFileFormat(filePath string) (string, error) {
	// First check extension
	ext := strings.ToLower(filepath.Ext(filePath))
	if format, ok := SupportedImageFormats[ext]; ok {
		return format, nil
	}

	// If extension not recognized, try to detect by content
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return sniffFormat(file)
}

// DetectBytesFormat detects the container format of an in-memory image
func DetectBytesFormat(data []byte) (string, error) {
	return sniffFormat(bytes.NewReader(data))
}

func sniffFormat(r io.Reader) (string, error) {
	_, format, err := image.DecodeConfig(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return format, nil
}

// FormatForPath returns the format implied by the extension of an output path
func FormatForPath(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if format, ok := SupportedImageFormats[ext]; ok {
		return format, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// ExtensionForFormat returns the canonical file extension for a format
func ExtensionForFormat(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "tiff":
		return ".tiff"
	case "":
		return ".png"
	}
	return "." + format
}

// IsLossless reports whether pixel values survive a save in this format
func IsLossless(format string) bool {
	switch format {
	case "png", "bmp", "tiff":
		return true
	}
	return false
}

// CanCarryMetadata reports whether the format can store a text comment
func CanCarryMetadata(format string) bool {
	return format == "png" || format == "jpeg"
}

// ReadFileBytes reads a file and returns its content as a byte array.
// Files larger than maxSize are rejected; maxSize <= 0 means DefaultMaxFileSize.
func ReadFileBytes(filePath string, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	size := info.Size()
	if size > maxSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, size, maxSize)
	}

	content := make([]byte, size)
	_, err = io.ReadFull(file, content)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return content, nil
}

// SHA256 returns the hex digest of data
func SHA256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SaveFile saves data to a file
func SaveFile(data []byte, filePath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}

	return nil
}

// IsImageFile checks if a file is an image based on extension
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := SupportedImageFormats[ext]
	return ok
}

// GetFileSize returns the size of a file in bytes
func GetFileSize(filePath string) (int64, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return 0, err
	}
	return fileInfo.Size(), nil
}

// FilesInDirectory returns a list of files in a directory with the given extensions
func FilesInDirectory(dirPath string, extensions []string) ([]string, error) {
	var files []string

	// Check if directory exists
	info, err := os.Stat(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dirPath)
	}

	err = filepath.WalkDir(dirPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		if len(extensions) == 0 {
			files = append(files, path)
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		for _, validExt := range extensions {
			if ext == validExt {
				files = append(files, path)
				break
			}
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}
