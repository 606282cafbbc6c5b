package utils

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"sinfony/config"

	"github.com/google/uuid"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var ErrUnsupportedFileType = errors.New("unsupported file type")

// SaveUploadedImage stores an uploaded image under destDir with a random
// filename and returns the stored path.
func SaveUploadedImage(file *multipart.FileHeader, destDir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return "", ErrUnsupportedFileType
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	filePath := filepath.Join(destDir, uuid.NewString()+ext)
	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return filePath, nil
}

// LocalFileURL builds the public URL for a locally served file.
func LocalFileURL(filePath string) string {
	if filePath == "" {
		return ""
	}
	return config.AppConfig.BaseURL + "/" + filepath.ToSlash(filePath)
}
