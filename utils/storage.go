package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sinfony/config"

	"github.com/go-resty/resty/v2"
)

type storageUploadResponse struct {
	URL string `json:"url"`
}

// UploadToStorage pushes a local file to the object storage service and
// returns the retrievable URL. When no storage endpoint is configured the
// file stays local and its local URL is returned instead.
func UploadToStorage(filePath string) (string, error) {
	if config.AppConfig.StorageBaseURL == "" {
		return LocalFileURL(filePath), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}

	client := resty.New().SetTimeout(30 * time.Second)

	var result storageUploadResponse
	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.StorageAPIKey).
		SetFileReader("file", filepath.Base(filePath), bytes.NewReader(data)).
		SetResult(&result).
		Post(config.AppConfig.StorageBaseURL + "/upload")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("storage upload failed with status %d", resp.StatusCode())
	}
	if result.URL == "" {
		return "", fmt.Errorf("storage upload returned no url")
	}

	// Local staging copy is no longer needed once the blob is remote.
	os.Remove(filePath)

	return result.URL, nil
}
