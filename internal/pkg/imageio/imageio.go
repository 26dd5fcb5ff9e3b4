// Package imageio converts between base64 image payloads and files on disk.
package imageio

import (
	"encoding/base64"
	"fmt"
	"os"
)

// SaveImageFromB64 decodes a base64 payload and writes it to path.
func SaveImageFromB64(b64 string, path string) error {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return fmt.Errorf("failed to decode image payload: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}

	return nil
}

// LoadImageToB64 reads the file at path and returns it base64-encoded.
func LoadImageToB64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image file: %w", err)
	}

	return base64.StdEncoding.EncodeToString(data), nil
}
