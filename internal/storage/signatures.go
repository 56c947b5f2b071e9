package storage

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SignatureStore persists handwritten-signature images under the uploads
// directory and reads them back for PDF embedding.
type SignatureStore struct {
	dir    string
	logger *zap.Logger
}

func NewSignatureStore(dir string, logger *zap.Logger) (*SignatureStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &SignatureStore{dir: dir, logger: logger}, nil
}

// Save decodes a validated image data-URI and writes it to disk, returning
// the public URL path ("/uploads/signature_<identifier>_<ms>.png").
func (s *SignatureStore) Save(dataURI, identifier string) (string, error) {
	comma := strings.Index(dataURI, ",")
	if !strings.HasPrefix(dataURI, "data:image/") || comma < 0 {
		return "", fmt.Errorf("invalid signature data")
	}

	raw, err := base64.StdEncoding.DecodeString(dataURI[comma+1:])
	if err != nil {
		return "", fmt.Errorf("decode signature: %w", err)
	}

	filename := fmt.Sprintf("signature_%s_%d.png", identifier, time.Now().UnixMilli())
	if err := os.WriteFile(filepath.Join(s.dir, filename), raw, 0o644); err != nil {
		return "", fmt.Errorf("write signature: %w", err)
	}

	return "/uploads/" + filename, nil
}

// Read resolves an "/uploads/..." URL path back to file bytes. The caller
// treats a read failure as a blank signature, never as a fatal error.
func (s *SignatureStore) Read(urlPath string) ([]byte, error) {
	name := filepath.Base(strings.TrimPrefix(urlPath, "/uploads/"))
	if name == "." || name == "/" || name == "" {
		return nil, fmt.Errorf("empty signature path")
	}
	return os.ReadFile(filepath.Join(s.dir, name))
}

// Remove deletes a stored signature by its URL path.
func (s *SignatureStore) Remove(urlPath string) error {
	name := filepath.Base(strings.TrimPrefix(urlPath, "/uploads/"))
	if name == "." || name == "/" || name == "" {
		return fmt.Errorf("empty signature path")
	}
	return os.Remove(filepath.Join(s.dir, name))
}

func (s *SignatureStore) Dir() string {
	return s.dir
}

// ImageType sniffs the stored bytes; signatures are saved with a .png name
// regardless of the submitted format, so embedding goes by content.
func ImageType(data []byte) string {
	if len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 {
		return "JPEG"
	}
	return "PNG"
}
