package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/localnerve/storefront/internal/types"
	"go.uber.org/zap"
)

// MaxImageSize bounds an uploaded product image in bytes
const MaxImageSize = 5 << 20

// MsgNotAnImage is returned for missing or non-image uploads
const MsgNotAnImage = "Make sure that the file is an image"

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

// FileStore keeps product images on local disk
type FileStore struct {
	dir     string
	baseURL string
}

// NewFileStore serves images from dir, linked under hostAPI/files/product
func NewFileStore(dir, hostAPI string) *FileStore {
	return &FileStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(hostAPI, "/") + "/files/product/",
	}
}

// SaveProductImage sniffs the upload, stores it as <uuid>.<ext> and returns the file
// name and its public URL
func (s *FileStore) SaveProductImage(src io.Reader) (string, string, error) {
	data, err := io.ReadAll(io.LimitReader(src, MaxImageSize+1))
	if err != nil {
		return "", "", types.NewValidation(MsgNotAnImage)
	}
	if len(data) > MaxImageSize {
		return "", "", types.NewValidation(fmt.Sprintf("Image exceeds %d bytes", MaxImageSize))
	}

	mime := mimetype.Detect(data)
	if !mimetype.EqualsAny(mime.String(), allowedImageTypes...) {
		return "", "", types.NewValidation(MsgNotAnImage)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		zap.L().Error("Failed to create image directory", zap.String("dir", s.dir), zap.Error(err))
		return "", "", types.NewInternal()
	}

	name := uuid.NewString() + mime.Extension()
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		zap.L().Error("Failed to store image", zap.String("name", name), zap.Error(err))
		return "", "", types.NewInternal()
	}

	return name, s.baseURL + name, nil
}

// ProductImagePath resolves a stored image name to its path. Directory components
// of imageName are ignored.
func (s *FileStore) ProductImagePath(imageName string) (string, error) {
	name := filepath.Base(filepath.Clean("/" + imageName))
	if name == "/" || name == "." {
		return "", types.NewValidation(fmt.Sprintf("No product found with image %s", imageName))
	}

	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", types.NewValidation(fmt.Sprintf("No product found with image %s", imageName))
	}
	return path, nil
}
