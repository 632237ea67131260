package utils

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tabasaranec/blogapi/config"
)

// ErrUnsupportedFileType is returned for uploads outside the image allow-list.
var ErrUnsupportedFileType = errors.New("unsupported file type")

var imageExtByType = map[string]string{
	"image/png":  ".png",
	"image/jpg":  ".jpg",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// SaveImage stores one uploaded image under an opaque generated name inside
// the static tree and returns the stored file name.
func SaveImage(fh *multipart.FileHeader, subdir string) (string, error) {
	ext, ok := imageExtByType[fh.Header.Get("Content-Type")]
	if !ok {
		return "", ErrUnsupportedFileType
	}

	dir := filepath.Join(config.Get().StaticDir, "images", subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}
	return name, nil
}

// RemoveImage deletes a previously stored image. A missing file is not an
// error; anything else is only logged.
func RemoveImage(name, subdir string) {
	if name == "" {
		return
	}
	path := filepath.Join(config.Get().StaticDir, "images", subdir, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) && Sugar != nil {
		Sugar.Warnf("remove image failed path=%s err=%v", path, err)
	}
}

// SaveImages stores a batch of uploaded images, failing on the first bad one.
func SaveImages(fhs []*multipart.FileHeader, subdir string) ([]string, error) {
	names := make([]string, 0, len(fhs))
	for _, fh := range fhs {
		name, err := SaveImage(fh, subdir)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}
