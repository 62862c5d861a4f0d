package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStorage saves an uploaded file and returns its public URL. The real
// deployment plugs in an object-store client; tests inject a stub.
type FileStorage interface {
	Save(file *multipart.FileHeader) (string, error)
}

// Storage is the active file storage collaborator.
var Storage FileStorage = &LocalFileStorage{Dir: "uploads"}

// LocalFileStorage writes uploads under a local directory.
type LocalFileStorage struct {
	Dir string
}

func (s *LocalFileStorage) Save(file *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.NewString() + filepath.Ext(file.Filename)
	path := filepath.Join(s.Dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return fmt.Sprintf("/%s/%s", s.Dir, name), nil
}
