package out

import (
	"fmt"
	"os"
	"path/filepath"

	uploadout "chemviz/internal/modules/upload/port/out"
)

type LocalFileSource struct{}

func NewLocalFileSource() uploadout.FileSource {
	return LocalFileSource{}
}

func (LocalFileSource) Stat(path string) (string, int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", 0, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", 0, fmt.Errorf("%s is a directory", path)
	}
	return filepath.Base(path), info.Size(), nil
}

func (LocalFileSource) Read(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return content, nil
}
