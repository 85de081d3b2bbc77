package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	reportout "chemviz/internal/modules/report/port/out"
)

type LocalArtifactStore struct{}

func NewLocalArtifactStore() reportout.ArtifactStore {
	return LocalArtifactStore{}
}

// Write replaces dir/name atomically; an existing report is overwritten.
func (LocalArtifactStore) Write(_ context.Context, dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".report-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("chmod report: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}
	target := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("replace report: %w", err)
	}
	return target, nil
}
