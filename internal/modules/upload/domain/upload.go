package domain

import (
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	apperrors "chemviz/internal/platform/errors"
)

const (
	AcceptedExtension = ".csv"
	MaxFileBytes      = 10 << 20
)

// PendingUpload is the file chosen by the user and not yet submitted.
type PendingUpload struct {
	Name    string
	Content []byte
}

func (p PendingUpload) Size() int64 {
	return int64(len(p.Content))
}

// NewPendingUpload checks the client-side constraints: CSV only and at most
// maxBytes. Nothing is sent before this passes.
func NewPendingUpload(name string, content []byte, maxBytes int64) (PendingUpload, error) {
	if err := CheckFile(name, int64(len(content)), maxBytes); err != nil {
		return PendingUpload{}, err
	}
	return PendingUpload{Name: filepath.Base(name), Content: content}, nil
}

// CheckFile validates name and size without needing the content, so a
// too-large file can be refused before it is read.
func CheckFile(name string, size, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = MaxFileBytes
	}
	if !strings.EqualFold(filepath.Ext(name), AcceptedExtension) {
		return fmt.Errorf("%w: %w: %s is not a CSV file", apperrors.ErrValidation, apperrors.ErrUnsupportedFileType, filepath.Base(name))
	}
	if size > maxBytes {
		return fmt.Errorf("%w: %w: %s is %s, limit is %s", apperrors.ErrValidation, apperrors.ErrFileTooLarge,
			filepath.Base(name), humanize.IBytes(uint64(size)), humanize.IBytes(uint64(maxBytes)))
	}
	return nil
}

// AnalysisResult is what the analysis service computed for one file.
type AnalysisResult struct {
	TotalEquipment int
	AvgFlowrate    float64
	AvgPressure    float64
	AvgTemperature float64
	Distribution   map[string]int
}

func (r AnalysisResult) Validate() error {
	if r.TotalEquipment < 0 {
		return fmt.Errorf("%w: negative total_equipment %d", apperrors.ErrMalformedResponse, r.TotalEquipment)
	}
	for category, count := range r.Distribution {
		if count < 0 {
			return fmt.Errorf("%w: negative count %d for %q", apperrors.ErrMalformedResponse, count, category)
		}
	}
	return nil
}

func (r AnalysisResult) clone() AnalysisResult {
	r.Distribution = maps.Clone(r.Distribution)
	return r
}
