package dto

import statsdomain "chemviz/internal/modules/stats/domain"

type SelectFileInput struct {
	Path string
}

type SelectBlobInput struct {
	Name    string
	Content []byte
}

type StateOutput struct {
	State     string
	FileName  string
	FileSize  int64
	CanRun    bool
	CanSelect bool
	// Stats is set only in the succeeded state.
	Stats *statsdomain.DisplayStats
	// Err is set only in the failed state.
	Err error
}
