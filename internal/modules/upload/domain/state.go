package domain

import (
	apperrors "chemviz/internal/platform/errors"
)

type StateKind int

const (
	StateIdle StateKind = iota
	StateFileSelected
	StateUploading
	StateSucceeded
	StateFailed
)

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateFileSelected:
		return "file-selected"
	case StateUploading:
		return "uploading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// State is one of Idle, FileSelected, Uploading, Succeeded or Failed. Each
// variant carries only the data valid in that state, so "uploading without
// a file" cannot be expressed.
type State interface {
	Kind() StateKind
	isState()
}

type Idle struct{}

type FileSelected struct {
	Pending PendingUpload
}

type Uploading struct {
	Pending PendingUpload
}

// Succeeded keeps the submitted file for display. Running again requires a
// new selection, which may be the same file.
type Succeeded struct {
	Pending PendingUpload
	Result  AnalysisResult
}

type Failed struct {
	Pending PendingUpload
	Err     error
}

func (Idle) Kind() StateKind         { return StateIdle }
func (FileSelected) Kind() StateKind { return StateFileSelected }
func (Uploading) Kind() StateKind    { return StateUploading }
func (Succeeded) Kind() StateKind    { return StateSucceeded }
func (Failed) Kind() StateKind       { return StateFailed }

func (Idle) isState()         {}
func (FileSelected) isState() {}
func (Uploading) isState()    {}
func (Succeeded) isState()    {}
func (Failed) isState()       {}

// Select replaces the pending file. Allowed from every state but Uploading.
func Select(s State, pending PendingUpload) (State, error) {
	if _, busy := s.(Uploading); busy {
		return s, apperrors.ErrUploadInFlight
	}
	return FileSelected{Pending: pending}, nil
}

// Begin starts a run from FileSelected or a manual retry from Failed.
func Begin(s State) (Uploading, error) {
	switch st := s.(type) {
	case FileSelected:
		return Uploading{Pending: st.Pending}, nil
	case Failed:
		return Uploading{Pending: st.Pending}, nil
	case Uploading:
		return Uploading{}, apperrors.ErrUploadInFlight
	case Idle:
		return Uploading{}, apperrors.ErrNoPendingUpload
	default:
		return Uploading{}, apperrors.ErrInvalidTransition
	}
}

func Complete(s Uploading, result AnalysisResult) Succeeded {
	return Succeeded{Pending: s.Pending, Result: result.clone()}
}

func Fail(s Uploading, err error) Failed {
	return Failed{Pending: s.Pending, Err: err}
}

// Reset returns to Idle; an in-flight upload cannot be abandoned.
func Reset(s State) (State, error) {
	if _, busy := s.(Uploading); busy {
		return s, apperrors.ErrUploadInFlight
	}
	return Idle{}, nil
}

func CanRun(s State) bool {
	switch s.(type) {
	case FileSelected, Failed:
		return true
	}
	return false
}

func CanSelect(s State) bool {
	_, busy := s.(Uploading)
	return !busy
}

// PendingOf returns the file carried by s, if any.
func PendingOf(s State) (PendingUpload, bool) {
	switch st := s.(type) {
	case FileSelected:
		return st.Pending, true
	case Uploading:
		return st.Pending, true
	case Succeeded:
		return st.Pending, true
	case Failed:
		return st.Pending, true
	}
	return PendingUpload{}, false
}
