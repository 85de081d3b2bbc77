package domain_test

import (
	"errors"
	"strings"
	"testing"

	"chemviz/internal/modules/upload/domain"
	apperrors "chemviz/internal/platform/errors"
)

func pending(name string) domain.PendingUpload {
	return domain.PendingUpload{Name: name, Content: []byte("Type,Flowrate\nPump,1\n")}
}

func TestSelectIsLastWriteWins(t *testing.T) {
	t.Parallel()
	var s domain.State = domain.Idle{}
	s, err := domain.Select(s, pending("first.csv"))
	if err != nil {
		t.Fatalf("select first: %v", err)
	}
	s, err = domain.Select(s, pending("second.csv"))
	if err != nil {
		t.Fatalf("select second: %v", err)
	}
	sel, ok := s.(domain.FileSelected)
	if !ok || sel.Pending.Name != "second.csv" {
		t.Fatalf("expected second file selected, got %#v", s)
	}
}

func TestTransitionTable(t *testing.T) {
	t.Parallel()
	file := pending("plant.csv")
	cases := []struct {
		name     string
		from     domain.State
		beginOK  bool
		beginE   error
		selectOK bool
	}{
		{"idle", domain.Idle{}, false, apperrors.ErrNoPendingUpload, true},
		{"selected", domain.FileSelected{Pending: file}, true, nil, true},
		{"uploading", domain.Uploading{Pending: file}, false, apperrors.ErrUploadInFlight, false},
		{"succeeded", domain.Succeeded{Pending: file}, false, apperrors.ErrInvalidTransition, true},
		{"failed", domain.Failed{Pending: file, Err: errors.New("x")}, true, nil, true},
	}
	for _, tc := range cases {
		up, err := domain.Begin(tc.from)
		if tc.beginOK {
			if err != nil || up.Pending.Name != "plant.csv" {
				t.Fatalf("%s: expected run to start with pending file, got %+v %v", tc.name, up, err)
			}
		} else if !errors.Is(err, tc.beginE) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.beginE, err)
		}
		if domain.CanRun(tc.from) != tc.beginOK {
			t.Fatalf("%s: CanRun disagrees with Begin", tc.name)
		}
		next, err := domain.Select(tc.from, pending("other.csv"))
		if tc.selectOK {
			if err != nil || next.Kind() != domain.StateFileSelected {
				t.Fatalf("%s: expected selection to succeed, got %v %v", tc.name, next, err)
			}
		} else if !errors.Is(err, apperrors.ErrUploadInFlight) || next.Kind() != tc.from.Kind() {
			t.Fatalf("%s: expected selection refused and state kept, got %v %v", tc.name, next, err)
		}
		if domain.CanSelect(tc.from) != tc.selectOK {
			t.Fatalf("%s: CanSelect disagrees with Select", tc.name)
		}
	}
}

func TestCompleteCopiesDistribution(t *testing.T) {
	t.Parallel()
	dist := map[string]int{"Pump": 10}
	done := domain.Complete(domain.Uploading{Pending: pending("a.csv")}, domain.AnalysisResult{TotalEquipment: 10, Distribution: dist})
	dist["Pump"] = 99
	if done.Result.Distribution["Pump"] != 10 {
		t.Fatalf("result must not alias the caller's map")
	}
	if p, ok := domain.PendingOf(done); !ok || p.Name != "a.csv" {
		t.Fatalf("succeeded state must retain the pending file")
	}
}

func TestResetRefusedWhileUploading(t *testing.T) {
	t.Parallel()
	if _, err := domain.Reset(domain.Uploading{Pending: pending("a.csv")}); !errors.Is(err, apperrors.ErrUploadInFlight) {
		t.Fatalf("expected in-flight error, got %v", err)
	}
	s, err := domain.Reset(domain.Failed{Pending: pending("a.csv")})
	if err != nil || s.Kind() != domain.StateIdle {
		t.Fatalf("expected idle after reset, got %v %v", s, err)
	}
}

func TestNewPendingUploadValidation(t *testing.T) {
	t.Parallel()
	if _, err := domain.NewPendingUpload("data/PLANT.CSV", []byte("a"), domain.MaxFileBytes); err != nil {
		t.Fatalf("uppercase extension must be accepted: %v", err)
	}
	_, err := domain.NewPendingUpload("report.xlsx", []byte("a"), domain.MaxFileBytes)
	if !errors.Is(err, apperrors.ErrValidation) || !errors.Is(err, apperrors.ErrUnsupportedFileType) {
		t.Fatalf("expected unsupported type, got %v", err)
	}
	err = domain.CheckFile("big.csv", domain.MaxFileBytes+1, domain.MaxFileBytes)
	if !errors.Is(err, apperrors.ErrFileTooLarge) || !strings.Contains(err.Error(), "10 MiB") {
		t.Fatalf("expected size error naming the limit, got %v", err)
	}
	if err := domain.CheckFile("edge.csv", domain.MaxFileBytes, domain.MaxFileBytes); err != nil {
		t.Fatalf("file exactly at the limit must pass: %v", err)
	}
}

func TestAnalysisResultValidate(t *testing.T) {
	t.Parallel()
	bad := []domain.AnalysisResult{
		{TotalEquipment: -1},
		{TotalEquipment: 1, Distribution: map[string]int{"Pump": -2}},
	}
	for _, r := range bad {
		if err := r.Validate(); !errors.Is(err, apperrors.ErrMalformedResponse) {
			t.Fatalf("expected malformed for %+v, got %v", r, err)
		}
	}
}
