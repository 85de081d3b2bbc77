package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"chemviz/internal/modules/report/domain"
	reportdto "chemviz/internal/modules/report/dto"
	"chemviz/internal/modules/report/service"
	"chemviz/internal/modules/report/usecase"
	apperrors "chemviz/internal/platform/errors"
	"chemviz/internal/platform/logging"
)

type fakeSession struct {
	present bool
	expired int
}

func (f *fakeSession) Present(context.Context) bool { return f.present }
func (f *fakeSession) Expire(context.Context) error {
	f.expired++
	f.present = false
	return nil
}

type stubSource struct {
	artifact domain.Artifact
	err      error
	calls    int
}

func (s *stubSource) Fetch(context.Context) (domain.Artifact, error) {
	s.calls++
	return s.artifact, s.err
}

type stubVerifier struct {
	pages int
	err   error
}

func (v stubVerifier) Pages([]byte) (int, error) { return v.pages, v.err }

type memoryStore struct {
	writes map[string][]byte
}

func (m *memoryStore) Write(_ context.Context, dir, name string, data []byte) (string, error) {
	if m.writes == nil {
		m.writes = map[string][]byte{}
	}
	path := filepath.Join(dir, name)
	m.writes[path] = data
	return path, nil
}

func newInteractor(source *stubSource, verifier stubVerifier, store *memoryStore, session *fakeSession) *usecase.Interactor {
	uc := usecase.NewInteractor(service.NewExporter(source, verifier, store), session, "/reports", logging.Discard())
	return uc.(*usecase.Interactor)
}

func TestExportWritesFixedFilename(t *testing.T) {
	t.Parallel()
	store := &memoryStore{}
	source := &stubSource{artifact: domain.Artifact{Data: []byte("%PDF-1.4 ..."), ContentType: "application/pdf"}}
	uc := newInteractor(source, stubVerifier{pages: 2}, store, &fakeSession{present: true})

	out, err := uc.Export(context.Background(), reportdto.ExportInput{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	want := filepath.Join("/reports", "ChemViz_Report.pdf")
	if out.Path != want || out.Pages != 2 || out.Size != int64(len("%PDF-1.4 ...")) {
		t.Fatalf("unexpected export %+v", out)
	}
	if _, ok := store.writes[want]; !ok {
		t.Fatalf("report not stored at %s", want)
	}
}

func TestExportRejectsUnreadablePDF(t *testing.T) {
	t.Parallel()
	cases := map[string]stubVerifier{
		"parse error": {err: errors.New("bad xref")},
		"no pages":    {pages: 0},
	}
	for name, verifier := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			store := &memoryStore{}
			source := &stubSource{artifact: domain.Artifact{Data: []byte("%PDF-1.7"), ContentType: "application/octet-stream"}}
			uc := newInteractor(source, verifier, store, &fakeSession{present: true})

			_, err := uc.Export(context.Background(), reportdto.ExportInput{OutputDir: t.TempDir()})
			if !errors.Is(err, apperrors.ErrFetch) {
				t.Fatalf("expected fetch error, got %v", err)
			}
			if len(store.writes) != 0 {
				t.Fatal("nothing should be written")
			}
		})
	}
}

func TestExportFailuresAndSession(t *testing.T) {
	t.Parallel()
	t.Run("logged out", func(t *testing.T) {
		t.Parallel()
		source := &stubSource{}
		uc := newInteractor(source, stubVerifier{}, &memoryStore{}, &fakeSession{})
		if _, err := uc.Export(context.Background(), reportdto.ExportInput{}); !errors.Is(err, apperrors.ErrNoSession) {
			t.Fatalf("expected no session, got %v", err)
		}
		if source.calls != 0 {
			t.Fatal("source should not be reached")
		}
	})
	t.Run("not available", func(t *testing.T) {
		t.Parallel()
		session := &fakeSession{present: true}
		uc := newInteractor(&stubSource{err: apperrors.ErrReportNotAvailable}, stubVerifier{}, &memoryStore{}, session)
		_, err := uc.Export(context.Background(), reportdto.ExportInput{})
		if !errors.Is(err, apperrors.ErrReportNotAvailable) || session.expired != 0 {
			t.Fatalf("expected report not available without expiry, got %v expired=%d", err, session.expired)
		}
	})
	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		session := &fakeSession{present: true}
		uc := newInteractor(&stubSource{err: apperrors.ErrUnauthorized}, stubVerifier{}, &memoryStore{}, session)
		_, err := uc.Export(context.Background(), reportdto.ExportInput{})
		if !errors.Is(err, apperrors.ErrFetch) || session.expired != 1 {
			t.Fatalf("expected fetch error and expiry, got %v expired=%d", err, session.expired)
		}
	})
}
