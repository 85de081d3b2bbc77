package service_test

import (
	"context"
	"errors"
	"testing"

	"chemviz/internal/modules/history/domain"
	"chemviz/internal/modules/history/service"
	apperrors "chemviz/internal/platform/errors"
)

type scriptedSource struct {
	results [][]domain.Record
	errs    []error
	calls   int
}

func (s *scriptedSource) Fetch(context.Context) ([]domain.Record, error) {
	i := s.calls
	s.calls++
	return s.results[i], s.errs[i]
}

func TestLoaderDistinguishesNotLoadedFromEmpty(t *testing.T) {
	t.Parallel()
	loader := service.NewLoader(&scriptedSource{results: [][]domain.Record{{}}, errs: []error{nil}})

	if cur := loader.Current(); cur.Loaded || cur.Empty() {
		t.Fatalf("fresh loader should be not-loaded, got %+v", cur)
	}
	got, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.Loaded || !got.Empty() {
		t.Fatalf("expected loaded and empty, got %+v", got)
	}
}

func TestLoaderKeepsPreviousRecordsOnFailure(t *testing.T) {
	t.Parallel()
	first := []domain.Record{{ID: 1, TotalEquipment: 10}, {ID: 2, TotalEquipment: 20}}
	source := &scriptedSource{
		results: [][]domain.Record{first, nil},
		errs:    []error{nil, apperrors.ErrTransport},
	}
	loader := service.NewLoader(source)
	ctx := context.Background()

	if _, err := loader.Load(ctx); err != nil {
		t.Fatalf("first load: %v", err)
	}
	got, err := loader.Load(ctx)
	if !errors.Is(err, apperrors.ErrFetch) || !errors.Is(err, apperrors.ErrTransport) {
		t.Fatalf("expected fetch error wrapping transport, got %v", err)
	}
	if len(got.Records) != 2 || got.Records[1].TotalEquipment != 20 || got.LastErr == nil {
		t.Fatalf("previous records should survive, got %+v", got)
	}
}

func TestLoaderRefetchesEveryTime(t *testing.T) {
	t.Parallel()
	source := &scriptedSource{
		results: [][]domain.Record{{{ID: 1}}, {{ID: 1}, {ID: 2}}},
		errs:    []error{nil, nil},
	}
	loader := service.NewLoader(source)
	ctx := context.Background()
	_, _ = loader.Load(ctx)
	got, _ := loader.Load(ctx)
	if source.calls != 2 || len(got.Records) != 2 {
		t.Fatalf("expected two fetches and fresh records, calls=%d records=%d", source.calls, len(got.Records))
	}
}

type blockingSource struct {
	entered chan struct{}
	release chan struct{}
	records []domain.Record
}

func (b *blockingSource) Fetch(context.Context) ([]domain.Record, error) {
	close(b.entered)
	<-b.release
	return b.records, nil
}

func TestResetDiscardsFetchInFlight(t *testing.T) {
	t.Parallel()
	source := &blockingSource{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		records: []domain.Record{{ID: 1}},
	}
	loader := service.NewLoader(source)

	done := make(chan error, 1)
	go func() {
		_, err := loader.Load(context.Background())
		done <- err
	}()
	<-source.entered
	loader.Reset()
	close(source.release)

	if err := <-done; !errors.Is(err, apperrors.ErrFetch) {
		t.Fatalf("expected stale fetch to be refused, got %v", err)
	}
	if cur := loader.Current(); cur.Loaded || len(cur.Records) != 0 {
		t.Fatalf("reset listing must stay empty, got %+v", cur)
	}
}
