package service

import (
	"context"
	"fmt"
	"sync"

	"chemviz/internal/modules/history/domain"
	historyout "chemviz/internal/modules/history/port/out"
	apperrors "chemviz/internal/platform/errors"
)

// Loader fetches on every call; nothing is cached between fetches except
// the list currently on display.
type Loader struct {
	source historyout.Source

	mu      sync.Mutex
	listing domain.Listing
	gen     uint64
}

func NewLoader(source historyout.Source) *Loader {
	return &Loader{source: source}
}

func (l *Loader) Current() domain.Listing {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.listing.Snapshot()
}

// Reset forgets the listing. A fetch still in flight when Reset is called
// does not write its result back.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.listing = domain.Listing{}
}

func (l *Loader) Load(ctx context.Context) (domain.Listing, error) {
	l.mu.Lock()
	gen := l.gen
	l.mu.Unlock()

	records, err := l.source.Fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return l.listing.Snapshot(), fmt.Errorf("%w: history reset during fetch", apperrors.ErrFetch)
	}
	if err != nil {
		err = fmt.Errorf("%w: history: %w", apperrors.ErrFetch, err)
		l.listing.LastErr = err
		return l.listing.Snapshot(), err
	}
	l.listing = domain.Listing{Records: records, Loaded: true}
	return l.listing.Snapshot(), nil
}
