package service

import (
	"context"
	"fmt"
	"sync"

	"chemviz/internal/modules/upload/domain"
	uploadout "chemviz/internal/modules/upload/port/out"
	apperrors "chemviz/internal/platform/errors"
)

// Controller runs the upload state machine. At most one Analyze call is in
// flight per Controller: Run claims the Uploading state under the lock
// before the request is issued, and every other Run sees it and returns.
type Controller struct {
	analyzer uploadout.Analyzer

	mu    sync.Mutex
	state domain.State
}

func NewController(analyzer uploadout.Analyzer) *Controller {
	return &Controller{analyzer: analyzer, state: domain.Idle{}}
}

func (c *Controller) State() domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Select(pending domain.PendingUpload) (domain.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := domain.Select(c.state, pending)
	if err != nil {
		return c.state, err
	}
	c.state = next
	return next, nil
}

func (c *Controller) Reset() (domain.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := domain.Reset(c.state)
	if err != nil {
		return c.state, err
	}
	c.state = next
	return next, nil
}

// Run submits the pending file. Refused runs leave the state untouched;
// once the request is issued the state always ends in Succeeded or Failed.
func (c *Controller) Run(ctx context.Context) (domain.State, error) {
	c.mu.Lock()
	uploading, err := domain.Begin(c.state)
	if err != nil {
		current := c.state
		c.mu.Unlock()
		return current, err
	}
	c.state = uploading
	c.mu.Unlock()

	result, err := c.analyze(ctx, uploading.Pending)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = domain.Fail(uploading, err)
		return c.state, err
	}
	c.state = domain.Complete(uploading, result)
	return c.state, nil
}

func (c *Controller) analyze(ctx context.Context, pending domain.PendingUpload) (result domain.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewUploadError(fmt.Errorf("analyzer panic: %v", r))
		}
	}()
	result, err = c.analyzer.Analyze(ctx, pending)
	if err != nil {
		return domain.AnalysisResult{}, apperrors.NewUploadError(err)
	}
	if err := result.Validate(); err != nil {
		return domain.AnalysisResult{}, apperrors.NewUploadError(err)
	}
	return result, nil
}
