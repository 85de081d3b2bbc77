package out

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"chemviz/internal/modules/report/domain"
	reportout "chemviz/internal/modules/report/port/out"
	apperrors "chemviz/internal/platform/errors"
	"chemviz/internal/platform/httpapi"
)

type HTTPSource struct {
	client *httpapi.Client
}

func NewHTTPSource(client *httpapi.Client) reportout.Source {
	return &HTTPSource{client: client}
}

func (s *HTTPSource) Fetch(ctx context.Context) (domain.Artifact, error) {
	blob, err := s.client.GetBlob(ctx, "/report/")
	if err != nil {
		// The server answers 400 when the user has no uploads yet.
		var statusErr *httpapi.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusBadRequest {
			return domain.Artifact{}, fmt.Errorf("%w: %s", apperrors.ErrReportNotAvailable, statusErr.Message)
		}
		return domain.Artifact{}, err
	}
	return domain.Artifact{Data: blob.Data, ContentType: blob.ContentType}, nil
}
