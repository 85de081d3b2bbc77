package out

import (
	"context"
	"fmt"

	sessionout "chemviz/internal/modules/session/port/out"
	apperrors "chemviz/internal/platform/errors"
	"chemviz/internal/platform/httpapi"
)

type HTTPAuthenticator struct {
	client *httpapi.Client
}

func NewHTTPAuthenticator(client *httpapi.Client) sessionout.Authenticator {
	return &HTTPAuthenticator{client: client}
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Access string `json:"access"`
}

func (a *HTTPAuthenticator) ObtainToken(ctx context.Context, username, password string) (string, error) {
	resp := tokenResponse{}
	if err := a.client.PostJSON(ctx, "/token/", tokenRequest{Username: username, Password: password}, &resp); err != nil {
		return "", err
	}
	if resp.Access == "" {
		return "", fmt.Errorf("token response without access: %w", apperrors.ErrMalformedResponse)
	}
	return resp.Access, nil
}
