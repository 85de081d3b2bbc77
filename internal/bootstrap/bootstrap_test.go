package bootstrap_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"chemviz/internal/bootstrap"
	"chemviz/internal/platform/config"
)

func testConfig(t *testing.T, baseURL, store string) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		BaseURL:        baseURL,
		StateDir:       dir,
		DBPath:         filepath.Join(dir, "chemviz.db"),
		SessionStore:   store,
		OutputDir:      filepath.Join(dir, "out"),
		MaxUploadBytes: config.DefaultMaxUploadBytes,
		LogLevel:       "debug",
		LogFile:        filepath.Join(dir, "chemviz.log"),
	}
}

func TestSessionSurvivesRestartForEachStore(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/token/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access": "tok-1"})
	}))
	t.Cleanup(srv.Close)

	for _, store := range []string{config.StoreFile, config.StoreSQLite} {
		t.Run(store, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig(t, srv.URL, store)
			ctx := context.Background()

			first, err := bootstrap.New(cfg)
			if err != nil {
				t.Fatalf("bootstrap: %v", err)
			}
			if first.SessionCLI.Present(ctx) {
				t.Fatal("fresh state dir should start logged out")
			}
			if _, err := first.SessionCLI.Login(ctx, "ada", "secret"); err != nil {
				t.Fatalf("login: %v", err)
			}
			if err := first.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}

			second, err := bootstrap.New(cfg)
			if err != nil {
				t.Fatalf("second bootstrap: %v", err)
			}
			t.Cleanup(func() { _ = second.Close() })
			if got := second.SessionCLI.Current(ctx); !got.Present || got.Username != "ada" {
				t.Fatalf("session should be restored, got %+v", got)
			}
		})
	}
}
