package out_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"

	reportadapter "chemviz/internal/modules/report/adapter/out"
	apperrors "chemviz/internal/platform/errors"
	"chemviz/internal/platform/httpapi"
)

// minimalPDF builds a one-page document with a correct xref table.
func minimalPDF(t *testing.T) []byte {
	t.Helper()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}
	buf := &bytes.Buffer{}
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestPDFVerifierCountsPages(t *testing.T) {
	t.Parallel()
	pages, err := reportadapter.NewPDFVerifier().Pages(minimalPDF(t))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if pages != 1 {
		t.Fatalf("expected 1 page, got %d", pages)
	}
}

func TestPDFVerifierRejectsGarbage(t *testing.T) {
	t.Parallel()
	for _, data := range [][]byte{
		[]byte("%PDF-1.4\nthis is not a pdf"),
		[]byte("<html>oops</html>"),
	} {
		if _, err := reportadapter.NewPDFVerifier().Pages(data); err == nil {
			t.Fatalf("expected error for %q", data)
		}
	}
}

func TestLocalArtifactStoreOverwrites(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "out")
	store := reportadapter.NewLocalArtifactStore()
	ctx := context.Background()

	if _, err := store.Write(ctx, dir, "ChemViz_Report.pdf", []byte("first")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	path, err := store.Write(ctx, dir, "ChemViz_Report.pdf", []byte("second"))
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("expected overwrite, got %q", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
}

func TestHTTPSourceMapsStatuses(t *testing.T) {
	t.Parallel()
	cases := map[string]struct {
		status int
		body   string
		want   error
	}{
		"no uploads": {http.StatusBadRequest, `{"error":"No data available to generate report"}`, apperrors.ErrReportNotAvailable},
		"expired":    {http.StatusForbidden, `{"detail":"forbidden"}`, apperrors.ErrUnauthorized},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(srv.Close)
			client := httpapi.New(srv.URL).WithTokens(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}))
			_, err := reportadapter.NewHTTPSource(client).Fetch(context.Background())
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestHTTPSourceReturnsBody(t *testing.T) {
	t.Parallel()
	doc := minimalPDF(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/report/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(doc)
	}))
	t.Cleanup(srv.Close)
	client := httpapi.New(srv.URL).WithTokens(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok"}))

	artifact, err := reportadapter.NewHTTPSource(client).Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !artifact.IsPDF() || !bytes.Equal(artifact.Data, doc) {
		t.Fatalf("unexpected artifact %q (%d bytes)", artifact.ContentType, len(artifact.Data))
	}
}
