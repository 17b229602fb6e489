package googledocs

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novelpartners/curriculum-assistant/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)
	return log
}

func TestExtractDocID(t *testing.T) {
	cases := map[string]string{
		"https://docs.google.com/document/d/abc123-XY_z/edit?usp=sharing": "abc123-XY_z",
		"https://docs.google.com/d/shortform/view":                        "shortform",
		"bare-doc-id":                                                     "bare-doc-id",
		"https://docs.google.com/spreadsheets":                            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, ExtractDocID(in), "input %q", in)
	}
}

func TestFetchExportsBothFormats(t *testing.T) {
	var formats []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := r.URL.Query().Get("format")
		formats = append(formats, format)
		assert.Equal(t, "/document/d/doc-abc/export", r.URL.Path)

		switch format {
		case "txt":
			fmt.Fprint(w, "Plain text body")
		case "html":
			fmt.Fprint(w, "<html><head><title>Lesson 1 Guide</title></head><body><h1>Lesson 1</h1><p>Body</p></body></html>")
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	f := NewFetcher(testLogger(t), srv.Client(), srv.URL)
	doc, err := f.Fetch(context.Background(), "doc-abc")
	require.NoError(t, err)

	assert.Equal(t, []string{"txt", "html"}, formats)
	assert.Equal(t, "doc-abc", doc.ID)
	assert.Equal(t, "Lesson 1 Guide", doc.Title)
	assert.Equal(t, "Plain text body", doc.Content)
	assert.Contains(t, doc.Markdown, "# Lesson 1")
	assert.Equal(t, "https://docs.google.com/document/d/doc-abc/edit", doc.URL)
}

func TestFetchSurfacesUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(testLogger(t), srv.Client(), srv.URL)
	_, err := f.Fetch(context.Background(), "missing-doc")
	require.Error(t, err)

	var fetchErr FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.Error(), "failed to fetch document")
}

func TestFetchRejectsUnparseableURL(t *testing.T) {
	f := NewFetcher(testLogger(t), nil, "")
	_, err := f.Fetch(context.Background(), "https://docs.google.com/spreadsheets/nothing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid Google Docs URL")
}

func TestFetchFallbackTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("format") == "txt" {
			fmt.Fprint(w, "text")
			return
		}
		fmt.Fprint(w, "<html><body>no title tag</body></html>")
	}))
	defer srv.Close()

	f := NewFetcher(testLogger(t), srv.Client(), srv.URL)
	doc, err := f.Fetch(context.Background(), "doc-x")
	require.NoError(t, err)
	assert.Equal(t, "Untitled Document", doc.Title)
}
