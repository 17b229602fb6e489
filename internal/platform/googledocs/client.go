package googledocs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/novelpartners/curriculum-assistant/internal/logger"
)

// Document is a fetched Google Doc: the plain-text export plus a
// markdown conversion of the HTML export.
type Document struct {
	ID       string
	Title    string
	Content  string
	Markdown string
	URL      string
}

// Fetcher retrieves publicly shared Google Docs through their export URLs.
type Fetcher interface {
	Fetch(ctx context.Context, docIDOrURL string) (*Document, error)
}

// FetchError reports a non-success upstream response.
type FetchError struct {
	StatusCode int
	Status     string
}

func (e FetchError) Error() string {
	return fmt.Sprintf("failed to fetch document: %s", e.Status)
}

type fetcher struct {
	log        *logger.Logger
	httpClient *http.Client
	baseURL    string
}

// NewFetcher builds a Fetcher. baseURL overrides the docs.google.com origin
// for tests; empty means the real service.
func NewFetcher(log *logger.Logger, httpClient *http.Client, baseURL string) Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if baseURL == "" {
		baseURL = "https://docs.google.com"
	}
	return &fetcher{
		log:        log.With("client", "GoogleDocsFetcher"),
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

var docIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/document/d/([a-zA-Z0-9-_]+)`),
	regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`),
}

// ExtractDocID pulls the document id out of a share URL. Bare ids pass
// through unchanged; an unrecognizable URL returns "".
func ExtractDocID(url string) string {
	if !strings.Contains(url, "docs.google.com") {
		return url
	}
	for _, p := range docIDPatterns {
		if m := p.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}

func (f *fetcher) Fetch(ctx context.Context, docIDOrURL string) (*Document, error) {
	docID := ExtractDocID(docIDOrURL)
	if docID == "" {
		return nil, fmt.Errorf("invalid Google Docs URL or ID: %q", docIDOrURL)
	}

	text, err := f.export(ctx, docID, "txt")
	if err != nil {
		return nil, err
	}
	html, err := f.export(ctx, docID, "html")
	if err != nil {
		return nil, err
	}

	title := extractTitle(html)
	return &Document{
		ID:       docID,
		Title:    title,
		Content:  text,
		Markdown: HTMLToMarkdown(html),
		URL:      fmt.Sprintf("https://docs.google.com/document/d/%s/edit", docID),
	}, nil
}

func (f *fetcher) export(ctx context.Context, docID, format string) (string, error) {
	url := fmt.Sprintf("%s/document/d/%s/export?format=%s", f.baseURL, docID, format)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create export request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch google doc: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", FetchError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read export body: %w", err)
	}
	return string(body), nil
}

var titleTag = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

func extractTitle(html string) string {
	if m := titleTag.FindStringSubmatch(html); m != nil {
		if t := strings.TrimSpace(m[1]); t != "" {
			return t
		}
	}
	return "Untitled Document"
}
