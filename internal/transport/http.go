package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lulicroppi/malaly-merceria/internal/apperr"
	"github.com/lulicroppi/malaly-merceria/internal/logging"
	"github.com/lulicroppi/malaly-merceria/internal/workbook"
)

// maxErrorBody bounds how much of a failed response is quoted in errors.
const maxErrorBody = 512

// HTTPDocument reaches the document through the storage proxy:
// GET returns 200 with the bytes or 404, PUT returns 204.
type HTTPDocument struct {
	url        string
	token      string
	httpClient *http.Client
}

// NewHTTPDocument creates a client for the proxy endpoint at url. An empty
// token sends no Authorization header.
func NewHTTPDocument(url, token string, timeout time.Duration) *HTTPDocument {
	return &HTTPDocument{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (d *HTTPDocument) newRequest(ctx context.Context, method string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, d.url, body)
	if err != nil {
		return nil, fmt.Errorf("document %s: create request: %w", method, err)
	}
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}
	return req, nil
}

func (d *HTTPDocument) Fetch(ctx context.Context) (*workbook.Workbook, error) {
	req, err := d.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, apperr.IO(err, "document GET %s", d.url)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNoDocument
	default:
		return nil, apperr.IO(nil, "document GET %s: HTTP %d: %s", d.url, resp.StatusCode, readSnippet(resp.Body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.IO(err, "document GET %s: read body", d.url)
	}

	logging.FromContext(ctx).Debug("document fetched",
		"url", d.url,
		"bytes", len(data),
		"content_type", resp.Header.Get("Content-Type"),
	)
	return load(data, resp.Header.Get("Content-Type"))
}

func (d *HTTPDocument) Persist(ctx context.Context, wb *workbook.Workbook) error {
	data, err := workbook.Encode(wb)
	if err != nil {
		return err
	}

	req, err := d.newRequest(ctx, http.MethodPut, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", workbook.ContentType)
	req.ContentLength = int64(len(data))

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return apperr.IO(err, "document PUT %s", d.url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return apperr.IO(nil, "document PUT %s: HTTP %d: %s", d.url, resp.StatusCode, readSnippet(resp.Body))
	}

	logging.FromContext(ctx).Debug("document persisted", "url", d.url, "bytes", len(data))
	return nil
}

func readSnippet(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxErrorBody))
	return string(bytes.TrimSpace(b))
}
