package ig

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GlyphRecord is one normalized glyph row: a name and its lowercase hex
// codepoint. Every source shape normalizes into this form.
type GlyphRecord struct {
	Name      string
	Codepoint string
}

// Source fetches raw glyph metadata for a font and normalizes it into glyph
// records. One implementation exists per upstream metadata shape; the
// registry binds fonts to sources via FontDescriptor.SourceID.
type Source interface {
	// Name returns the identifier fonts use to select this source
	Name() string

	// Fetch downloads the raw metadata payload for a font
	Fetch(ctx context.Context, font FontDescriptor) ([]byte, error)

	// Normalize converts a fetched payload into ordered glyph records
	Normalize(raw []byte, font FontDescriptor) ([]GlyphRecord, error)
}

// DownloadError reports a failure to reach an upstream URL. It is always
// distinguishable from a normalization failure of already-fetched data.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("downloading %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// NormalizeError reports that a fetched payload is structurally unusable for
// its source type.
type NormalizeError struct {
	Source string
	Reason string
}

func (e *NormalizeError) Error() string {
	return fmt.Sprintf("normalizing %s metadata: %s", e.Source, e.Reason)
}

const defaultUserAgent = "icongrab/1.0"

// Client carries the HTTP settings shared by sources and the provisioner.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient builds a client with the given timeout and user agent. Zero
// values fall back to the defaults.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

var defaultClient = NewClient(0, "")

func orDefaultClient(client *Client) *Client {
	if client == nil {
		return defaultClient
	}
	return client
}

// fetch GETs a URL and returns the body. Any failure, including a non-200
// status, comes back as a *DownloadError.
func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &DownloadError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &DownloadError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &DownloadError{URL: url, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &DownloadError{URL: url, Err: err}
	}
	return data, nil
}
