package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dtnitsch/wordfreq/models"
	"golang.org/x/net/html/charset"
)

// ErrTimeout is matched by errors.Is when a fetch exceeded its timeout.
var ErrTimeout = errors.New("fetch timed out")

// FetchError reports a failed fetch: a non-2xx response or a transport failure.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a fetch timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

// NewFetcher returns a Fetcher that aborts requests after timeout.
// A zero timeout disables the limit.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// GetText performs a single GET and returns the body as a Document.
// There are no retries.
func (f *Fetcher) GetText(ctx context.Context, url string) (*models.Document, error) {
	bodyBytes, resp, err := f.GetBytes(ctx, url)
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	return &models.Document{
		URL:         url,
		Text:        decodeBody(bodyBytes, contentType),
		ContentType: contentType,
		StatusCode:  resp.StatusCode,
		FetchedAt:   time.Now(),
	}, nil
}

// decodeBody converts body to UTF-8 using the charset declared in
// contentType, or for HTML the one found in a meta tag. Bytes that still
// are not valid UTF-8 become U+FFFD.
func decodeBody(body []byte, contentType string) string {
	mediaType, params, _ := mime.ParseMediaType(contentType)
	if params["charset"] != "" || mediaType == "text/html" || mediaType == "application/xhtml+xml" {
		if r, err := charset.NewReader(bytes.NewReader(body), contentType); err == nil {
			if decoded, err := io.ReadAll(r); err == nil {
				body = decoded
			}
		}
	}
	return strings.ToValidUTF8(string(body), "\uFFFD")
}

// GetBytes performs a single GET and returns the raw body and response.
// The response body is already closed.
func (f *Fetcher) GetBytes(ctx context.Context, url string) ([]byte, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, &FetchError{URL: url, Err: fmt.Errorf("failed to build HTTP request: %w", err)}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, f.transportError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, f.transportError(url, fmt.Errorf("failed to read response body: %w", err))
	}
	return bodyBytes, resp, nil
}

func (f *Fetcher) transportError(url string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &FetchError{URL: url, Err: fmt.Errorf("%w after %s: %w", ErrTimeout, f.timeout, err)}
	}
	return &FetchError{URL: url, Err: fmt.Errorf("failed to make HTTP request: %w", err)}
}
