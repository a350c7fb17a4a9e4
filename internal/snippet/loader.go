// Package snippet loads the source listings referenced by enhancements and
// keeps the state of the code viewer modal.
package snippet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

// Root is the directory under the public assets that holds listings.
const Root = "all_codes/"

// MaxSize caps how much of a listing is read.
const MaxSize = 1 << 20

var (
	ErrEmptyBody   = errors.New("empty response body")
	ErrInvalidPath = errors.New("invalid code path")
)

// StatusError reports a non-2xx response for a listing.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = http.StatusText(e.Code)
	}
	return fmt.Sprintf("HTTP %d %s", e.Code, status)
}

// Loader fetches the text of a listing by its public path, e.g.
// "all_codes/1/dag.cpp".
type Loader interface {
	Load(ctx context.Context, p string) (string, error)
}

// ValidPath rejects anything outside the listings directory.
func ValidPath(p string) error {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	clean := path.Clean(p)
	if clean != p || strings.Contains(clean, "..") || !strings.HasPrefix(clean, Root) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return nil
}

// HTTPLoader GETs listings from a static file server. Each request carries a
// t=<unix millis> query parameter so caches never serve a stale listing.
type HTTPLoader struct {
	BaseURL string
	Client  *http.Client
	Now     func() time.Time
}

func NewHTTPLoader(baseURL string) *HTTPLoader {
	return &HTTPLoader{BaseURL: baseURL, Client: http.DefaultClient, Now: time.Now}
}

func (l *HTTPLoader) Load(ctx context.Context, p string) (string, error) {
	if err := ValidPath(p); err != nil {
		return "", err
	}
	u, err := url.Parse(strings.TrimRight(l.BaseURL, "/") + "/" + p)
	if err != nil {
		return "", fmt.Errorf("building url for %s: %w", p, err)
	}
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", p, err)
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", p, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxSize))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", p, err)
	}
	if len(body) == 0 {
		return "", ErrEmptyBody
	}
	return string(body), nil
}

// DirLoader reads listings straight from the public assets. A missing file
// is reported the way the static server would, as a 404.
type DirLoader struct {
	FS fs.FS
}

func (l *DirLoader) Load(ctx context.Context, p string) (string, error) {
	if err := ValidPath(p); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := l.FS.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &StatusError{Code: http.StatusNotFound}
		}
		return "", fmt.Errorf("opening %s: %w", p, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxSize))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", p, err)
	}
	if len(data) == 0 {
		return "", ErrEmptyBody
	}
	return string(data), nil
}
