// Package fetch holds the two HTTP primitives used to talk to ReportPortal and
// to Magna: an authenticated JSON GET and a text GET split into lines.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/redhat-openshift-ecosystem/rp-jump/internal/rperror"
)

const (
	defaultTimeout              = 30 * time.Second
	defaultMaxIdleConns         = 100
	defaultMaxConnsPerHost      = 100
	defaultMaxIddleConnsPerHost = 100

	acceptJSON = "application/json"
	acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
)

// HTTPError is returned when a server answers with a non-2xx status.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d (%s)", e.StatusCode, e.URL)
}

// Fetcher issues GET requests through a retryable client. Retries are off
// unless WithRetryMax is given: every call is single-shot by default.
type Fetcher struct {
	client  *retryablehttp.Client
	timeout time.Duration
}

type Option func(*Fetcher)

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithRetryMax enables retries on connection errors and 5xx responses.
func WithRetryMax(n int) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.client.RetryMax = n
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. A timeout given with
// WithTimeout still applies, whatever the option order.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client.HTTPClient = c
		}
	}
}

// New creates a Fetcher with connection reuse tuned for the sequential
// directory walks done by the resolver.
func New(opts ...Option) *Fetcher {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = defaultMaxIdleConns
	t.MaxConnsPerHost = defaultMaxConnsPerHost
	t.MaxIdleConnsPerHost = defaultMaxIddleConnsPerHost

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.HTTPClient = &http.Client{
		Timeout:   defaultTimeout,
		Transport: t,
	}
	// hand the last response back so the caller sees the real status code
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryLogger := log.New()
	retryLogger.SetLevel(log.WarnLevel)
	retryClient.Logger = retryLogger

	f := &Fetcher{client: retryClient}
	for _, opt := range opts {
		opt(f)
	}
	if f.timeout > 0 {
		f.client.HTTPClient.Timeout = f.timeout
	}
	return f
}

func (f *Fetcher) get(ctx context.Context, url, accept, apiKey string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, rperror.Wrap(err, "couldn't create the request")
	}
	req.Header.Set("Accept", accept)
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	log.Debugf("GET %s", url)
	res, err := f.client.Do(req)
	if err != nil {
		return nil, rperror.Wrap(err, fmt.Sprintf("couldn't call URL %s", url))
	}
	defer res.Body.Close()

	log.WithField("url", url).Debugf("response status: %s", res.Status)
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &HTTPError{URL: url, StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, rperror.Wrap(err, "couldn't read response body")
	}
	return body, nil
}

// JSON fetches url with bearer authentication and decodes the body into dst.
func (f *Fetcher) JSON(ctx context.Context, url, apiKey string, dst interface{}) error {
	body, err := f.get(ctx, url, acceptJSON, apiKey)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return rperror.Wrap(errors.Wrapf(err, "decode %s", url), "couldn't unmarshal response body")
	}
	return nil
}

// Lines fetches url and returns the non-blank lines of the body in order.
// The bearer header is only sent when apiKey is set.
func (f *Fetcher) Lines(ctx context.Context, url, apiKey string) ([]string, error) {
	body, err := f.get(ctx, url, acceptHTML, apiKey)
	if err != nil {
		return nil, err
	}
	return splitLines(string(body)), nil
}

func splitLines(text string) []string {
	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
