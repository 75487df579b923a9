package extracthtml

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KooshaS/top-soccer-matches/internal/metrics"
)

const (
	// DefaultUserAgent is sent unless the caller overrides it.
	DefaultUserAgent = "top-soccer-matches/1.0"

	// DefaultTimeout bounds a single fetch when the caller passes zero.
	DefaultTimeout = 20 * time.Second

	maxErrorBody = 4096
)

var tracer = otel.Tracer("github.com/KooshaS/top-soccer-matches/internal/extracthtml")

// Fetcher retrieves the markup behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetchError reports a failed retrieval. StatusCode is zero when no response
// was received.
type FetchError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: http status %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Input describes where HTML should come from.
type Input struct {
	// URL, if provided, is fetched via HTTP GET.
	URL string

	// Stdin is used when URL is empty. If nil, stdin reads as empty.
	Stdin io.Reader
}

// Loader fetches or reads HTML with a consistent timeout policy. It issues
// exactly one request per call: retries are disabled on the resty client.
type Loader struct {
	client    *resty.Client
	timeout   time.Duration
	userAgent string
}

// NewLoader creates a Loader. If client is nil, http.DefaultClient is used.
// A non-positive timeout falls back to DefaultTimeout.
func NewLoader(client *http.Client, timeout time.Duration) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rc := resty.NewWithClient(client).SetRetryCount(0)
	return &Loader{
		client:    rc,
		timeout:   timeout,
		userAgent: DefaultUserAgent,
	}
}

// SetUserAgent overrides the User-Agent header. Empty values are ignored.
func (l *Loader) SetUserAgent(ua string) *Loader {
	if strings.TrimSpace(ua) != "" {
		l.userAgent = ua
	}
	return l
}

// Load returns the HTML source for either stdin (when input.URL is empty)
// or a fetched URL.
func (l *Loader) Load(ctx context.Context, input Input) (string, error) {
	if strings.TrimSpace(input.URL) == "" {
		if input.Stdin == nil {
			return "", nil
		}
		b, err := io.ReadAll(input.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	return l.Fetch(ctx, input.URL)
}

// Fetch performs one GET against url.
//
// On non-2xx responses it returns a *FetchError whose message includes the
// status code and up to 4KB of the response body for debugging.
func (l *Loader) Fetch(ctx context.Context, url string) (string, error) {
	ctx, span := tracer.Start(ctx, "http GET", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("http.url", url))

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	start := time.Now()
	resp, err := l.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", l.userAgent).
		Get(url)
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordHTTP(0, err, elapsed, -1)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", &FetchError{URL: url, Err: err}
	}

	status := resp.StatusCode()
	body := resp.Body()
	span.SetAttributes(attribute.Int("http.status_code", status))

	if !resp.IsSuccess() {
		fe := &FetchError{
			URL:        url,
			StatusCode: status,
			Body:       snippet(body),
			Err:        fmt.Errorf("http status %d", status),
		}
		metrics.RecordHTTP(status, fe, elapsed, int64(len(body)))
		span.SetStatus(codes.Error, fe.Err.Error())
		return "", fe
	}

	metrics.RecordHTTP(status, nil, elapsed, int64(len(body)))
	return string(body), nil
}

func snippet(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return strings.TrimSpace(string(body))
}

var _ Fetcher = (*Loader)(nil)
