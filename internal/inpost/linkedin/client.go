package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blacktop/inpost/internal/inpost"
	"github.com/blacktop/inpost/internal/logutil"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	providerName = "linkedin"

	DefaultBaseURL   = "https://api.linkedin.com/v2"
	defaultUserAgent = "inpost/1"
	restliVersion    = "2.0.0"
	tracerName       = "github.com/blacktop/inpost/internal/inpost/linkedin"

	// Error bodies are kept for diagnostics only.
	maxErrorBody = 4 << 10
)

var httpTimeout = 30 * time.Second

// Config describes where and how to reach the API.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport. The client is shared by every call
// and must not be mutated afterwards.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRequestIDs overrides the generator used for X-Request-Id.
func WithRequestIDs(next func() string) Option {
	return func(c *Client) {
		if next != nil {
			c.requestID = next
		}
	}
}

// Client implements inpost.Publisher against the LinkedIn v2 REST API.
// It holds no per-call state and is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	tracer     trace.Tracer
	requestID  func() string
}

var _ inpost.Publisher = (*Client)(nil)

// New constructs a LinkedIn client.
func New(cfg Config, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("parse base URL: %q is not an absolute http(s) URL", base)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = httpTimeout
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
		userAgent:  userAgent,
		tracer:     otel.Tracer(tracerName),
		requestID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name returns the provider identifier.
func (c *Client) Name() string { return providerName }

// call is one outbound exchange. route is the low-cardinality path template
// used for span names; path is the escaped path actually requested.
type call struct {
	op          string
	method      string
	route       string
	path        string
	query       url.Values
	body        []byte
	contentType string
	// expect pins an exact success status; zero accepts any 2xx.
	expect int
}

// send builds a fresh request for rc, attaches cred to it and returns the
// response body of a successful exchange.
func (c *Client) send(ctx context.Context, cred inpost.Credential, rc call) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, rc.method+" "+rc.route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("inpost.operation", rc.op),
			attribute.String("http.request.method", rc.method),
		),
	)
	defer span.End()

	endpoint := c.baseURL + rc.path
	if len(rc.query) > 0 {
		endpoint += "?" + rc.query.Encode()
	}

	var body io.Reader
	if rc.body != nil {
		body = bytes.NewReader(rc.body)
	}
	req, err := http.NewRequestWithContext(ctx, rc.method, endpoint, body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%s: create request: %w", rc.op, err)
	}

	reqID := c.requestID()
	req.Header.Set("Authorization", "Bearer "+string(cred))
	req.Header.Set("X-Restli-Protocol-Version", restliVersion)
	req.Header.Set("X-Request-Id", reqID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if rc.contentType != "" {
		req.Header.Set("Content-Type", rc.contentType)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	logutil.Debugf("sending request: op=%q method=%s path=%s request_id=%s bytes=%d", rc.op, rc.method, rc.path, reqID, len(rc.body))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return nil, inpost.TransportError{Provider: providerName, Op: rc.op, Err: err}
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read response")
		return nil, inpost.TransportError{Provider: providerName, Op: rc.op, Err: fmt.Errorf("read response: %w", err)}
	}

	if !accepted(resp.StatusCode, rc.expect) {
		remote := inpost.RemoteError{
			Provider:   providerName,
			Op:         rc.op,
			StatusCode: resp.StatusCode,
			Body:       truncate(respBody, maxErrorBody),
		}
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		logutil.Debugf("remote rejected request: op=%q status=%d request_id=%s", rc.op, resp.StatusCode, reqID)
		return nil, remote
	}

	logutil.Debugf("request completed: op=%q status=%d request_id=%s", rc.op, resp.StatusCode, reqID)
	return respBody, nil
}

func accepted(status, expect int) bool {
	if expect != 0 {
		return status == expect
	}
	return status >= 200 && status < 300
}

func truncate(b []byte, limit int) string {
	if len(b) <= limit {
		return string(b)
	}
	return string(b[:limit]) + "..."
}

// marshalJSON encodes v without HTML escaping and without the trailing
// newline json.Encoder appends.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func decodeJSON(op string, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return inpost.DeserializationError{Provider: providerName, Op: op, Err: err}
	}
	return nil
}

func checkCredential(op string, cred inpost.Credential) error {
	if strings.TrimSpace(string(cred)) == "" {
		return inpost.ValidationError{Provider: providerName, Op: op, Reason: "access token is required"}
	}
	return nil
}

func checkPostID(op string, id inpost.PostID) error {
	if strings.TrimSpace(string(id)) == "" {
		return inpost.ValidationError{Provider: providerName, Op: op, Reason: "post id is required"}
	}
	return nil
}

func checkText(op, what, text string) error {
	if strings.TrimSpace(text) == "" {
		return inpost.ValidationError{Provider: providerName, Op: op, Reason: what + " is required"}
	}
	return nil
}

func escapeID(id inpost.PostID) string {
	return url.PathEscape(string(id))
}
