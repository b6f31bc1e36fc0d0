package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitcourses/internal/cache"
	"github.com/2beens/fitcourses/internal/telemetry/metrics"
	"github.com/2beens/fitcourses/internal/telemetry/tracing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

const RequestIDHeader = "X-Request-ID"

var nullJSON = json.RawMessage("null")

// TokenSource provides the bearer token of the current session.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
}

type CacheClearer interface {
	Clear(ctx context.Context, pattern string) error
}

type RequestOptions struct {
	Method       string
	Body         any
	RequiresAuth bool
	Headers      map[string]string
	Params       map[string]string
}

type Response struct {
	Success bool
	// Data is the parsed body, "null" when the body was empty.
	Data json.RawMessage
}

type ClientParams struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenSource
	// Cache is wiped when the server rejects our credentials.
	Cache   CacheClearer
	Metrics *metrics.Manager
	// RateLimit is in requests per second, 0 disables limiting.
	RateLimit float64
	RateBurst int
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	cache      CacheClearer
	metrics    *metrics.Manager
	limiter    *rate.Limiter
	// ability to inject the request id generator (for unit testing)
	RequestIDFunc func() string
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func NewClient(params ClientParams) *Client {
	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(15 * time.Second)
	}
	metricsManager := params.Metrics
	if metricsManager == nil {
		metricsManager = metrics.NewTestManager()
	}

	c := &Client{
		baseURL:       strings.TrimRight(params.BaseURL, "/"),
		httpClient:    httpClient,
		tokens:        params.Tokens,
		cache:         params.Cache,
		metrics:       metricsManager,
		RequestIDFunc: uuid.NewString,
	}
	if params.RateLimit > 0 {
		burst := params.RateBurst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(params.RateLimit), burst)
	}

	return c
}

func (c *Client) Get(ctx context.Context, endpoint string, opts RequestOptions) (*Response, error) {
	opts.Method = http.MethodGet
	return c.Execute(ctx, endpoint, opts)
}

func (c *Client) Post(ctx context.Context, endpoint string, body any, opts RequestOptions) (*Response, error) {
	opts.Method = http.MethodPost
	opts.Body = body
	return c.Execute(ctx, endpoint, opts)
}

func (c *Client) Patch(ctx context.Context, endpoint string, body any, opts RequestOptions) (*Response, error) {
	opts.Method = http.MethodPatch
	opts.Body = body
	return c.Execute(ctx, endpoint, opts)
}

func (c *Client) Delete(ctx context.Context, endpoint string, opts RequestOptions) (*Response, error) {
	opts.Method = http.MethodDelete
	return c.Execute(ctx, endpoint, opts)
}

// Execute performs a single API call. Non 2xx responses and transport
// failures are returned as *Error.
func (c *Client) Execute(ctx context.Context, endpoint string, opts RequestOptions) (resp *Response, err error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	ctx, span := tracing.GlobalTracer.Start(ctx, "api.execute")
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("endpoint", endpoint),
	)
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	headers := http.Header{}
	headers.Set("Accept", "application/json")
	for k, v := range opts.Headers {
		headers.Set(k, v)
	}

	if opts.RequiresAuth {
		token, ok := "", false
		if c.tokens != nil {
			token, ok = c.tokens.Token(ctx)
		}
		if !ok || token == "" {
			c.metrics.CounterRequests.WithLabelValues(method, "no_token").Inc()
			return nil, &Error{
				Status:  http.StatusUnauthorized,
				Message: MessageAuthRequired,
			}
		}
		headers.Set("Authorization", "Bearer "+token)
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		bodyBytes, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
		headers.Set("Content-Type", "application/json")
	}

	if err := c.wait(ctx); err != nil {
		return nil, &Error{Status: 0, Message: MessageNetwork, Err: err}
	}

	requestURL := c.baseURL + cache.Key(endpoint, opts.Params)
	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header = headers
	requestID := c.RequestIDFunc()
	req.Header.Set(RequestIDHeader, requestID)

	log.Tracef("api request [%s]: %s %s", requestID, method, requestURL)

	c.metrics.GaugeInFlightRequests.Inc()
	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	c.metrics.GaugeInFlightRequests.Dec()
	if err != nil {
		c.observe(method, "0", start)
		log.Debugf("api request [%s] %s %s failed: %s", requestID, method, endpoint, err)
		return nil, &Error{Status: 0, Message: MessageNetwork, Err: err}
	}
	defer httpResp.Body.Close()

	status := httpResp.StatusCode
	c.observe(method, strconv.Itoa(status), start)
	span.SetAttributes(attribute.Int("http.status_code", status))

	data := parseBody(httpResp)

	if status >= 200 && status < 300 {
		return &Response{Success: true, Data: data}, nil
	}

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		if c.cache != nil {
			if clearErr := c.cache.Clear(ctx, ""); clearErr != nil {
				log.Errorf("clear cache after %d: %s", status, clearErr)
			}
		}
	}

	apiErr := newHTTPError(status, data)
	log.Debugf("api request [%s] %s %s: %s", requestID, method, endpoint, apiErr)
	return nil, apiErr
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if c.limiter.Allow() {
		return nil
	}
	c.metrics.CounterRateLimitedRequests.Inc()
	return c.limiter.Wait(ctx)
}

func (c *Client) observe(method, status string, start time.Time) {
	c.metrics.CounterRequests.WithLabelValues(method, status).Inc()
	c.metrics.HistogramRequestDuration.WithLabelValues(method, status).Observe(time.Since(start).Seconds())
}

// parseBody never fails: an empty body is null, anything that is not JSON
// is wrapped into {"message": <text>}.
func parseBody(resp *http.Response) json.RawMessage {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Debugf("read response body: %s", err)
		return messageJSON(MessageParse)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nullJSON
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	return messageJSON(string(raw))
}

func messageJSON(msg string) json.RawMessage {
	encoded, err := json.Marshal(map[string]string{"message": msg})
	if err != nil {
		return nullJSON
	}
	return encoded
}
