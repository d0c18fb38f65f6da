package http

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	charsetpkg "golang.org/x/net/html/charset"
)

// ErrServerStatus marks a 5xx answer. It counts as a breaker failure.
var ErrServerStatus = errors.New("server error status")

// Client represents an HTTP client with configuration options.
type Client struct {
	baseURL            string
	client             *http.Client
	followRedirect     bool
	dismiss404         bool
	defaultHeaders     map[string]string
	defaultContentType string
	backoff            *BackoffConfig
	breaker            *gobreaker.CircuitBreaker[*rawResponse]
	logger             HTTPLogger
	sleep              func(ctx context.Context, d time.Duration) error
}

// ClientOptions represents the configuration options for the HTTP client.
type ClientOptions struct {
	FollowRedirect      bool
	Dismiss404          bool
	DefaultHeaders      map[string]string
	DefaultContentType  string
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	ConnectionTimeout   time.Duration
	ReadTimeout         time.Duration
	// Backoff is the retry policy used when a request does not set its own. Nil disables retries.
	Backoff *BackoffConfig
	// Breaker wraps every attempt in a circuit breaker. Nil disables it.
	Breaker *BreakerConfig
	// Logger receives request and response events. Nil disables logging.
	Logger HTTPLogger
	// Transport overrides the default transport, mainly for tests.
	Transport http.RoundTripper
}

type rawResponse struct {
	status int
	header http.Header
	body   []byte
}

// NewHttpClient creates a new HTTP client with the given base URL and configuration options.
func NewHttpClient(baseURL string, opts ClientOptions) *Client {
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 200
	}
	if opts.MaxIdleConnsPerHost == 0 {
		opts.MaxIdleConnsPerHost = 20
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 60 * time.Second
	}
	if opts.ConnectionTimeout == 0 {
		opts.ConnectionTimeout = 60 * time.Second
	}
	if opts.DefaultContentType == "" {
		opts.DefaultContentType = "application/json"
	}

	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        opts.MaxIdleConns,
			MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
			IdleConnTimeout:     opts.IdleConnTimeout,
			DialContext: (&net.Dialer{
				Timeout: opts.ConnectionTimeout,
			}).DialContext,
		}
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.ReadTimeout,
	}

	if !opts.FollowRedirect {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	hc := &Client{
		baseURL:            strings.TrimRight(baseURL, "/"),
		client:             client,
		followRedirect:     opts.FollowRedirect,
		dismiss404:         opts.Dismiss404,
		defaultHeaders:     opts.DefaultHeaders,
		defaultContentType: opts.DefaultContentType,
		backoff:            opts.Backoff,
		logger:             opts.Logger,
		sleep:              sleepContext,
	}
	if opts.Breaker != nil {
		hc.breaker = newBreaker(*opts.Breaker)
	}
	return hc
}

// Request creates a new Request object for the client.
func (hc *Client) Request() *Request {
	return NewHttpClientRequest(hc)
}

// Get sends a GET request to the specified path with optional query parameters, headers, and response types.
// It returns the success response, error response, status code, and error if any.
func (hc *Client) Get(ctx context.Context, path string, queryParams map[string]string, headers map[string]string, successResp any, errorResp any) (any, any, int, error) {
	return hc.doRequestWithBackoff(ctx, http.MethodGet, path, queryParams, headers, nil, successResp, errorResp, nil)
}

// Post sends a POST request to the specified path with optional query parameters, headers, and response types.
// It returns the success response, error response, status code, and error if any.
func (hc *Client) Post(ctx context.Context, path string, queryParams map[string]string, headers map[string]string, body any, successResp any, errorResp any) (any, any, int, error) {
	return hc.doRequestWithBackoff(ctx, http.MethodPost, path, queryParams, headers, body, successResp, errorResp, nil)
}

// doRequestWithBackoff sends the request, retrying according to the backoff policy.
// The request backoff wins over the client default.
func (hc *Client) doRequestWithBackoff(ctx context.Context, method, path string, queryParams map[string]string, headers map[string]string, body any, successResp any, errorResp any, backoff *BackoffConfig) (any, any, int, error) {
	if backoff == nil {
		backoff = hc.backoff
	}
	maxRetries := 0
	if backoff != nil {
		maxRetries = backoff.MaxRetries
	}

	fullURL := hc.buildURL(path)
	if len(queryParams) > 0 {
		fullURL += "?" + buildQueryString(queryParams)
	}

	payload, contentType, err := hc.encodeBody(body)
	if err != nil {
		return nil, nil, 0, err
	}

	allHeaders := make(map[string]string, len(hc.defaultHeaders)+len(headers)+1)
	if contentType != "" {
		allHeaders["Content-Type"] = contentType
	}
	for k, v := range hc.defaultHeaders {
		allHeaders[k] = v
	}
	for k, v := range headers {
		allHeaders[k] = v
	}

	for attempt := 0; ; attempt++ {
		hc.logRequest(method, fullURL, allHeaders, payload)
		start := time.Now()

		resp, err := hc.execute(ctx, method, fullURL, allHeaders, payload)
		latency := time.Since(start).Milliseconds()

		status := 0
		var respBody []byte
		if resp != nil {
			status = resp.status
			respBody = resp.body
		}

		retryable := backoff != nil && backoff.shouldRetry(status, err) && ctx.Err() == nil
		if retryable && attempt < maxRetries {
			if hc.logger != nil {
				hc.logger.LogRequestRetry(method, fullURL, allHeaders, string(payload), status, string(respBody), latency, err, attempt+1, maxRetries)
			}
			if sleepErr := hc.sleep(ctx, backoff.delay(attempt)); sleepErr != nil {
				return nil, nil, status, sleepErr
			}
			continue
		}

		if resp == nil {
			if hc.logger != nil {
				hc.logger.LogResponseError(method, fullURL, allHeaders, string(payload), 0, "", latency, err)
			}
			return nil, nil, 0, err
		}

		successOut, errorOut, handleErr := hc.handleResponse(resp, successResp, errorResp)
		if hc.logger != nil {
			if handleErr != nil {
				hc.logger.LogResponseError(method, fullURL, allHeaders, string(payload), status, string(respBody), latency, handleErr)
			} else {
				hc.logger.LogResponseSuccess(method, fullURL, allHeaders, string(payload), status, string(respBody), latency)
			}
		}
		return successOut, errorOut, status, handleErr
	}
}

// execute runs a single attempt, through the breaker when one is configured
func (hc *Client) execute(ctx context.Context, method, fullURL string, headers map[string]string, payload []byte) (*rawResponse, error) {
	attempt := func() (*rawResponse, error) {
		resp, err := hc.roundTrip(ctx, method, fullURL, headers, payload)
		if err != nil {
			return nil, err
		}
		if resp.status >= http.StatusInternalServerError {
			return resp, fmt.Errorf("%w: %d", ErrServerStatus, resp.status)
		}
		return resp, nil
	}

	if hc.breaker == nil {
		return attempt()
	}
	return hc.breaker.Execute(attempt)
}

func (hc *Client) roundTrip(ctx context.Context, method, fullURL string, headers map[string]string, payload []byte) (*rawResponse, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := hc.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = MaskURL(urlErr.URL)
		}
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &rawResponse{status: resp.StatusCode, header: resp.Header, body: bodyBytes}, nil
}

// handleResponse decodes the body into the success or error target depending on the status
func (hc *Client) handleResponse(resp *rawResponse, successResp any, errorResp any) (any, any, error) {
	respContentType := resp.header.Get("Content-Type")
	if respContentType == "" {
		respContentType = hc.defaultContentType
	}

	if resp.status >= 200 && resp.status < 300 {
		if successResp != nil {
			if err := hc.unmarshalResponse(resp.body, respContentType, successResp); err != nil {
				return nil, nil, fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return successResp, nil, nil
	}

	if resp.status == http.StatusNotFound && hc.dismiss404 {
		return nil, nil, nil
	}

	if errorResp != nil {
		if err := hc.unmarshalResponse(resp.body, respContentType, errorResp); err != nil {
			errorResp = nil
		}
	}

	return nil, errorResp, fmt.Errorf("http error: status %d", resp.status)
}

// encodeBody serializes the request body with the client content type
func (hc *Client) encodeBody(body any) ([]byte, string, error) {
	if body == nil {
		return nil, "", nil
	}

	switch body := body.(type) {
	case string:
		return []byte(body), "text/plain", nil
	case []byte:
		return body, "application/octet-stream", nil
	}

	switch hc.defaultContentType {
	case "application/xml":
		xmlBody, err := xml.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body to XML: %w", err)
		}
		return xmlBody, "application/xml", nil
	case "text/plain":
		return []byte(fmt.Sprintf("%v", body)), "text/plain", nil
	default:
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body to JSON: %w", err)
		}
		return jsonBody, "application/json", nil
	}
}

// unmarshalResponse unmarshals response body based on content type
func (hc *Client) unmarshalResponse(bodyBytes []byte, contentType string, target any) error {
	mainContentType := strings.TrimSpace(strings.Split(contentType, ";")[0])

	switch mainContentType {
	case "application/xml", "text/xml":
		dec := xml.NewDecoder(bytes.NewReader(bodyBytes))
		dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
			return charsetpkg.NewReaderLabel(charset, input)
		}
		return dec.Decode(target)
	case "text/plain":
		if strPtr, ok := target.(*string); ok {
			*strPtr = string(bodyBytes)
			return nil
		}
		return json.Unmarshal(bodyBytes, target)
	case "application/octet-stream":
		if bytePtr, ok := target.(*[]byte); ok {
			*bytePtr = bodyBytes
			return nil
		}
		return json.Unmarshal(bodyBytes, target)
	default:
		return json.Unmarshal(bodyBytes, target)
	}
}

func (hc *Client) logRequest(method, fullURL string, headers map[string]string, payload []byte) {
	if hc.logger != nil {
		hc.logger.LogRequest(method, fullURL, headers, string(payload))
	}
}

// buildURL builds a normalized URL by properly handling baseURL and path
func (hc *Client) buildURL(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return hc.baseURL + path
}

// buildQueryString builds an escaped query string, sorted by key
func buildQueryString(params map[string]string) string {
	values := make(url.Values, len(params))
	for key, value := range params {
		values.Set(key, value)
	}
	return values.Encode()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
