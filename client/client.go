// Package client talks to the directory service's HTTP API: JSON in and
// out, opaque token auth, rate-limit aware retries, and transparent
// result paging. The bulk engine and the ctl commands consume it; it
// interprets nothing beyond the service's error envelope.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/dsctl/dsctl/dotted"
	"github.com/dsctl/dsctl/errors"
	"github.com/dsctl/dsctl/logger"
)

// DefaultPathBase is the API version prefix joined under the profile's
// base URL.
const DefaultPathBase = "api/v1"

// APIError is the directory service's JSON error envelope. The bulk
// engine treats it as opaque; it exists so humans get the service's own
// wording back.
type APIError struct {
	ErrorCode    string              `json:"errorCode"`
	ErrorSummary string              `json:"errorSummary"`
	ErrorLink    string              `json:"errorLink"`
	ErrorID      string              `json:"errorId"`
	ErrorCauses  []map[string]string `json:"errorCauses"`
	StatusCode   int                 `json:"-"`
}

func (e *APIError) Error() string {
	if e.ErrorCode == "" {
		return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.ErrorSummary)
	}
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.ErrorSummary)
}

// Client is a handle on one directory-service tenant. Construct it
// explicitly from a profile and pass it into commands; there is no
// ambient shared instance.
type Client struct {
	base     *url.URL
	pathBase string
	token    string
	http     *retryablehttp.Client
	log      logger.Logger
}

// Option configures a Client.
type Option func(*Client)

func OptLogger(log logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// OptHTTPClient swaps the underlying transport, mostly for tests.
func OptHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http.HTTPClient = hc }
}

func OptPathBase(base string) Option {
	return func(c *Client) { c.pathBase = strings.Trim(base, "/") }
}

// OptRetryMax caps transport-level retries.
func OptRetryMax(n int) Option {
	return func(c *Client) { c.http.RetryMax = n }
}

// New returns a Client for the service at rawurl authenticating with
// token.
func New(rawurl, token string, opts ...Option) (*Client, error) {
	lower := strings.ToLower(rawurl)
	if !strings.HasPrefix(lower, "https://") && !strings.HasPrefix(lower, "http://") {
		return nil, errors.Newf(errors.ErrBadConfig, "url %q must start with http:// or https://", rawurl)
	}
	base, err := url.Parse(rawurl)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing url %q", rawurl)
	}

	c := &Client{
		base:     base,
		pathBase: DefaultPathBase,
		token:    token,
		log:      logger.NopLogger,
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 5
	rc.CheckRetry = checkRetry
	rc.Backoff = rateLimitBackoff
	c.http = rc

	for _, opt := range opts {
		opt(c)
	}
	rc.Logger = retryLogger{c.log}
	return c, nil
}

// checkRetry retries transport errors, 5xx and 429. Everything else,
// including 4xx API errors, goes straight back to the caller.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return true, nil
	}
	return false, nil
}

// rateLimitBackoff honors the X-Rate-Limit-Reset epoch header on 429
// responses: sleep until the service says it is good again, at least one
// second. Other retryable responses use the default exponential backoff.
func rateLimitBackoff(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		if until, err := strconv.ParseInt(resp.Header.Get("X-Rate-Limit-Reset"), 10, 64); err == nil {
			delay := time.Until(time.Unix(until, 0))
			if delay < time.Second {
				delay = time.Second
			}
			return delay
		}
	}
	return retryablehttp.DefaultBackoff(min, max, attemptNum, resp)
}

// retryLogger adapts our Logger to retryablehttp's leveled interface.
type retryLogger struct {
	log logger.Logger
}

func (rl retryLogger) Error(msg string, kv ...interface{}) { rl.log.Errorf("%s %v", msg, kv) }
func (rl retryLogger) Warn(msg string, kv ...interface{})  { rl.log.Warnf("%s %v", msg, kv) }
func (rl retryLogger) Info(msg string, kv ...interface{})  { rl.log.Debugf("%s %v", msg, kv) }
func (rl retryLogger) Debug(msg string, kv ...interface{}) { rl.log.Debugf("%s %v", msg, kv) }

func (c *Client) endpoint(path string) string {
	u := *c.base
	u.Path = "/" + c.pathBase + "/" + strings.Trim(path, "/")
	return u.String()
}

// doRaw performs one request and returns the raw response. Responses
// with status >= 400 are decoded into *APIError.
func (c *Client) doRaw(ctx context.Context, method, rawurl string, params url.Values, body interface{}) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		rdr = buf
	}

	if len(params) > 0 {
		sep := "?"
		if strings.Contains(rawurl, "?") {
			sep = "&"
		}
		rawurl += sep + params.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, rawurl, rdr)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "SSWS "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, rawurl)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		apiErr := &APIError{StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(resp.Body)
		if jerr := json.Unmarshal(raw, apiErr); jerr != nil || apiErr.ErrorSummary == "" {
			apiErr.ErrorSummary = strings.TrimSpace(string(raw))
			if apiErr.ErrorSummary == "" {
				apiErr.ErrorSummary = resp.Status
			}
		}
		return nil, apiErr
	}
	return resp, nil
}

// Call performs one API call and decodes a single JSON object, with
// `_links` stripped. Non-JSON responses are drained and discarded.
func (c *Client) Call(ctx context.Context, method, path string, params url.Values, body interface{}) (dotted.Document, error) {
	resp, err := c.doRaw(ctx, method, c.endpoint(path), params, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		io.Copy(io.Discard, resp.Body)
		return nil, nil
	}
	var doc dotted.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding response")
	}
	delete(doc, "_links")
	return doc, nil
}

// List performs a GET and follows RFC 5988 `Link rel="next"` headers
// until the result set is exhausted or limit (if > 0) is reached.
// `_links` members are stripped from every item.
func (c *Client) List(ctx context.Context, path string, params url.Values, limit int) ([]dotted.Document, error) {
	var out []dotted.Document

	next := c.endpoint(path)
	last := ""
	for next != "" && next != last {
		resp, err := c.doRaw(ctx, http.MethodGet, next, params, nil)
		if err != nil {
			return nil, err
		}
		params = nil // carried inside the next link from here on

		var page []dotted.Document
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, errors.Wrap(err, "decoding page")
		}
		for _, item := range page {
			delete(item, "_links")
		}
		out = append(out, page...)

		if limit > 0 && len(out) >= limit {
			break
		}
		last = next
		next = nextLink(resp.Header)
	}
	return out, nil
}

// nextLink extracts the rel="next" target from Link headers.
func nextLink(h http.Header) string {
	for _, link := range h.Values("Link") {
		for _, part := range strings.Split(link, ",") {
			fields := strings.Split(part, ";")
			if len(fields) < 2 {
				continue
			}
			target := strings.Trim(strings.TrimSpace(fields[0]), "<>")
			for _, attr := range fields[1:] {
				if strings.TrimSpace(attr) == `rel="next"` {
					return target
				}
			}
		}
	}
	return ""
}

// ID pulls the remote identifier out of a returned document.
func ID(doc dotted.Document) string {
	if id, ok := doc["id"].(string); ok {
		return id
	}
	return ""
}
