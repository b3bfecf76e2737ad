package harness

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/restcheck/posts-contract-tests/framework"
	"github.com/restcheck/posts-contract-tests/framework/helpers"

	"github.com/launchdarkly/go-test-helpers/v2/jsonhelpers"
)

const probeInterval = time.Millisecond * 100

// Target is the API under test. It contains no knowledge of what the API does; it only
// performs one timed request per call to Do and describes it in the caller's debug output.
type Target struct {
	baseURL string
	client  *http.Client
	logger  framework.Logger
}

// RequestError is returned by Do when no HTTP response was received at all.
type RequestError struct {
	Method string
	URL    string
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s failed: %s", e.Method, e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// NewTarget validates the base URL and creates a Target whose requests time out after timeout.
// A zero timeout means no timeout.
func NewTarget(baseURL string, timeout time.Duration, logger framework.Logger) (*Target, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: no host", baseURL)
	}
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Target{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// BaseURL returns the base URL without a trailing slash.
func (t *Target) BaseURL() string { return t.baseURL }

// URL returns the absolute URL for a path such as "/posts".
func (t *Target) URL(path string) string { return t.baseURL + path }

// Probe checks that the target is reachable, retrying until any HTTP response arrives or
// the timeout elapses. The status code does not matter.
func (t *Target) Probe(timeout time.Duration, output io.Writer) error {
	helpers.MustFprintf(output, "Connecting to %s", t.baseURL)
	var lastErr error
	reachable := helpers.PollForSpecificResultValue(func() bool {
		helpers.MustFprintf(output, ".")
		resp, err := t.client.Get(t.baseURL)
		if err != nil {
			lastErr = err
			return false
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return true
	}, timeout, probeInterval, true)
	helpers.MustFprintln(output)
	if !reachable {
		if lastErr == nil {
			lastErr = errors.New("no response")
		}
		return fmt.Errorf("timed out connecting to %s, result of last attempt was: %w", t.baseURL, lastErr)
	}
	t.logger.Printf("Target %s is reachable", t.baseURL)
	return nil
}

// Do sends one request to the target. If payload is non-nil it is sent as a JSON body. The
// request is described as a curl command in logger, followed by the status and timing.
//
// Any HTTP response is returned without error regardless of its status; a *RequestError means
// the request could not be completed.
func (t *Target) Do(method, path string, payload interface{}, logger framework.Logger) (*Response, error) {
	if logger == nil {
		logger = t.logger
	}
	fullURL := t.URL(path)

	var body []byte
	var bodyReader io.Reader
	if payload != nil {
		body = jsonhelpers.ToJSON(payload)
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, fullURL, bodyReader)
	if err != nil {
		return nil, &RequestError{Method: method, URL: fullURL, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	logger.Printf("%s", curlCommand(req, body))

	start := time.Now()
	resp, err := t.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		logger.Printf("%s %s: no response: %s", method, fullURL, err)
		return nil, &RequestError{Method: method, URL: fullURL, Err: err}
	}
	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		logger.Printf("%s %s: failed reading body after status %d: %s", method, fullURL, resp.StatusCode, err)
		return nil, &RequestError{Method: method, URL: fullURL, Err: err}
	}

	r := &Response{
		statusCode: resp.StatusCode,
		elapsed:    elapsed,
		header:     resp.Header,
		body:       respBody,
	}
	logger.Printf("Status %d in %s, Content-Type %q, body: %s",
		r.statusCode, elapsed.Round(time.Microsecond), r.header.Get("Content-Type"), r.bodyForLog())
	return r, nil
}
