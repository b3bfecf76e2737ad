package harness

import (
	"net/http"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

const maxLoggedBodyLength = 500

// Response is a completed HTTP exchange with the target.
type Response struct {
	statusCode int
	elapsed    time.Duration
	header     http.Header
	body       []byte
}

// NewResponse is used by tests that need a Response without a network round trip.
func NewResponse(statusCode int, elapsed time.Duration, header http.Header, body []byte) *Response {
	if header == nil {
		header = make(http.Header)
	}
	return &Response{statusCode: statusCode, elapsed: elapsed, header: header, body: body}
}

func (r *Response) StatusCode() int { return r.statusCode }

// Elapsed is the time from sending the request until the response headers had been parsed;
// it does not include reading the body.
func (r *Response) Elapsed() time.Duration { return r.elapsed }

// Header lookups through Get are case-insensitive.
func (r *Response) Header() http.Header { return r.header }

func (r *Response) Body() []byte { return r.body }

// JSON parses the body. A body that is not valid JSON yields ldvalue.Null().
func (r *Response) JSON() ldvalue.Value { return ldvalue.Parse(r.body) }

func (r *Response) bodyForLog() string {
	if len(r.body) > maxLoggedBodyLength {
		return string(r.body[:maxLoggedBodyLength]) + "..."
	}
	return string(r.body)
}
