package harness

import (
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
)

func requireRequest(t *testing.T, requests <-chan httphelpers.HTTPRequestInfo) httphelpers.HTTPRequestInfo {
	t.Helper()
	select {
	case r := <-requests:
		return r
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for request")
		return httphelpers.HTTPRequestInfo{}
	}
}

func requireNoMoreRequests(t *testing.T, requests <-chan httphelpers.HTTPRequestInfo) {
	t.Helper()
	select {
	case r := <-requests:
		t.Fatalf("unexpected extra request: %s %s", r.Request.Method, r.Request.URL)
	case <-time.After(50 * time.Millisecond):
	}
}
