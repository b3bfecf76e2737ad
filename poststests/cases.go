package poststests

import (
	"github.com/restcheck/posts-contract-tests/framework/apitest"
	"github.com/restcheck/posts-contract-tests/resultlog"

	"github.com/stretchr/testify/assert"
)

// runCase sends one request and evaluates verdict against the response. The outcome is
// recorded in the run-log before it is asserted, so the log and the test result always agree.
// If no response arrives, the case fails and is recorded with status 0.
func runCase(t *apitest.T, method, path string, payload interface{}, verdict Verdict) {
	t.Helper()
	c := requireContext(t)
	url := c.target.URL(path)

	resp, err := c.target.Do(method, path, payload, t.DebugLogger())
	if err != nil {
		c.record(t, resultlog.NewRecord(method, url, 0, false))
		t.Errorf("no response: %s", err)
		t.FailNow()
	}

	t.Debug("Expecting: %s", verdict.Description())
	failure := verdict.Evaluate(resp)
	c.record(t, resultlog.NewRecord(method, url, resp.StatusCode(), failure == nil))
	assert.True(t, failure == nil, "%s %s: %v", method, url, failure)
}
