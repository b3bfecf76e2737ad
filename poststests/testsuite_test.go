package poststests

import (
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/restcheck/posts-contract-tests/framework/apitest"
	"github.com/restcheck/posts-contract-tests/framework/harness"
	"github.com/restcheck/posts-contract-tests/mockapi"
	"github.com/restcheck/posts-contract-tests/resultlog"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threePosts = `[
  {"title":"foo","body":"bar","userId":1},
  {"title":"second","body":"two","userId":2},
  {"title":"third","body":"three","userId":3}
]`

// casesPerRun is the number of cases, and so of run-log rows, for a fixture file of three posts:
// 4+3 POST, 5 GET, 4+3 PUT, 4 DELETE.
const casesPerRun = 23

type suiteRun struct {
	results apitest.Results
	records []resultlog.Record
	baseURL string
}

func writeFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func runSuite(t *testing.T, service *mockapi.PostsService, fixtures string, filter apitest.Filter) suiteRun {
	dataPath := writeFile(t, "test_data.json", fixtures)
	logPath := filepath.Join(t.TempDir(), "results.csv")
	var run suiteRun

	httphelpers.WithServer(service, func(server *httptest.Server) {
		target, err := harness.NewTarget(server.URL, 5*time.Second, nil)
		require.NoError(t, err)
		log, err := resultlog.Create(logPath)
		require.NoError(t, err)

		run.baseURL = server.URL
		run.results = RunPostsTestSuite(target, log, dataPath, filter, nil)
	})

	records, err := resultlog.ReadRecords(logPath)
	require.NoError(t, err)
	run.records = records
	return run
}

func newService(t *testing.T, options ...mockapi.ServiceOption) *mockapi.PostsService {
	s, err := mockapi.NewPostsService(mockapi.DefaultPostCount, nil, options...)
	require.NoError(t, err)
	return s
}

func failedIDs(results apitest.Results) []string {
	var ids []string
	for _, f := range results.Failures {
		ids = append(ids, f.TestID.String())
	}
	return ids
}

func TestSuitePassesAgainstFaithfulService(t *testing.T) {
	run := runSuite(t, newService(t), threePosts, nil)

	assert.True(t, run.results.OK(), "failures: %v", failedIDs(run.results))
	require.Len(t, run.records, casesPerRun)
	for _, r := range run.records {
		assert.Equal(t, resultlog.VerdictSuccess, r.Verdict, "%+v", r)
	}

	assert.Equal(t, resultlog.Record{
		Method: "POST", URL: run.baseURL + "/posts", StatusCode: 201, Verdict: "Success",
	}, run.records[0])

	var methods []string
	for _, r := range run.records {
		if len(methods) == 0 || methods[len(methods)-1] != r.Method {
			methods = append(methods, r.Method)
		}
	}
	assert.Equal(t, []string{"POST", "GET", "PUT", "DELETE"}, methods)

	for _, r := range run.records {
		switch r.Method {
		case "POST", "GET":
			assert.Equal(t, run.baseURL+"/posts", r.URL)
		default:
			assert.Equal(t, run.baseURL+"/posts/1", r.URL)
		}
	}
}

func TestSuiteWithSingleObjectFixture(t *testing.T) {
	run := runSuite(t, newService(t), `{"title":"foo","body":"bar","userId":1}`, nil)

	// PUT echo needs fixtures 1 and 2, which a single-object file does not have
	assert.ElementsMatch(t, []string{"PUT/echo/fixture 1", "PUT/echo/fixture 2"}, failedIDs(run.results))
	// those two fail before sending anything, so they have no rows
	assert.Len(t, run.records, casesPerRun-2-2)
	for _, r := range run.records {
		assert.Equal(t, resultlog.VerdictSuccess, r.Verdict, "%+v", r)
	}
}

func TestSuiteDetectsNonEmptyDeleteBody(t *testing.T) {
	run := runSuite(t, newService(t, mockapi.WithDeleteBody(`{"id":1}`)), threePosts, nil)

	assert.Equal(t, []string{"DELETE/body is empty object"}, failedIDs(run.results))
	require.Len(t, run.records, casesPerRun)
	failures := 0
	for _, r := range run.records {
		if r.Verdict == resultlog.VerdictFailure {
			failures++
			assert.Equal(t, resultlog.Record{
				Method: "DELETE", URL: run.baseURL + "/posts/1", StatusCode: 200, Verdict: "Failure",
			}, r)
		}
	}
	assert.Equal(t, 1, failures)
}

func TestSuiteDetectsSlowResponses(t *testing.T) {
	var filters apitest.RegexFilters
	require.NoError(t, filters.MustMatch.Set("GET"))
	run := runSuite(t, newService(t, mockapi.WithDelay(250*time.Millisecond)), threePosts, filters)

	assert.Equal(t, []string{"GET/latency"}, failedIDs(run.results))
	require.Len(t, run.records, 5)
	assert.Equal(t, resultlog.Record{
		Method: "GET", URL: run.baseURL + "/posts", StatusCode: 200, Verdict: "Failure",
	}, run.records[1])
}

func TestSuiteFilterSelectsCases(t *testing.T) {
	var filters apitest.RegexFilters
	require.NoError(t, filters.MustMatch.Set("PUT/echo"))
	require.NoError(t, filters.MustNotMatch.Set("PUT/echo/fixture 2"))
	run := runSuite(t, newService(t), threePosts, filters)

	assert.True(t, run.results.OK())
	require.Len(t, run.records, 2)
	for _, r := range run.records {
		assert.Equal(t, "PUT", r.Method)
	}
}

func TestSuiteWithMissingFixtureFile(t *testing.T) {
	service := newService(t)
	logPath := filepath.Join(t.TempDir(), "results.csv")
	var results apitest.Results

	httphelpers.WithServer(service, func(server *httptest.Server) {
		target, err := harness.NewTarget(server.URL, 5*time.Second, nil)
		require.NoError(t, err)
		log, err := resultlog.Create(logPath)
		require.NoError(t, err)
		results = RunPostsTestSuite(target, log, filepath.Join(t.TempDir(), "missing.json"), nil, nil)
	})

	records, err := resultlog.ReadRecords(logPath)
	require.NoError(t, err)
	// only GET and DELETE send no payload
	assert.Len(t, records, 9)
	for _, r := range records {
		assert.Contains(t, []string{"GET", "DELETE"}, r.Method)
	}
	for _, f := range results.Failures {
		if len(f.TestID) == 2 {
			require.NotEmpty(t, f.Errors, f.TestID.String())
			assert.Contains(t, f.Errors[0].Error(), "fixture error", f.TestID.String())
		}
	}
	assert.False(t, results.OK())
}

func TestSuiteRecordsUnreachableTargetAsStatusZero(t *testing.T) {
	server := httptest.NewServer(newService(t))
	baseURL := server.URL
	server.Close()

	target, err := harness.NewTarget(baseURL, time.Second, nil)
	require.NoError(t, err)
	logPath := filepath.Join(t.TempDir(), "results.csv")
	log, err := resultlog.Create(logPath)
	require.NoError(t, err)

	var filters apitest.RegexFilters
	require.NoError(t, filters.MustMatch.Set("DELETE"))
	results := RunPostsTestSuite(target, log, writeFile(t, "d.json", threePosts), filters, nil)

	assert.Len(t, results.Failures, 4)
	records, err := resultlog.ReadRecords(logPath)
	require.NoError(t, err)
	require.Len(t, records, 4)
	for _, r := range records {
		assert.Equal(t, 0, r.StatusCode)
		assert.Equal(t, resultlog.VerdictFailure, r.Verdict)
	}
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "no response")
}

type failingSink struct {
	appends int
}

func (s *failingSink) Append(resultlog.Record) error {
	s.appends++
	return &resultlog.WriteError{Path: "results.csv", Err: errors.New("disk full")}
}

func TestSuiteAbortsWhenRunLogCannotBeWritten(t *testing.T) {
	sink := &failingSink{}
	var results apitest.Results
	httphelpers.WithServer(newService(t), func(server *httptest.Server) {
		target, err := harness.NewTarget(server.URL, 5*time.Second, nil)
		require.NoError(t, err)
		results = RunPostsTestSuite(target, sink, writeFile(t, "d.json", threePosts), nil, nil)
	})

	assert.Equal(t, 1, sink.appends)
	require.Error(t, results.Aborted)
	var we *resultlog.WriteError
	assert.True(t, errors.As(results.Aborted, &we))
	assert.False(t, results.OK())
	require.NotEmpty(t, results.Failures)
	assert.Equal(t, "POST/success", results.Failures[0].TestID.String())
	assert.True(t, strings.HasPrefix(results.Failures[0].Errors[0].Error(), "test run aborted"))
}
