package apitest

import (
	"bytes"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/restcheck/posts-contract-tests/framework"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTestLogger struct {
	started []string
	skipped map[string]string
	output  map[string][]string
	ended   bool
	endErr  error
}

func (r *recordingTestLogger) TestStarted(id TestID)   { r.started = append(r.started, id.String()) }
func (r *recordingTestLogger) TestError(TestID, error) {}
func (r *recordingTestLogger) TestFinished(id TestID, _ TestResult, out framework.CapturedOutput) {
	if r.output == nil {
		r.output = make(map[string][]string)
	}
	for _, m := range out {
		r.output[id.String()] = append(r.output[id.String()], m.Message)
	}
}
func (r *recordingTestLogger) TestSkipped(id TestID, reason string) {
	if r.skipped == nil {
		r.skipped = make(map[string]string)
	}
	r.skipped[id.String()] = reason
}
func (r *recordingTestLogger) EndLog(Results) error {
	r.ended = true
	return r.endErr
}

func TestMultiTestLoggerForwardsToAll(t *testing.T) {
	a, b := &recordingTestLogger{}, &recordingTestLogger{endErr: errors.New("b failed")}
	m := &MultiTestLogger{Loggers: []TestLogger{a, b}}

	m.TestStarted(TestID{"GET"})
	m.TestSkipped(TestID{"GET"}, "no")
	err := m.EndLog(Results{})

	assert.Equal(t, []string{"GET"}, a.started)
	assert.Equal(t, []string{"GET"}, b.started)
	assert.Equal(t, "no", a.skipped["GET"])
	assert.True(t, a.ended)
	assert.True(t, b.ended)
	assert.EqualError(t, err, "b failed")
}

func TestJUnitTestLoggerWritesReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junit.xml")
	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("DELETE"))
	logger := NewJUnitTestLogger(path, "http://localhost:8000", filters)

	results := Run(TestConfiguration{TestLogger: logger, Filter: filters}, func(ldt *T) {
		ldt.Run("GET", func(ldt1 *T) {
			ldt1.Run("status", func(*T) {})
			ldt1.Run("latency", func(ldt2 *T) {
				ldt2.Debug("took 900ms")
				ldt2.Errorf("too slow")
			})
		})
		ldt.Run("DELETE", func(*T) {})
	})
	require.NoError(t, logger.EndLog(results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc jUnitXMLDocument
	require.NoError(t, xml.Unmarshal(data, &doc))

	require.Len(t, doc.Suites, 2)
	get := doc.Suites[0]
	assert.Equal(t, "Posts contract tests: GET", get.Name)
	assert.Equal(t, 3, get.Tests)
	assert.Equal(t, 1, get.Failures)
	assert.Contains(t, get.Properties, jUnitXMLProperty{Name: "tests.target.url", Value: "http://localhost:8000"})

	var latency *jUnitXMLTestCase
	for i := range get.TestCases {
		if get.TestCases[i].Name == "GET/latency" {
			latency = &get.TestCases[i]
		}
	}
	require.NotNil(t, latency)
	require.NotNil(t, latency.Failure)
	assert.Contains(t, latency.Failure.Message, "too slow")
	assert.Contains(t, latency.Failure.Contents, "took 900ms")

	del := doc.Suites[1]
	assert.Equal(t, 1, del.Skipped)
	require.Len(t, del.TestCases, 1)
	require.NotNil(t, del.TestCases[0].SkipMessage)
	assert.Equal(t, "excluded by filter parameters", del.TestCases[0].SkipMessage.Message)
}

func captureConsole(t *testing.T, action func()) string {
	var buf bytes.Buffer
	oldOutput, oldNoColor := color.Output, color.NoColor
	color.Output, color.NoColor = &buf, true
	defer func() { color.Output, color.NoColor = oldOutput, oldNoColor }()
	action()
	return buf.String()
}

func TestConsoleTestLoggerDumpsDebugOutputOnFailure(t *testing.T) {
	var debug framework.CapturingLogger
	debug.Printf("curl -X DELETE http://localhost/posts/1")
	debug.Printf("Status 200")
	id := TestID{"DELETE", "body is empty object"}

	out := captureConsole(t, func() {
		ConsoleTestLogger{DebugOutputOnFailure: true}.TestFinished(id, TestResult{TestID: id, Failed: true}, debug.Output())
	})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "  FAILED: DELETE/body is empty object", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "    DEBUG ["), lines[1])
	assert.True(t, strings.HasSuffix(lines[1], "] curl -X DELETE http://localhost/posts/1"), lines[1])
	assert.True(t, strings.HasSuffix(lines[2], "] Status 200"), lines[2])
}

func TestConsoleTestLoggerHidesDebugOutputOnSuccess(t *testing.T) {
	var debug framework.CapturingLogger
	debug.Printf("Status 200")
	id := TestID{"GET", "status 200"}

	out := captureConsole(t, func() {
		ConsoleTestLogger{DebugOutputOnFailure: true}.TestFinished(id, TestResult{TestID: id}, debug.Output())
	})
	assert.Equal(t, "", out)

	out = captureConsole(t, func() {
		ConsoleTestLogger{DebugOutputOnSuccess: true}.TestFinished(id, TestResult{TestID: id}, debug.Output())
	})
	assert.Contains(t, out, "    DEBUG [")
}
