package apitest

import (
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/restcheck/posts-contract-tests/framework"
)

const (
	skippedByFilter = "excluded by filter parameters"
	skippedByAbort  = "test run was aborted"
)

type environment struct {
	config  TestConfiguration
	results Results
	aborted error
}

// T represents a test scope. It is very similar to Go's testing.T type.
type T struct {
	env         *environment
	id          TestID
	debugLogger framework.CapturingLogger
	failed      bool
	errors      []error
	helperFns   []string
}

// TestConfiguration contains options for the entire test run.
type TestConfiguration struct {
	// Filter is an optional value for determining which tests to run based on their names.
	Filter Filter

	// TestLogger receives status information about each test.
	TestLogger TestLogger

	// Context is an optional value of any type defined by the application which can be accessed from tests.
	Context interface{}
}

// Run starts a top-level test scope.
func Run(config TestConfiguration, action func(*T)) Results {
	if config.TestLogger == nil {
		config.TestLogger = nullTestLogger{}
	}
	env := &environment{config: config}
	(&T{env: env}).run(action)
	env.results.Aborted = env.aborted
	return env.results
}

// run executes action and appends its result to the run's results. A FailNow or a panic in
// action ends only this scope.
func (t *T) run(action func(*T)) TestResult {
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			t.failed = true
			if _, ok := r.(*T); ok {
				if len(t.errors) == 0 {
					t.addError(errors.New("test failed with no failure message"))
				}
				return
			}
			t.addError(fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack())))
		}()
		action(t)
	}()

	result := TestResult{TestID: t.id, Errors: t.errors, Failed: t.failed}
	if result.Failed {
		t.env.results.Failures = append(t.env.results.Failures, result)
	}
	t.env.results.Tests = append(t.env.results.Tests, result)
	return result
}

func (t *T) addError(err error) {
	t.errors = append(t.errors, err)
	t.env.config.TestLogger.TestError(t.id, err)
}

// Run runs a subtest in its own scope.
//
// This is equivalent to Go's testing.T.Run. A failure or panic in the subtest does not stop
// the parent from running its remaining subtests; only Abort does that.
func (t *T) Run(name string, action func(*T)) {
	id := t.id.Plus(name)
	logger := t.env.config.TestLogger

	logger.TestStarted(id)
	switch {
	case t.env.config.Filter != nil && !t.env.config.Filter.Match(id):
		logger.TestSkipped(id, skippedByFilter)
		return
	case t.env.aborted != nil:
		logger.TestSkipped(id, skippedByAbort)
		return
	}

	child := &T{id: id, env: t.env}
	t.debugLogger.AddChildLogger(&child.debugLogger) // see comments on t.DebugLogger()
	result := child.run(action)
	t.debugLogger.RemoveChildLogger(&child.debugLogger)
	logger.TestFinished(id, result, child.debugLogger.Output())
}

// Errorf reports a test failure. It is equivalent to Go's testing.T.Errorf. It does not cause the test
// to terminate, but adds the failure message to the output and marks the test as failed.
//
// You will rarely use this method directly; it is part of this type's implementation of the base
// interfaces testing.T and assert.TestingT, allowing it to be called from assertion helpers.
func (t *T) Errorf(format string, args ...interface{}) {
	t.failed = true
	err := transformError(fmt.Errorf(format, args...), getStacktrace(false, t.helperFns))
	t.addError(err)
}

// FailNow causes the test to immediately terminate and be marked as failed.
func (t *T) FailNow() {
	panic(t)
}

// Abort fails the current test and stops the whole run: every test that has not started yet
// is reported as skipped, and Results.Aborted will be set to err. This is for infrastructure
// failures that make further results meaningless, such as being unable to write the run-log.
func (t *T) Abort(err error) {
	if t.env.aborted == nil {
		t.env.aborted = err
	}
	t.Errorf("test run aborted: %s", err)
	t.FailNow()
}

// Debug writes a message to the output for this test scope.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

// DebugLogger returns a Logger instance for writing output for this test scope.
//
// The output that is captured for a test will be passed to TestLogger.TestFinished at the end of
// the test. When a test has subtests, the logger for a subtest starts out with a copy of any
// output that was already logged for the parent test, and anything the parent logs while the
// subtest is running goes to the subtest instead.
func (t *T) DebugLogger() framework.Logger {
	return &t.debugLogger
}

// Context returns the application-defined context value, if any, that was specified in the
// TestConfiguration.
func (t *T) Context() interface{} {
	return t.env.config.Context
}

// Helper marks the function that calls it as a test helper that shouldn't appear in stacktraces.
// Equivalent to Go's testing.T.Helper().
func (t *T) Helper() {
	pc, _, _, ok := runtime.Caller(1) // 0 is Helper() itself, 1 is who called it
	if !ok {
		return
	}
	if f := runtime.FuncForPC(pc); f != nil {
		t.helperFns = append(t.helperFns, f.Name())
	}
}
