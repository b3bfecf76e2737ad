package apitest

import "strings"

type Results struct {
	Tests    []TestResult
	Failures []TestResult

	// Aborted is non-nil if some test called T.Abort; tests that had not started by then
	// were skipped.
	Aborted error
}

type TestResult struct {
	TestID TestID
	Errors []error
	Failed bool
}

// OK is true if no test failed and the run was not aborted.
func (r Results) OK() bool {
	return len(r.Failures) == 0 && r.Aborted == nil
}

// TestID is the path of names leading to a test, from the top-level scope down.
type TestID []string

func (t TestID) String() string {
	return strings.Join(t, "/")
}

// Plus returns a new TestID for a subtest; it never modifies t.
func (t TestID) Plus(name string) TestID {
	return append(append(TestID(nil), t...), name)
}
