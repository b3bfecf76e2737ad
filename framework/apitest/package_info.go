// Package apitest contains a test runner framework that is similar to Go's testing package,
// but is run as regular Go application code rather than Go tests. This lets one binary run the
// same contract tests against any base URL, select tests with regex filters, capture debug
// output per test, and report results to the console, to JUnit XML, or both.
package apitest
