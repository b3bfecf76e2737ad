// Package framework contains the low-level infrastructure of the posts contract test runner
// that is not specific to the posts resource. The base package contains shared types such as
// Logger; other components are in the subpackages:
//
// - apitest: a test scope framework similar to Go's testing package, run as ordinary
// application code so that a single binary can test any remote base URL.
//
// - harness: the connection to the API under test, which performs one timed HTTP request
// per call and describes it in the test's debug output.
//
// - helpers and opt: small generic utilities shared by the other packages.
//
// The domain-specific code that knows what is being tested (the poststests package) supplies
// the request targets, payloads and verdict rules on top of these.
package framework
