// Package poststests contains the test cases for the posts resource.
//
// Tests in this package use other packages as follows:
//
// apitest: the basic test scope framework
//
// harness: sending timed requests to the target
//
// data: the request payloads loaded from the fixture file
//
// resultlog: the run-log that every case appends one row to
package poststests
