// Package harness is the connection to the API under test.
package harness
