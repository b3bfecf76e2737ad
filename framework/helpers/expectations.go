package helpers

import (
	"fmt"

	"github.com/stretchr/testify/assert"
)

// Expectation is a general mechanism for declaring expectations about a value. Expectations can be combined,
// and they self-describe on failure.
type Expectation[V any] struct {
	conditions    []condition[V]
	describeValue func(V) string
}

type condition[V any] struct {
	description string
	fn          func(V) bool
}

// NewExpectation creates an expectation from a predicate and a descriptive string. The description is
// printed in case of failure, followed by describeValue(value) if describeValue is non-nil.
func NewExpectation[V any](description string, describeValue func(V) string, fn func(V) bool) Expectation[V] {
	return Expectation[V]{
		conditions:    []condition[V]{{description: description, fn: fn}},
		describeValue: describeValue,
	}
}

// Check executes the expectation for a specific value, reporting one failure to t for each condition
// that did not hold.
func (ex Expectation[V]) Check(t assert.TestingT, value V) bool {
	ok := true
	for _, c := range ex.conditions {
		if c.fn == nil || c.fn(value) {
			continue
		}
		ok = false
		t.Errorf("failed condition was: %s\nactual value was: %s", c.description, ex.describe(value))
	}
	return ok
}

// Evaluate runs the expectation without failing any test, returning nil if it held or an error
// listing the failed conditions.
func (ex Expectation[V]) Evaluate(value V) error {
	var tr TestRecorder
	ex.Check(&tr, value)
	return tr.Err()
}

// Description returns the descriptions of all conditions joined with "and".
func (ex Expectation[V]) Description() string {
	s := ""
	for i, c := range ex.conditions {
		if i > 0 {
			s += " and "
		}
		s += c.description
	}
	return s
}

func (ex Expectation[V]) describe(value V) string {
	if ex.describeValue != nil {
		return ex.describeValue(value)
	}
	var v interface{} = value
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%+v", value)
}
