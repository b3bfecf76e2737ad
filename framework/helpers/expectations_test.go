package helpers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isEven() Expectation[int] {
	return NewExpectation("is even", nil, func(n int) bool { return n%2 == 0 })
}

func isPositive() Expectation[int] {
	return NewExpectation("is positive", func(n int) string { return fmt.Sprintf("<%d>", n) },
		func(n int) bool { return n > 0 })
}

func TestExpectationCheck(t *testing.T) {
	var tr TestRecorder
	assert.True(t, isEven().Check(&tr, 4))
	assert.Len(t, tr.Errors, 0)

	assert.False(t, isEven().Check(&tr, 3))
	require.Len(t, tr.Errors, 1)
	assert.Equal(t, "failed condition was: is even\nactual value was: 3", tr.Errors[0])
}

func TestExpectationEvaluate(t *testing.T) {
	assert.NoError(t, isEven().Evaluate(2))
	err := isPositive().Evaluate(-2)
	require.Error(t, err)
	assert.Equal(t, "failed condition was: is positive\nactual value was: <-2>", err.Error())
	assert.Equal(t, "is positive", isPositive().Description())
}
