package apitest

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type regexFilterTestParams struct {
	run         []string
	skip        []string
	testID      TestID
	shouldMatch bool
}

func TestRegexFilters(t *testing.T) {
	allParams := []regexFilterTestParams{
		// matches everything by default
		{nil, nil, TestID(nil), true},
		{nil, nil, TestID{"POST"}, true},
		{nil, nil, TestID{"POST", "status"}, true},

		// -run with one component
		{[]string{"POST"}, nil, TestID(nil), true},
		{[]string{"POST"}, nil, TestID{"POST"}, true},
		{[]string{"POST"}, nil, TestID{"GET"}, false},
		{[]string{"POST"}, nil, TestID{"POST", "status"}, true},

		// -run with several components
		{[]string{"PUT/echo"}, nil, TestID{"PUT"}, true},
		{[]string{"PUT/echo"}, nil, TestID{"PUT", "echo fixture 1"}, true},
		{[]string{"PUT/echo"}, nil, TestID{"PUT", "status"}, false},
		{[]string{"PUT/echo"}, nil, TestID{"GET", "echo"}, false},

		// several -run patterns
		{[]string{"GET", "DELETE"}, nil, TestID{"GET"}, true},
		{[]string{"GET", "DELETE"}, nil, TestID{"DELETE", "status"}, true},
		{[]string{"GET", "DELETE"}, nil, TestID{"POST"}, false},

		// -skip
		{nil, []string{"latency"}, TestID{"GET"}, true},
		{nil, []string{"GET/latency"}, TestID{"GET"}, true},
		{nil, []string{"GET/latency"}, TestID{"GET", "latency"}, false},
		{nil, []string{"GET/latency"}, TestID{"GET", "latency", "x"}, false},
		{nil, []string{"GET/latency"}, TestID{"POST", "latency"}, true},

		// -skip overrides -run
		{[]string{"GET"}, []string{"GET/status"}, TestID{"GET", "status"}, false},
		{[]string{"GET"}, []string{"GET/status"}, TestID{"GET", "latency"}, true},
	}
	for _, params := range allParams {
		var r RegexFilters
		for _, s := range params.run {
			require.NoError(t, r.MustMatch.Set(s))
		}
		for _, s := range params.skip {
			require.NoError(t, r.MustNotMatch.Set(s))
		}
		t.Run(fmt.Sprintf("run=%s, skip=%s, id=%s", r.MustMatch, r.MustNotMatch, params.testID), func(t *testing.T) {
			assert.Equal(t, params.shouldMatch, r.Match(params.testID))
		})
	}
}

func TestTestIDPatternListRejectsBadRegex(t *testing.T) {
	var l TestIDPatternList
	assert.Error(t, l.Set("GET/(unclosed"))
	assert.False(t, l.IsDefined())
}

func TestRegexFiltersDescribe(t *testing.T) {
	var buf bytes.Buffer
	RegexFilters{}.Describe(&buf)
	assert.Equal(t, 0, buf.Len())

	var r RegexFilters
	require.NoError(t, r.MustMatch.Set("GET"))
	require.NoError(t, r.MustNotMatch.Set("GET/latency"))
	r.Describe(&buf)
	assert.Contains(t, buf.String(), `skip any not matching "GET"`)
	assert.Contains(t, buf.String(), `skip any matching "GET/latency"`)
}
