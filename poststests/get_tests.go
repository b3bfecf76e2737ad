package poststests

import (
	"github.com/restcheck/posts-contract-tests/framework/apitest"
)

func doGetTests(t *apitest.T) {
	t.Run("status 200", func(t *apitest.T) {
		runCase(t, "GET", postsPath, nil, StatusIs(200))
	})

	t.Run("latency", func(t *apitest.T) {
		runCase(t, "GET", postsPath, nil, RespondsWithin(getLatencyBudget))
	})

	t.Run("Content-Type header", func(t *apitest.T) {
		runCase(t, "GET", postsPath, nil, HasHeader(contentTypeHeader))
	})

	t.Run("body is non-empty array", func(t *apitest.T) {
		runCase(t, "GET", postsPath, nil, BodyIsNonEmptyArray())
	})

	t.Run("body is array", func(t *apitest.T) {
		runCase(t, "GET", postsPath, nil, BodyIsArray())
	})
}
