package poststests

import (
	"fmt"

	"github.com/restcheck/posts-contract-tests/framework/apitest"
)

func doPutTests(t *apitest.T) {
	t.Run("success", func(t *apitest.T) {
		runCase(t, "PUT", firstPostPath, requireContext(t).loadPost(t, 0), StatusIn(putSuccessStatuses...))
	})

	t.Run("status 200", func(t *apitest.T) {
		runCase(t, "PUT", firstPostPath, requireContext(t).loadPost(t, 0), StatusIs(200))
	})

	t.Run("latency", func(t *apitest.T) {
		runCase(t, "PUT", firstPostPath, requireContext(t).loadPost(t, 0), RespondsWithin(putLatencyBudget))
	})

	t.Run("Content-Type header", func(t *apitest.T) {
		runCase(t, "PUT", firstPostPath, requireContext(t).loadPost(t, 0), HasHeader(contentTypeHeader))
	})

	t.Run("echo", func(t *apitest.T) {
		for _, i := range putEchoFixtureIndices {
			t.Run(fmt.Sprintf("fixture %d", i), func(t *apitest.T) {
				p := requireContext(t).loadPost(t, i)
				runCase(t, "PUT", firstPostPath, p, EchoesPost(p))
			})
		}
	})
}
