package poststests

import (
	"fmt"

	"github.com/restcheck/posts-contract-tests/framework/apitest"
)

func doPostTests(t *apitest.T) {
	t.Run("success", func(t *apitest.T) {
		runCase(t, "POST", postsPath, requireContext(t).loadPost(t, 0), StatusIn(postSuccessStatuses...))
	})

	t.Run("status 201", func(t *apitest.T) {
		runCase(t, "POST", postsPath, requireContext(t).loadPost(t, 0), StatusIs(201))
	})

	t.Run("latency", func(t *apitest.T) {
		runCase(t, "POST", postsPath, requireContext(t).loadPost(t, 0), RespondsWithin(postLatencyBudget))
	})

	t.Run("echo", func(t *apitest.T) {
		for i, p := range requireContext(t).loadPosts(t) {
			t.Run(fmt.Sprintf("fixture %d", i), func(t *apitest.T) {
				runCase(t, "POST", postsPath, p, EchoesPost(p))
			})
		}
	})

	t.Run("Content-Type header", func(t *apitest.T) {
		runCase(t, "POST", postsPath, requireContext(t).loadPost(t, 0), HasHeader(contentTypeHeader))
	})
}
