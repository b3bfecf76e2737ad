package poststests

import (
	"github.com/restcheck/posts-contract-tests/framework/apitest"
)

func doDeleteTests(t *apitest.T) {
	t.Run("success", func(t *apitest.T) {
		runCase(t, "DELETE", firstPostPath, nil, StatusIn(deleteSuccessStatuses...))
	})

	t.Run("latency", func(t *apitest.T) {
		runCase(t, "DELETE", firstPostPath, nil, RespondsWithin(deleteLatencyBudget))
	})

	t.Run("body is empty object", func(t *apitest.T) {
		runCase(t, "DELETE", firstPostPath, nil, BodyIs(emptyObjectBody))
	})

	t.Run("Content-Type header", func(t *apitest.T) {
		runCase(t, "DELETE", firstPostPath, nil, HasHeader(contentTypeHeader))
	})
}
