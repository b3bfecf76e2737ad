package poststests

import (
	"fmt"
	"os"

	"github.com/restcheck/posts-contract-tests/framework/apitest"
	"github.com/restcheck/posts-contract-tests/framework/harness"
	"github.com/restcheck/posts-contract-tests/resultlog"
)

// RunPostsTestSuite runs every case against target, appending one record per executed case
// to sink. dataPath is the fixture file; it is read again by each case that needs it.
func RunPostsTestSuite(
	target *harness.Target,
	sink resultlog.Sink,
	dataPath string,
	filter apitest.Filter,
	testLogger apitest.TestLogger,
) apitest.Results {
	fmt.Printf("Running posts test suite against %s\n\n", target.BaseURL())
	if sdf, ok := filter.(apitest.SelfDescribingFilter); ok {
		sdf.Describe(os.Stdout)
	}

	config := apitest.TestConfiguration{
		Filter:     filter,
		TestLogger: testLogger,
		Context: PostsTestContext{
			target:   target,
			sink:     sink,
			dataPath: dataPath,
		},
	}

	return apitest.Run(config, func(t *apitest.T) {
		t.Run("POST", doPostTests)
		t.Run("GET", doGetTests)
		t.Run("PUT", doPutTests)
		t.Run("DELETE", doDeleteTests)
	})
}
