package poststests

import "time"

const (
	postsPath     = "/posts"
	firstPostPath = "/posts/1"

	postLatencyBudget   = 300 * time.Millisecond
	getLatencyBudget    = 200 * time.Millisecond
	putLatencyBudget    = 200 * time.Millisecond
	deleteLatencyBudget = 300 * time.Millisecond

	contentTypeHeader = "Content-Type"
	emptyObjectBody   = "{}"
)

//nolint:gochecknoglobals
var (
	postSuccessStatuses   = []int{200, 201}
	putSuccessStatuses    = []int{200, 201, 204}
	deleteSuccessStatuses = []int{200, 202, 204}

	// The PUT echo cases always use the first three fixtures, whatever the file contains.
	putEchoFixtureIndices = []int{0, 1, 2}
)
