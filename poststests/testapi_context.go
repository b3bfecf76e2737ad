package poststests

import (
	"github.com/restcheck/posts-contract-tests/data"
	"github.com/restcheck/posts-contract-tests/framework/apitest"
	"github.com/restcheck/posts-contract-tests/framework/harness"
	"github.com/restcheck/posts-contract-tests/resultlog"
)

// PostsTestContext is the global state shared by all cases in a run.
type PostsTestContext struct {
	target   *harness.Target
	sink     resultlog.Sink
	dataPath string
}

func requireContext(t *apitest.T) PostsTestContext {
	if c, ok := t.Context().(PostsTestContext); ok {
		return c
	}
	panic("PostsTestContext was not included in the global test configuration!" +
		" This is a basic mistake in the initialization logic.")
}

// record appends a row to the run-log. If that fails the run cannot produce a trustworthy
// log, so the whole run is aborted.
func (c PostsTestContext) record(t *apitest.T, r resultlog.Record) {
	if err := c.sink.Append(r); err != nil {
		t.Abort(err)
	}
}

// loadPosts reads the fixture file, failing the test if it cannot.
func (c PostsTestContext) loadPosts(t *apitest.T) data.Posts {
	posts, err := data.LoadPosts(c.dataPath)
	if err != nil {
		t.Errorf("%s", err)
		t.FailNow()
	}
	return posts
}

// loadPost reads the fixture file and returns the post at index i, failing the test if
// there is none.
func (c PostsTestContext) loadPost(t *apitest.T, i int) data.Post {
	p, err := c.loadPosts(t).At(c.dataPath, i)
	if err != nil {
		t.Errorf("%s", err)
		t.FailNow()
	}
	return p
}
