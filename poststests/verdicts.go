package poststests

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/restcheck/posts-contract-tests/data"
	"github.com/restcheck/posts-contract-tests/framework/helpers"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"golang.org/x/exp/slices"
)

const maxDescribedBodyLength = 200

// ResponseInfo is the part of a response that verdicts look at.
type ResponseInfo interface {
	StatusCode() int
	Elapsed() time.Duration
	Header() http.Header
	Body() []byte
	JSON() ldvalue.Value
}

// Verdict is a named condition on a response. A case passes only if its Verdict holds.
type Verdict = helpers.Expectation[ResponseInfo]

func newVerdict(description string, fn func(ResponseInfo) bool) Verdict {
	return helpers.NewExpectation(description, describeResponse, fn)
}

func describeResponse(r ResponseInfo) string {
	body := string(r.Body())
	if len(body) > maxDescribedBodyLength {
		body = body[:maxDescribedBodyLength] + "..."
	}
	return fmt.Sprintf("status %d after %s, Content-Type %q, body %s",
		r.StatusCode(), r.Elapsed().Round(time.Millisecond), r.Header().Get(contentTypeHeader), body)
}

func StatusIs(status int) Verdict {
	return newVerdict(fmt.Sprintf("status is %d", status), func(r ResponseInfo) bool {
		return r.StatusCode() == status
	})
}

func StatusIn(statuses ...int) Verdict {
	return newVerdict(fmt.Sprintf("status is one of %v", statuses), func(r ResponseInfo) bool {
		return slices.Contains(statuses, r.StatusCode())
	})
}

// RespondsWithin holds if the response arrived in strictly less than budget.
func RespondsWithin(budget time.Duration) Verdict {
	return newVerdict(fmt.Sprintf("response time is under %s", budget), func(r ResponseInfo) bool {
		return r.Elapsed() < budget
	})
}

// HasHeader holds if the header is present, even with an empty value.
func HasHeader(name string) Verdict {
	return newVerdict(fmt.Sprintf("%s header is present", name), func(r ResponseInfo) bool {
		return len(r.Header().Values(name)) > 0
	})
}

func BodyIsArray() Verdict {
	return newVerdict("body is a JSON array", func(r ResponseInfo) bool {
		return r.JSON().Type() == ldvalue.ArrayType
	})
}

func BodyIsNonEmptyArray() Verdict {
	return newVerdict("body is a non-empty JSON array", func(r ResponseInfo) bool {
		v := r.JSON()
		return v.Type() == ldvalue.ArrayType && v.Count() > 0
	})
}

// BodyIs compares the raw body text, so `{ }` does not match `{}`.
func BodyIs(text string) Verdict {
	return newVerdict(fmt.Sprintf("body is exactly %s", text), func(r ResponseInfo) bool {
		return string(r.Body()) == text
	})
}

// EchoesPost holds if the body is a JSON object whose title, body and userId equal the post's.
func EchoesPost(p data.Post) Verdict {
	expected := map[string]ldvalue.Value{
		"title":  ldvalue.String(p.Title),
		"body":   ldvalue.String(p.Body),
		"userId": ldvalue.Int(p.UserID),
	}
	return helpers.NewExpectation(
		fmt.Sprintf("response echoes %s", helpers.AsJSONString(p)),
		func(r ResponseInfo) string {
			if diffs := mismatchedFields(p, r); diffs != "" {
				return diffs + "; " + describeResponse(r)
			}
			return describeResponse(r)
		},
		func(r ResponseInfo) bool {
			v := r.JSON()
			if v.Type() != ldvalue.ObjectType {
				return false
			}
			for key, want := range expected {
				if !v.GetByKey(key).Equal(want) {
					return false
				}
			}
			return true
		})
}

// mismatchedFields lists the echoed fields that differ, for the failure message.
func mismatchedFields(p data.Post, r ResponseInfo) string {
	v := r.JSON()
	var diffs []string
	check := func(key string, want ldvalue.Value) {
		if got := v.GetByKey(key); !got.Equal(want) {
			diffs = append(diffs, fmt.Sprintf("%s: expected %s, got %s", key, want.JSONString(), got.JSONString()))
		}
	}
	check("title", ldvalue.String(p.Title))
	check("body", ldvalue.String(p.Body))
	check("userId", ldvalue.Int(p.UserID))
	return strings.Join(diffs, "; ")
}
