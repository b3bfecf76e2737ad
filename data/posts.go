package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Post is one request payload for the posts resource.
type Post struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int    `json:"userId"`
}

// Posts is the ordered content of a fixture file.
type Posts []Post

// FixtureError means the fixture file could not supply the data a test needed.
type FixtureError struct {
	Path string
	Err  error
}

func (e *FixtureError) Error() string {
	return fmt.Sprintf("fixture error in %q: %s", e.Path, e.Err)
}

func (e *FixtureError) Unwrap() error { return e.Err }

// LoadPosts reads a fixture file containing either a single post object or an array of them.
// Files named *.yaml or *.yml may be YAML; anything else must be JSON. Every post must have
// title, body and userId. A single object is returned as a one-element slice. The file is read
// on every call.
func LoadPosts(path string) (Posts, error) {
	raw, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, &FixtureError{Path: path, Err: err}
	}
	posts, err := parsePosts(raw, isYAMLFile(path))
	if err != nil {
		return nil, &FixtureError{Path: path, Err: err}
	}
	return posts, nil
}

func isYAMLFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// postFields distinguishes a missing or null field from a zero value.
type postFields struct {
	Title  *string `json:"title"`
	Body   *string `json:"body"`
	UserID *int    `json:"userId"`
}

func parsePosts(raw []byte, allowYAML bool) (Posts, error) {
	var doc interface{}
	if allowYAML {
		if err := ParseJSONOrYAML(raw, &doc); err != nil {
			return nil, fmt.Errorf("not valid JSON or YAML: %w", err)
		}
	} else if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("not valid JSON: %w", err)
	}
	switch doc := doc.(type) {
	case map[string]interface{}:
		p, err := parsePost(doc)
		if err != nil {
			return nil, fmt.Errorf("malformed post: %w", err)
		}
		return Posts{p}, nil
	case []interface{}:
		posts := make(Posts, 0, len(doc))
		for i, item := range doc {
			fields, ok := item.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("malformed post at index %d: must be an object, not %s", i, describeJSONType(item))
			}
			p, err := parsePost(fields)
			if err != nil {
				return nil, fmt.Errorf("malformed post at index %d: %w", i, err)
			}
			posts = append(posts, p)
		}
		return posts, nil
	default:
		return nil, fmt.Errorf("document must be an object or an array of objects, not %s", describeJSONType(doc))
	}
}

func parsePost(fields map[string]interface{}) (Post, error) {
	// re-encode the generic form so YAML input is decoded by the same JSON rules
	normalized, err := json.Marshal(fields)
	if err != nil {
		return Post{}, err
	}
	var pf postFields
	if err := json.Unmarshal(normalized, &pf); err != nil {
		return Post{}, err
	}
	var missing []string
	if pf.Title == nil {
		missing = append(missing, "title")
	}
	if pf.Body == nil {
		missing = append(missing, "body")
	}
	if pf.UserID == nil {
		missing = append(missing, "userId")
	}
	if len(missing) != 0 {
		return Post{}, fmt.Errorf("missing or null field(s): %s", strings.Join(missing, ", "))
	}
	return Post{Title: *pf.Title, Body: *pf.Body, UserID: *pf.UserID}, nil
}

func describeJSONType(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	default:
		return "a number"
	}
}

// At returns the post at index i, or a FixtureError naming the file if there is no such post.
func (p Posts) At(path string, i int) (Post, error) {
	if i < 0 || i >= len(p) {
		return Post{}, &FixtureError{Path: path, Err: fmt.Errorf("no post at index %d (file has %d)", i, len(p))}
	}
	return p[i], nil
}
