// Package mockapi is an in-process posts service that behaves like the public JSONPlaceholder
// API: reads return generated posts, writes echo the request with an id and change nothing.
package mockapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/restcheck/posts-contract-tests/framework"
	"github.com/restcheck/posts-contract-tests/framework/helpers"

	"github.com/gorilla/mux"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/launchdarkly/go-test-helpers/v2/jsonhelpers"
)

const (
	// DefaultPostCount matches the size of the public service's collection.
	DefaultPostCount = 100

	contentTypeJSON   = "application/json; charset=utf-8"
	postsPerUser      = 10
	defaultDeleteBody = "{}"
)

// PostsService is an http.Handler for the /posts resource.
type PostsService struct {
	count       int
	delay       time.Duration
	deleteBody  string
	requests    int
	handler     http.Handler
	debugLogger framework.Logger
	lock        sync.RWMutex
}

// ServiceOption configures a PostsService at creation time.
type ServiceOption helpers.ConfigOption[PostsService]

type serviceOptionFunc func(*PostsService) error

func (f serviceOptionFunc) Configure(s *PostsService) error { return f(s) }

// WithDelay makes every response wait for d before being written.
func WithDelay(d time.Duration) ServiceOption {
	return serviceOptionFunc(func(s *PostsService) error {
		if d < 0 {
			return errors.New("delay cannot be negative")
		}
		s.delay = d
		return nil
	})
}

// WithDeleteBody replaces the "{}" body of DELETE responses, to simulate a misbehaving server.
func WithDeleteBody(body string) ServiceOption {
	return serviceOptionFunc(func(s *PostsService) error {
		s.deleteBody = body
		return nil
	})
}

// Post is the representation returned by the service.
type Post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

func NewPostsService(count int, debugLogger framework.Logger, options ...ServiceOption) (*PostsService, error) {
	if count < 0 {
		return nil, fmt.Errorf("post count cannot be negative: %d", count)
	}
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	s := &PostsService{
		count:       count,
		deleteBody:  defaultDeleteBody,
		debugLogger: debugLogger,
	}
	if err := helpers.ApplyOptions(s, options...); err != nil {
		return nil, err
	}

	router := mux.NewRouter()
	router.Use(s.countAndDelay)
	router.HandleFunc("/posts", s.listPosts).Methods("GET")
	router.HandleFunc("/posts", s.createPost).Methods("POST")
	router.HandleFunc("/posts/{id}", s.getPost).Methods("GET")
	router.HandleFunc("/posts/{id}", s.updatePost).Methods("PUT", "PATCH")
	router.HandleFunc("/posts/{id}", s.deletePost).Methods("DELETE")
	router.HandleFunc("/", s.serveRoot).Methods("GET")
	router.NotFoundHandler = http.HandlerFunc(s.notFound)
	s.handler = router

	return s, nil
}

func (s *PostsService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Requests returns how many requests have been routed to a handler.
func (s *PostsService) Requests() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.requests
}

func (s *PostsService) SetDelay(d time.Duration) {
	s.lock.Lock()
	s.delay = d
	s.lock.Unlock()
}

func (s *PostsService) SetDeleteBody(body string) {
	s.lock.Lock()
	s.deleteBody = body
	s.lock.Unlock()
}

func (s *PostsService) countAndDelay(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lock.Lock()
		s.requests++
		delay := s.delay
		s.lock.Unlock()
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *PostsService) makePost(id int) Post {
	return Post{
		UserID: (id-1)/postsPerUser + 1,
		ID:     id,
		Title:  fmt.Sprintf("post %d", id),
		Body:   fmt.Sprintf("body of post %d", id),
	}
}

func (s *PostsService) serveRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"resources": "/posts"})
}

func (s *PostsService) listPosts(w http.ResponseWriter, r *http.Request) {
	posts := make([]Post, 0, s.count)
	for id := 1; id <= s.count; id++ {
		posts = append(posts, s.makePost(id))
	}
	s.writeJSON(w, r, http.StatusOK, posts)
}

func (s *PostsService) getPost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.postID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	s.writeJSON(w, r, http.StatusOK, s.makePost(id))
}

func (s *PostsService) createPost(w http.ResponseWriter, r *http.Request) {
	fields, err := s.readObject(r)
	if err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	fields["id"] = s.count + 1
	s.writeJSON(w, r, http.StatusCreated, fields)
}

func (s *PostsService) updatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.postID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	fields, err := s.readObject(r)
	if err != nil {
		s.writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	fields["id"] = id
	s.writeJSON(w, r, http.StatusOK, fields)
}

func (s *PostsService) deletePost(w http.ResponseWriter, r *http.Request) {
	s.lock.RLock()
	body := s.deleteBody
	s.lock.RUnlock()
	s.writeRaw(w, r, http.StatusOK, []byte(body))
}

func (s *PostsService) notFound(w http.ResponseWriter, r *http.Request) {
	s.writeRaw(w, r, http.StatusNotFound, []byte("{}"))
}

// postID returns the {id} path variable if it names an existing post.
func (s *PostsService) postID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 || id > s.count {
		return 0, false
	}
	return id, true
}

func (s *PostsService) readObject(r *http.Request) (map[string]interface{}, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]interface{})
	if len(data) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("request body is not a JSON object: %w", err)
	}
	s.debugLogger.Printf("%s %s received %s", r.Method, r.URL.Path,
		helpers.CanonicalizedJSONString(ldvalue.CopyArbitraryValue(fields)))
	return fields, nil
}

func (s *PostsService) writeJSON(w http.ResponseWriter, r *http.Request, status int, value interface{}) {
	s.writeRaw(w, r, status, jsonhelpers.ToJSON(value))
}

func (s *PostsService) writeRaw(w http.ResponseWriter, r *http.Request, status int, body []byte) {
	s.debugLogger.Printf("%s %s -> %d (%d bytes)", r.Method, r.URL.Path, status, len(body))
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
