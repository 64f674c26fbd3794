// Package githubtest provides an in-process fake of the GitHub REST endpoints
// the PR formatter talks to.
package githubtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"

	gh "github.com/google/go-github/v66/github"
	"github.com/gorilla/mux"
)

// PullRequest is the server-side state of one pull request
type PullRequest struct {
	Number int
	Title  string
	Body   string
	Base   string
	Head   string
}

// Edit records a PATCH to a pull request
type Edit struct {
	Repo   string
	Number int
	Body   string
	Auth   string
}

// Server is a fake GitHub API backed by httptest
type Server struct {
	*httptest.Server

	// InstallationToken is returned by the App access token endpoint
	InstallationToken string
	// FailEdits makes every PATCH return 500
	FailEdits bool

	mu    sync.Mutex
	prs   map[string]*PullRequest
	edits []Edit
}

// NewServer starts a fake GitHub API server. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		InstallationToken: "ghs_fakeinstallationtoken",
		prs:               make(map[string]*PullRequest),
	}

	r := mux.NewRouter()
	r.HandleFunc("/repos/{owner}/{repo}/pulls/{number:[0-9]+}", s.getPR).Methods(http.MethodGet)
	r.HandleFunc("/repos/{owner}/{repo}/pulls/{number:[0-9]+}", s.editPR).Methods(http.MethodPatch)
	r.HandleFunc("/repos/{owner}/{repo}/installation", s.installation).Methods(http.MethodGet)
	r.HandleFunc("/app/installations/{id:[0-9]+}/access_tokens", s.accessToken).Methods(http.MethodPost)

	s.Server = httptest.NewServer(r)
	return s
}

// AddPR registers a pull request for repo ("owner/name")
func (s *Server) AddPR(repo string, pr PullRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prs[key(repo, pr.Number)] = &pr
}

// PR returns the current state of a pull request
func (s *Server) PR(repo string, number int) (PullRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pr, ok := s.prs[key(repo, number)]
	if !ok {
		return PullRequest{}, false
	}
	return *pr, true
}

// Edits returns every PATCH received so far
func (s *Server) Edits() []Edit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Edit(nil), s.edits...)
}

// GitHubClient returns a go-github client pointed at the server
func (s *Server) GitHubClient() *gh.Client {
	client := gh.NewClient(s.Server.Client())
	base, _ := url.Parse(s.URL + "/")
	client.BaseURL = base
	client.UploadURL = base
	return client
}

func key(repo string, number int) string {
	return fmt.Sprintf("%s#%d", repo, number)
}

func (s *Server) lookup(r *http.Request) (string, *PullRequest) {
	vars := mux.Vars(r)
	repo := vars["owner"] + "/" + vars["repo"]
	number, _ := strconv.Atoi(vars["number"])
	return repo, s.prs[key(repo, number)]
}

func (s *Server) getPR(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	repo, pr := s.lookup(r)
	s.mu.Unlock()
	if pr == nil {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toAPI(repo, pr))
}

func (s *Server) editPR(w http.ResponseWriter, r *http.Request) {
	if s.FailEdits {
		http.Error(w, `{"message":"Server Error"}`, http.StatusInternalServerError)
		return
	}

	var req struct {
		Body *string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	repo, pr := s.lookup(r)
	if pr == nil {
		s.mu.Unlock()
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
		return
	}
	if req.Body != nil {
		pr.Body = *req.Body
	}
	s.edits = append(s.edits, Edit{
		Repo:   repo,
		Number: pr.Number,
		Body:   pr.Body,
		Auth:   r.Header.Get("Authorization"),
	})
	resp := toAPI(repo, pr)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) installation(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int64{"id": 42})
}

func (s *Server) accessToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]any{
		"token":      s.InstallationToken,
		"expires_at": time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	})
}

func toAPI(repo string, pr *PullRequest) *gh.PullRequest {
	return &gh.PullRequest{
		Number:  gh.Int(pr.Number),
		Title:   gh.String(pr.Title),
		Body:    gh.String(pr.Body),
		HTMLURL: gh.String(fmt.Sprintf("https://github.com/%s/pull/%d", repo, pr.Number)),
		Base:    &gh.PullRequestBranch{Ref: gh.String(pr.Base)},
		Head:    &gh.PullRequestBranch{Ref: gh.String(pr.Head)},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
