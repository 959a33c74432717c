package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/careerbuddy/careerbuddy/internal/repository"
	"github.com/careerbuddy/careerbuddy/internal/service"
	"github.com/careerbuddy/careerbuddy/internal/token"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.Join(t.TempDir(), "test.db"))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := repository.NewRepository(db)
	if err := repo.Migrate("sqlite3"); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	tokens := token.NewService("test-secret", time.Hour)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := service.NewService(repo, tokens, logger)
	return NewRouter(NewHandler(svc), tokens, repo)
}

// doJSON performs a request with an optional bearer token and JSON body
func doJSON(t *testing.T, api http.Handler, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	return rec
}

func register(t *testing.T, api http.Handler, email, password string) {
	t.Helper()
	rec := doJSON(t, api, "POST", "/auth/register", "", map[string]string{
		"email": email, "password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("register %s: got %d: %s", email, rec.Code, rec.Body.String())
	}
}

func login(t *testing.T, api http.Handler, email, password string) string {
	t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest("POST", "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	api.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: got %d: %s", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode token response: %v", err)
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("got token_type %q, want bearer", resp.TokenType)
	}
	return resp.AccessToken
}

func signup(t *testing.T, api http.Handler, email string) string {
	t.Helper()
	register(t, api, email, "correct-horse")
	return login(t, api, email, "correct-horse")
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return m
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec := doJSON(t, api, "GET", "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rec.Code)
	}
	if got := decodeMap(t, rec)["status"]; got != "ok" {
		t.Errorf("got status %v, want ok", got)
	}
}

func TestRegisterResponseOmitsPassword(t *testing.T) {
	api := newTestAPI(t)
	rec := doJSON(t, api, "POST", "/auth/register", "", map[string]string{
		"email": "alice@example.com", "password": "correct-horse",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeMap(t, rec)
	if body["email"] != "alice@example.com" {
		t.Errorf("got email %v", body["email"])
	}
	if strings.Contains(strings.ToLower(rec.Body.String()), "password") {
		t.Errorf("register response leaks password material: %s", rec.Body.String())
	}
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI(t)
	cases := []map[string]string{
		{"email": "not-an-email", "password": "correct-horse"},
		{"email": "alice@example.com", "password": "short"},
		{"password": "correct-horse"},
	}
	for _, body := range cases {
		if rec := doJSON(t, api, "POST", "/auth/register", "", body); rec.Code != http.StatusBadRequest {
			t.Errorf("register %v: got %d, want 400", body, rec.Code)
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	api := newTestAPI(t)
	register(t, api, "alice@example.com", "correct-horse")
	rec := doJSON(t, api, "POST", "/auth/register", "", map[string]string{
		"email": "alice@example.com", "password": "other-password",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("got %d, want 400", rec.Code)
	}
}

func TestLoginFailureBodiesMatch(t *testing.T) {
	api := newTestAPI(t)
	register(t, api, "alice@example.com", "correct-horse")

	attempt := func(email, password string) *httptest.ResponseRecorder {
		form := url.Values{"username": {email}, "password": {password}}
		req := httptest.NewRequest("POST", "/auth/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		api.ServeHTTP(rec, req)
		return rec
	}

	wrongPassword := attempt("alice@example.com", "wrong-password")
	unknownEmail := attempt("nobody@example.com", "wrong-password")

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("got %d and %d, want 401 for both", wrongPassword.Code, unknownEmail.Code)
	}
	// Identical bodies so the response cannot reveal whether the email exists
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Errorf("failure bodies differ: %q vs %q", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	api := newTestAPI(t)
	paths := []struct{ method, path string }{
		{"GET", "/jobs"},
		{"POST", "/jobs"},
		{"GET", "/applications"},
		{"POST", "/applications"},
		{"GET", "/redirect/1"},
	}
	for _, p := range paths {
		if rec := doJSON(t, api, p.method, p.path, "", nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: got %d, want 401", p.method, p.path, rec.Code)
		}
		if rec := doJSON(t, api, p.method, p.path, "garbage-token", nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s with bad token: got %d, want 401", p.method, p.path, rec.Code)
		}
	}
}

func TestTokenForDeletedAccountRejected(t *testing.T) {
	// A structurally valid token whose subject no longer matches any user
	// fails with the same 401 as a bad token
	api := newTestAPI(t)
	tokens := token.NewService("test-secret", time.Hour)
	signed, err := tokens.Issue("ghost@example.com")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if rec := doJSON(t, api, "GET", "/jobs", signed, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want 401", rec.Code)
	}
}

func TestJobCRUD(t *testing.T) {
	api := newTestAPI(t)
	bearer := signup(t, api, "alice@example.com")

	rec := doJSON(t, api, "POST", "/jobs", bearer, map[string]any{
		"title": "Go Developer", "company": "Acme", "location": "London",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create job: got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeMap(t, rec)
	jobID := int(created["id"].(float64))
	if created["priority"] != "MEDIUM" {
		t.Errorf("got default priority %v, want MEDIUM", created["priority"])
	}

	// Sparse update: only priority changes
	rec = doJSON(t, api, "PUT", fmt.Sprintf("/jobs/%d", jobID), bearer, map[string]any{
		"priority": "HIGH",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update job: got %d: %s", rec.Code, rec.Body.String())
	}
	updated := decodeMap(t, rec)
	if updated["priority"] != "HIGH" {
		t.Errorf("priority not updated: %v", updated["priority"])
	}
	if updated["title"] != "Go Developer" || updated["company"] != "Acme" || updated["location"] != "London" {
		t.Errorf("omitted fields changed: %v", updated)
	}

	// Unknown id
	if rec := doJSON(t, api, "PUT", "/jobs/9999", bearer, map[string]any{"priority": "LOW"}); rec.Code != http.StatusNotFound {
		t.Errorf("update unknown job: got %d, want 404", rec.Code)
	}

	rec = doJSON(t, api, "DELETE", fmt.Sprintf("/jobs/%d", jobID), bearer, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete job: got %d", rec.Code)
	}
	if ok := decodeMap(t, rec)["ok"]; ok != true {
		t.Errorf("got %v, want ok:true", ok)
	}
	if rec := doJSON(t, api, "DELETE", fmt.Sprintf("/jobs/%d", jobID), bearer, nil); rec.Code != http.StatusNotFound {
		t.Errorf("delete twice: got %d, want 404", rec.Code)
	}
}

func TestJobValidation(t *testing.T) {
	api := newTestAPI(t)
	bearer := signup(t, api, "alice@example.com")

	// Missing required company
	if rec := doJSON(t, api, "POST", "/jobs", bearer, map[string]any{"title": "Engineer"}); rec.Code != http.StatusBadRequest {
		t.Errorf("missing company: got %d, want 400", rec.Code)
	}
	// Unknown priority values are rejected, not coerced
	if rec := doJSON(t, api, "POST", "/jobs", bearer, map[string]any{
		"title": "Engineer", "company": "Acme", "priority": "URGENT",
	}); rec.Code != http.StatusBadRequest {
		t.Errorf("bad priority: got %d, want 400", rec.Code)
	}
}

func TestListJobsQueryParams(t *testing.T) {
	api := newTestAPI(t)
	bearer := signup(t, api, "alice@example.com")

	for _, job := range []map[string]any{
		{"title": "Go Developer", "company": "Acme", "category": "Backend"},
		{"title": "React Developer", "company": "Acme", "category": "Frontend"},
	} {
		if rec := doJSON(t, api, "POST", "/jobs", bearer, job); rec.Code != http.StatusOK {
			t.Fatalf("create job: got %d", rec.Code)
		}
	}

	rec := doJSON(t, api, "GET", "/jobs?category=Backend", bearer, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list jobs: got %d", rec.Code)
	}
	var jobs []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &jobs); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(jobs) != 1 || jobs[0]["category"] != "Backend" {
		t.Errorf("category filter over HTTP: got %v", jobs)
	}

	if rec := doJSON(t, api, "GET", "/jobs?limit=abc", bearer, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric limit: got %d, want 400", rec.Code)
	}
}

func TestApplicationOwnershipOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	alice := signup(t, api, "alice@example.com")
	bob := signup(t, api, "bob@example.com")

	rec := doJSON(t, api, "POST", "/jobs", alice, map[string]any{"title": "Engineer", "company": "Acme"})
	if rec.Code != http.StatusOK {
		t.Fatalf("create job: got %d", rec.Code)
	}
	jobID := int(decodeMap(t, rec)["id"].(float64))

	// user_id in the body is ignored; ownership comes from the token
	rec = doJSON(t, api, "POST", "/applications", alice, map[string]any{"job_id": jobID, "user_id": 9999})
	if rec.Code != http.StatusOK {
		t.Fatalf("create application: got %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeMap(t, rec)
	appID := int(created["id"].(float64))
	if created["status"] != "SAVED" {
		t.Errorf("got initial status %v, want SAVED", created["status"])
	}

	// Bob cannot see or touch Alice's application
	rec = doJSON(t, api, "GET", "/applications", bob, nil)
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("bob's list: got %s, want []", body)
	}
	if rec := doJSON(t, api, "PUT", fmt.Sprintf("/applications/%d", appID), bob, map[string]any{"status": "REJECTED"}); rec.Code != http.StatusNotFound {
		t.Errorf("bob update: got %d, want 404", rec.Code)
	}
	if rec := doJSON(t, api, "DELETE", fmt.Sprintf("/applications/%d", appID), bob, nil); rec.Code != http.StatusNotFound {
		t.Errorf("bob delete: got %d, want 404", rec.Code)
	}

	// Alice's calls succeed
	rec = doJSON(t, api, "PUT", fmt.Sprintf("/applications/%d", appID), alice, map[string]any{"status": "APPLIED"})
	if rec.Code != http.StatusOK {
		t.Fatalf("alice update: got %d", rec.Code)
	}
	if got := decodeMap(t, rec)["status"]; got != "APPLIED" {
		t.Errorf("got status %v, want APPLIED", got)
	}
	if rec := doJSON(t, api, "DELETE", fmt.Sprintf("/applications/%d", appID), alice, nil); rec.Code != http.StatusOK {
		t.Errorf("alice delete: got %d", rec.Code)
	}
}

func TestRedirect(t *testing.T) {
	api := newTestAPI(t)
	bearer := signup(t, api, "alice@example.com")

	rec := doJSON(t, api, "POST", "/jobs", bearer, map[string]any{
		"title": "Engineer", "company": "Acme", "url": "https://jobs.example.com/123",
	})
	withURL := int(decodeMap(t, rec)["id"].(float64))
	rec = doJSON(t, api, "POST", "/jobs", bearer, map[string]any{
		"title": "Analyst", "company": "Beta",
	})
	withoutURL := int(decodeMap(t, rec)["id"].(float64))

	rec = doJSON(t, api, "GET", fmt.Sprintf("/redirect/%d", withURL), bearer, nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("got %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "https://jobs.example.com/123" {
		t.Errorf("got Location %q", loc)
	}

	if rec := doJSON(t, api, "GET", fmt.Sprintf("/redirect/%d", withoutURL), bearer, nil); rec.Code != http.StatusNotFound {
		t.Errorf("job without url: got %d, want 404", rec.Code)
	}
	if rec := doJSON(t, api, "GET", "/redirect/9999", bearer, nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown job: got %d, want 404", rec.Code)
	}
}

func TestRedirectSurfacesStorageErrors(t *testing.T) {
	// A broken store behind the redirect must read as a server failure,
	// not as a missing job
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.Join(t.TempDir(), "test.db"))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := repository.NewRepository(db)
	if err := repo.Migrate("sqlite3"); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	tokens := token.NewService("test-secret", time.Hour)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := service.NewService(repo, tokens, logger)
	api := NewRouter(NewHandler(svc), tokens, repo)

	bearer := signup(t, api, "alice@example.com")

	// Knock out the jobs table; authentication still works against users
	if _, err := db.Exec("DROP TABLE jobs"); err != nil {
		t.Fatalf("failed to drop jobs table: %v", err)
	}

	rec := doJSON(t, api, "GET", "/redirect/1", bearer, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("got %d, want 500 for a storage failure", rec.Code)
	}
}
