package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"portfolio/internal/app"
	"portfolio/internal/ratelimit"
	"portfolio/pkg/domain"
	"portfolio/pkg/store"
)

type apiResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Count   int               `json:"count"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type testOptions struct {
	contactLimit int
	voteLimit    int
}

func newTestServer(t *testing.T, mem *store.MemoryStore, opts testOptions) *httptest.Server {
	t.Helper()
	if opts.contactLimit <= 0 {
		opts.contactLimit = 5
	}
	if opts.voteLimit <= 0 {
		opts.voteLimit = 10
	}
	appCore, err := app.New(app.Config{Store: mem})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	srv, err := New(Config{
		App:              appCore,
		ContactLimiter:   ratelimit.NewMemoryFixedWindowLimiter(opts.contactLimit, 15*time.Minute),
		SubscribeLimiter: ratelimit.NewMemoryFixedWindowLimiter(10, time.Hour),
		VoteLimiter:      ratelimit.NewMemoryFixedWindowLimiter(opts.voteLimit, 24*time.Hour),
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body string) (*http.Response, apiResponse) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, parsed
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, store.NewMemoryStore(), testOptions{})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}
}

func TestContactSubmitRoundTrip(t *testing.T) {
	mem := store.NewMemoryStore()
	ts := newTestServer(t, mem, testOptions{})

	body := `{"name":"Jane Doe","email":"jane@acme.io","subject":"Project inquiry","message":"I would like to discuss a contract role."}`
	resp, parsed := postJSON(t, ts.URL+"/api/contact", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("contact status = %d", resp.StatusCode)
	}
	if !parsed.Success {
		t.Fatalf("expected success, got %+v", parsed)
	}
	var saved domain.ContactMessage
	if err := json.Unmarshal(parsed.Data, &saved); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if saved.ID == 0 || saved.CreatedAt.IsZero() {
		t.Fatalf("expected server-assigned id and timestamp, got %+v", saved)
	}

	listResp, err := http.Get(ts.URL + "/api/contact-messages")
	if err != nil {
		t.Fatalf("get contact messages: %v", err)
	}
	defer listResp.Body.Close()
	var listed []domain.ContactMessage
	if err := json.NewDecoder(listResp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("listing length = %d, want 1", len(listed))
	}
	got := listed[0]
	if got.Name != "Jane Doe" || got.Email != "jane@acme.io" ||
		got.Subject != "Project inquiry" || got.Message != saved.Message {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestContactRejectsSpamAndBadFields(t *testing.T) {
	mem := store.NewMemoryStore()
	ts := newTestServer(t, mem, testOptions{})

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "link in message",
			body:  `{"name":"Al","email":"a@b.co","subject":"Hi there","message":"check http://x.com please"}`,
			field: "message",
		},
		{
			name:  "short name",
			body:  `{"name":"J","email":"jane@acme.io","subject":"Hi there","message":"a perfectly fine message body"}`,
			field: "name",
		},
		{
			name:  "disposable email",
			body:  `{"name":"Jane","email":"jane@example.com","subject":"Hi there","message":"a perfectly fine message body"}`,
			field: "email",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, parsed := postJSON(t, ts.URL+"/api/contact", tc.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			if parsed.Success {
				t.Fatal("expected success=false")
			}
			if _, ok := parsed.Errors[tc.field]; !ok {
				t.Fatalf("expected %q violation, got %v", tc.field, parsed.Errors)
			}
		})
	}

	msgs, _ := mem.ListContactMessages()
	if len(msgs) != 0 {
		t.Fatalf("rejected submissions must not be persisted, got %d", len(msgs))
	}
}

func TestContactRateLimitSixthRejected(t *testing.T) {
	mem := store.NewMemoryStore()
	ts := newTestServer(t, mem, testOptions{contactLimit: 5})

	for i := 1; i <= 5; i++ {
		body := fmt.Sprintf(`{"name":"Jane Doe","email":"jane@acme.io","subject":"Message %d","message":"a perfectly valid message body number %d"}`, i, i)
		resp, _ := postJSON(t, ts.URL+"/api/contact", body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("submission %d status = %d, want 200", i, resp.StatusCode)
		}
	}

	body := `{"name":"Jane Doe","email":"jane@acme.io","subject":"Message 6","message":"a perfectly valid message body number 6"}`
	resp, parsed := postJSON(t, ts.URL+"/api/contact", body)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("sixth submission status = %d, want 429", resp.StatusCode)
	}
	if parsed.Success {
		t.Fatal("expected success=false on rate limit")
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}

	msgs, _ := mem.ListContactMessages()
	if len(msgs) != 5 {
		t.Fatalf("stored messages = %d, want 5", len(msgs))
	}
}

func TestSubscribeIdempotent(t *testing.T) {
	mem := store.NewMemoryStore()
	ts := newTestServer(t, mem, testOptions{})

	resp, parsed := postJSON(t, ts.URL+"/api/subscribe", `{"email":"reader@acme.io"}`)
	if resp.StatusCode != http.StatusOK || !parsed.Success {
		t.Fatalf("first subscribe: status=%d parsed=%+v", resp.StatusCode, parsed)
	}
	firstMsg := parsed.Message

	resp, parsed = postJSON(t, ts.URL+"/api/subscribe", `{"email":"Reader@Acme.IO"}`)
	if resp.StatusCode != http.StatusOK || !parsed.Success {
		t.Fatalf("repeat subscribe must be a success: status=%d parsed=%+v", resp.StatusCode, parsed)
	}
	if parsed.Message == firstMsg {
		t.Fatal("repeat subscribe should use the already-subscribed message")
	}

	subs, _ := mem.ListSubscribers()
	if len(subs) != 1 {
		t.Fatalf("subscriber rows = %d, want 1", len(subs))
	}
	if subs[0].IsConfirmed {
		t.Fatal("subscribers start unconfirmed")
	}
}

func TestSubscribeRejectsBadEmail(t *testing.T) {
	ts := newTestServer(t, store.NewMemoryStore(), testOptions{})

	resp, parsed := postJSON(t, ts.URL+"/api/subscribe", `{"email":"nope"}`)
	if resp.StatusCode != http.StatusBadRequest || parsed.Success {
		t.Fatalf("bad email: status=%d parsed=%+v", resp.StatusCode, parsed)
	}

	resp, _ = postJSON(t, ts.URL+"/api/subscribe", `{"email":"x@tempmail.com"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("disposable email status = %d, want 400", resp.StatusCode)
	}
}

func TestFireCounterReadAndVote(t *testing.T) {
	mem := store.NewMemoryStore()
	ts := newTestServer(t, mem, testOptions{voteLimit: 10})

	resp, err := http.Get(ts.URL + "/api/fire-counter")
	if err != nil {
		t.Fatalf("get counter: %v", err)
	}
	var counter map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&counter); err != nil {
		t.Fatalf("decode counter: %v", err)
	}
	resp.Body.Close()
	if counter["count"] != 0 {
		t.Fatalf("fresh counter = %d, want 0", counter["count"])
	}

	resp2, parsed := postJSON(t, ts.URL+"/api/fire-counter", "")
	if resp2.StatusCode != http.StatusOK || !parsed.Success {
		t.Fatalf("first vote: status=%d parsed=%+v", resp2.StatusCode, parsed)
	}
	if parsed.Count != 1 {
		t.Fatalf("first vote count = %d, want 1", parsed.Count)
	}

	// The vote limiter still has headroom, so the dedup check is what
	// rejects the second same-day vote.
	resp3, parsed := postJSON(t, ts.URL+"/api/fire-counter", "")
	if resp3.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("duplicate vote status = %d, want 429", resp3.StatusCode)
	}
	if parsed.Message != app.ErrAlreadyVotedToday.Error() {
		t.Fatalf("duplicate vote message = %q", parsed.Message)
	}

	resp4, err := http.Get(ts.URL + "/api/fire-counter")
	if err != nil {
		t.Fatalf("get counter: %v", err)
	}
	if err := json.NewDecoder(resp4.Body).Decode(&counter); err != nil {
		t.Fatalf("decode counter: %v", err)
	}
	resp4.Body.Close()
	if counter["count"] != 1 {
		t.Fatalf("counter after duplicate vote = %d, want 1", counter["count"])
	}
}

func TestVoteQuotaRejectsBeforeDedup(t *testing.T) {
	ts := newTestServer(t, store.NewMemoryStore(), testOptions{voteLimit: 1})

	resp, _ := postJSON(t, ts.URL+"/api/fire-counter", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first vote status = %d", resp.StatusCode)
	}
	resp, parsed := postJSON(t, ts.URL+"/api/fire-counter", "")
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("second vote status = %d, want 429", resp.StatusCode)
	}
	if parsed.Message == app.ErrAlreadyVotedToday.Error() {
		t.Fatal("quota rejection should carry the rate-limit message, not the dedup one")
	}
}

func TestContentListings(t *testing.T) {
	mem := store.NewMemoryStore()
	if _, err := mem.SaveProject(domain.Project{
		Title: "Portfolio", Description: "This site", ImageURL: "/img.png",
		GithubURL: "https://github.com/x/portfolio", ProjectURL: "https://x.dev",
		Tags: []string{"go", "react"},
	}); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	if _, err := mem.SaveSkill(domain.Skill{Name: "Go", Percentage: 90}); err != nil {
		t.Fatalf("seed skill: %v", err)
	}
	if _, err := mem.SaveTechStackItem(domain.TechStackItem{Name: "Postgres", Icon: "pg", Color: "#336791"}); err != nil {
		t.Fatalf("seed tech stack: %v", err)
	}
	if _, err := mem.SaveExperience(domain.Experience{
		Title: "Engineer", Company: "Acme", Period: "2023 - now",
		Description: "Backend work", Bullets: []string{"Built APIs"}, Tags: []string{"go"},
	}); err != nil {
		t.Fatalf("seed experience: %v", err)
	}
	ts := newTestServer(t, mem, testOptions{})

	paths := map[string]int{
		"/api/projects":   1,
		"/api/skills":     1,
		"/api/tech-stack": 1,
		"/api/experience": 1,
	}
	for path, want := range paths {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		var items []json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		resp.Body.Close()
		if len(items) != want {
			t.Fatalf("%s length = %d, want %d", path, len(items), want)
		}
	}
}

func TestMutatingEndpointsRejectGet(t *testing.T) {
	ts := newTestServer(t, store.NewMemoryStore(), testOptions{})
	for _, path := range []string{"/api/contact", "/api/subscribe"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Fatalf("%s GET status = %d, want 405", path, resp.StatusCode)
		}
	}
}
