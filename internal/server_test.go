package internal

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestServer(t *testing.T, provider Provider) (*Server, *ContentCache) {
	t.Helper()
	logger := log.New(io.Discard)

	cache, err := NewContentCache(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	pipeline := NewPackService(cache, &fakeResolver{revision: "rev1"}, &fakeFetcher{head: "rev1"},
		&fakePacker{content: []byte("packed")}, t.TempDir(), logger)
	chat := NewChatService(provider, pipeline, cache, logger)

	return NewServer(chat, pipeline, cache, logger), cache
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpointMissingMessage(t *testing.T) {
	srv, _ := newTestServer(t, &scriptedProvider{})
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/chat", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["error"] == "" {
		t.Error("error envelope missing")
	}
}

func TestChatEndpoint(t *testing.T) {
	provider := &scriptedProvider{responses: []*ChatResponse{
		{Text: "hi there", Usage: Usage{TotalTokens: 9}},
	}}
	srv, _ := newTestServer(t, provider)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/chat", `{"message":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Response != "hi there" {
		t.Errorf("response = %q", resp.Response)
	}
	if resp.Usage.TotalTokens != 9 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestChatEndpointNoProvider(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/chat", `{"message":"hello"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestPackEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/repo/pack", `{"repoUrl":"octocat/hello-world"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	var out PackOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.FromCache {
		t.Error("first pack reported fromCache=true")
	}
	if out.CacheKey == "" {
		t.Error("cache key missing")
	}
}

func TestPackEndpointValidation(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/repo/pack", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, srv.Handler(), http.MethodPost, "/repo/pack", `{"repoUrl":"https://gitlab.com/a/b"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unsupported source status = %d, want 400", rec.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv, cache := newTestServer(t, nil)

	key := NewCacheKey(SourceLocation{Owner: "a", Repo: "b"}, "rev")
	if _, err := cache.Write(key, []byte("content"), EntryMetadata{Revision: "rev"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec := doJSON(t, srv.Handler(), http.MethodGet, "/repo/status/"+key.String(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}

	missing := NewCacheKey(SourceLocation{Owner: "a", Repo: "b"}, "other")
	rec = doJSON(t, srv.Handler(), http.MethodGet, "/repo/status/"+missing.String(), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing entry status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, srv.Handler(), http.MethodGet, "/repo/status/not-a-key", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed key status = %d, want 400", rec.Code)
	}
}

func TestDeleteEndpointIdempotent(t *testing.T) {
	srv, cache := newTestServer(t, nil)

	key := NewCacheKey(SourceLocation{Owner: "a", Repo: "b"}, "rev")
	if _, err := cache.Write(key, []byte("content"), EntryMetadata{}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for i := 0; i < 2; i++ {
		rec := doJSON(t, srv.Handler(), http.MethodDelete, "/repo/cache/"+key.String(), "")
		if rec.Code != http.StatusOK {
			t.Errorf("delete #%d status = %d, want 200", i+1, rec.Code)
		}
	}

	if cache.Exists(key) {
		t.Error("entry still exists")
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}
