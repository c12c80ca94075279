package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// stubTokens hands out sequential tokens and counts calls.
type stubTokens struct {
	authCalls    int
	refreshCalls int
}

func (s *stubTokens) Authenticate(ctx context.Context) (*Token, error) {
	s.authCalls++
	return &Token{AccessToken: "token-initial"}, nil
}

func (s *stubTokens) Refresh(ctx context.Context) (*Token, error) {
	s.refreshCalls++
	return &Token{AccessToken: "token-refreshed"}, nil
}

func newTestClient(baseURL string, tokens TokenSource) *Client {
	config := DefaultClientConfig()
	config.BaseURL = baseURL
	config.Tokens = tokens
	config.RateLimit = 10000
	config.RateBurst = 10000
	return NewClient(config)
}

func TestClient_RefreshOnceOn401(t *testing.T) {
	var calls int
	var lastAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		lastAuth = r.Header.Get("Authorization")
		if calls == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	tokens := &stubTokens{}
	client := newTestClient(server.URL, tokens)

	resp, err := client.Get(context.Background(), "/v1/resource", nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !resp.IsSuccess() {
		t.Fatalf("expected success, got HTTP %d", resp.StatusCode)
	}
	if tokens.refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", tokens.refreshCalls)
	}
	if calls != 2 {
		t.Errorf("server saw %d requests, want 2", calls)
	}
	if lastAuth != "Bearer token-refreshed" {
		t.Errorf("retry used %q, want refreshed token", lastAuth)
	}
}

func TestClient_SecondConsecutive401IsFatal(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	tokens := &stubTokens{}
	client := newTestClient(server.URL, tokens)

	_, err := client.Get(context.Background(), "/v1/resource", nil)
	if err == nil {
		t.Fatal("expected error after double 401")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if !apiErr.TokenRejected {
		t.Error("expected TokenRejected to be set")
	}
	if tokens.refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want exactly 1 (no loop)", tokens.refreshCalls)
	}
	if calls != 2 {
		t.Errorf("server saw %d requests, want 2", calls)
	}
}

func TestClient_Non401UsesErrorDecoder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorCode":"WCO-1234","message":"bad period"}`))
	}))
	defer server.Close()

	tokens := &stubTokens{}
	config := DefaultClientConfig()
	config.BaseURL = server.URL
	config.Tokens = tokens
	config.DecodeError = func(status int, body []byte) *APIError {
		return &APIError{StatusCode: status, Code: "WCO-1234", Message: "bad period"}
	}
	client := NewClient(config)

	_, err := client.Get(context.Background(), "/v1/resource", nil)
	if err == nil {
		t.Fatal("expected error on 400")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Code != "WCO-1234" {
		t.Errorf("code = %q, want decoder's code", apiErr.Code)
	}
	if tokens.refreshCalls != 0 {
		t.Errorf("refresh calls = %d, want 0 for non-401 failure", tokens.refreshCalls)
	}
}

func TestClient_PostReplaysBodyAfterRefresh(t *testing.T) {
	var bodies []string
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		bodies = append(bodies, string(buf))
		if calls == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &stubTokens{})

	_, err := client.Post(context.Background(), "/v1/resource", map[string]string{"key": "value"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if len(bodies) != 2 || bodies[0] != bodies[1] {
		t.Errorf("retry body differs from original: %q vs %q", bodies[0], bodies[1])
	}
}
