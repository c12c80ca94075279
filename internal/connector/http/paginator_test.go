package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// pageServer serves pages of the given sizes keyed by $skip, then 204.
func pageServer(t *testing.T, objectKey string, pageSizes []int) (*httptest.Server, *[]int) {
	t.Helper()
	skips := &[]int{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		skip, err := strconv.Atoi(r.URL.Query().Get("$skip"))
		if err != nil {
			t.Errorf("missing $skip param: %v", err)
		}
		*skips = append(*skips, skip)

		page := skip / DefaultPageSize
		if page >= len(pageSizes) || pageSizes[page] == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		records := make([]map[string]any, pageSizes[page])
		for i := range records {
			records[i] = map[string]any{"id": fmt.Sprintf("rec-%d", skip+i)}
		}
		json.NewEncoder(w).Encode(map[string]any{objectKey: records})
	}))
	return server, skips
}

func TestFetchAll_TerminatesOnNoContent(t *testing.T) {
	server, skips := pageServer(t, "workers", []int{50, 50, 13, 0})
	defer server.Close()

	client := newTestClient(server.URL, &stubTokens{})

	records, err := FetchAll(context.Background(), client, "/hr/v2/workers", nil, "")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(records) != 113 {
		t.Errorf("records = %d, want 113", len(records))
	}

	wantSkips := []int{0, 50, 100, 150}
	if len(*skips) != len(wantSkips) {
		t.Fatalf("page requests = %d, want %d", len(*skips), len(wantSkips))
	}
	for i, want := range wantSkips {
		if (*skips)[i] != want {
			t.Errorf("request %d skip = %d, want %d", i, (*skips)[i], want)
		}
	}

	// Order preserved across pages.
	if records[0]["id"] != "rec-0" || records[112]["id"] != "rec-112" {
		t.Errorf("record order not preserved: first=%v last=%v", records[0]["id"], records[112]["id"])
	}
}

func TestFetchAll_TerminatesOnEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		skip, _ := strconv.Atoi(r.URL.Query().Get("$skip"))
		if skip == 0 {
			json.NewEncoder(w).Encode(map[string]any{"workers": []map[string]any{{"id": "a"}}})
			return
		}
		// Present key, empty array.
		json.NewEncoder(w).Encode(map[string]any{"workers": []map[string]any{}})
	}))
	defer server.Close()

	client := newTestClient(server.URL, &stubTokens{})

	records, err := FetchAll(context.Background(), client, "/hr/v2/workers", nil, "workers")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want 1", len(records))
	}
}

func TestFetchAll_ObjectKeyDefaultsToLastSegment(t *testing.T) {
	server, _ := pageServer(t, "workers", []int{2, 0})
	defer server.Close()

	client := newTestClient(server.URL, &stubTokens{})

	records, err := FetchAll(context.Background(), client, "/hr/v2/workers", nil, "")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("records = %d, want 2 via default object key", len(records))
	}
}
