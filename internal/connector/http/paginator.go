package http

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// =============================================================================
// SKIP PAGINATION
// =============================================================================

// DefaultPageSize is the platform page size for $skip pagination.
const DefaultPageSize = 50

// SkipPaginator pages through an endpoint with a zero-based $skip cursor.
// The platform exposes no total count; iteration ends when a page comes back
// empty or as HTTP 204. Restarting means a new cursor from zero, with no
// consistency guarantee if the remote dataset changed in between.
type SkipPaginator struct {
	Path     string
	PageSize int
	SkipKey  string // query param name (default: "$skip")

	// Query is merged into every page request.
	Query url.Values

	skip int
}

// NewSkipPaginator creates a paginator over path with the default page size.
func NewSkipPaginator(path string, pageSize int) *SkipPaginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &SkipPaginator{
		Path:     path,
		PageSize: pageSize,
		SkipKey:  "$skip",
	}
}

// NextRequest builds the request for the current cursor position.
func (p *SkipPaginator) NextRequest() *Request {
	query := url.Values{}
	for k, vs := range p.Query {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	query.Set(p.SkipKey, strconv.Itoa(p.skip))
	return &Request{
		Method: http.MethodGet,
		Path:   p.Path,
		Query:  query,
	}
}

// Advance moves the cursor to the next page.
func (p *SkipPaginator) Advance() {
	p.skip += p.PageSize
}

// Skip returns the current cursor position.
func (p *SkipPaginator) Skip() int {
	return p.skip
}

// =============================================================================
// FETCH ALL
// =============================================================================

// FetchAll pages through an endpoint and concatenates all records, preserving
// page order and record order within each page. The response envelope is
// {objectKey: [records]}; objectKey defaults to the last path segment.
func FetchAll(ctx context.Context, client *Client, path string, query url.Values, objectKey string) ([]map[string]any, error) {
	if objectKey == "" {
		parts := strings.Split(strings.Trim(path, "/"), "/")
		objectKey = parts[len(parts)-1]
	}

	paginator := NewSkipPaginator(path, DefaultPageSize)
	paginator.Query = query

	var all []map[string]any
	for {
		resp, err := client.Do(ctx, paginator.NextRequest())
		if err != nil {
			return nil, err
		}
		if resp.NoContent() {
			break
		}

		var envelope map[string][]map[string]any
		if err := resp.JSON(&envelope); err != nil {
			return nil, err
		}
		records := envelope[objectKey]
		if len(records) == 0 {
			break
		}

		all = append(all, records...)
		paginator.Advance()
	}

	return all, nil
}
