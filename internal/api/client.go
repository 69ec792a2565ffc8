// Package api talks to the remote time-tracking service.
package api

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/alexanderramin/vartui/internal/config"
	"github.com/alexanderramin/vartui/internal/domain"
)

// DefaultTimeout bounds every request made by the HTTP client.
const DefaultTimeout = 15 * time.Second

// CreateEntryRequest is the body of POST /time-entries.
type CreateEntryRequest struct {
	Date        string `json:"date"`
	ProjectID   int    `json:"project_id"`
	Description string `json:"description"`
	Minutes     int    `json:"minutes"`
	IsBillable  bool   `json:"is_billable"`
	TagIDs      []int  `json:"tag_ids"`
}

// Client is the remote API as consumed by the session state machine and
// the one-shot CLI commands. Implementations must be safe to call from a
// background goroutine.
type Client interface {
	FetchProjects(ctx context.Context) ([]domain.Project, error)
	FetchTimeEntries(ctx context.Context, r domain.DateRange) ([]domain.TimeEntry, error)
	// FetchDays loads projects first so entries can be labelled by name.
	FetchDays(ctx context.Context, r domain.DateRange) ([]domain.Day, error)
	CreateTimeEntry(ctx context.Context, req CreateEntryRequest) error
}

// Factory builds a client for the credentials in effect at call time.
type Factory func(creds config.Credentials) (Client, error)

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithObserver reports every call to obs.
func WithObserver(obs Observer) Option {
	return func(c *HTTPClient) {
		if obs != nil {
			c.observer = obs
		}
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// HTTPClient implements Client over HTTP with bearer authentication.
type HTTPClient struct {
	baseURL  string
	tokenLen int
	http     *http.Client
	observer Observer
}

// NewHTTPClient returns a client rooted at baseURL that authenticates with token.
func NewHTTPClient(baseURL, token string, opts ...Option) *HTTPClient {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	hc := oauth2.NewClient(context.Background(), ts)
	hc.Timeout = DefaultTimeout

	c := &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		tokenLen: len(token),
		http:     hc,
		observer: NoopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFactory returns a Factory producing HTTP clients that share opts.
func NewFactory(opts ...Option) Factory {
	return func(creds config.Credentials) (Client, error) {
		if creds.BaseURL == "" {
			return nil, fmt.Errorf("base url is empty")
		}
		if _, err := url.Parse(creds.BaseURL); err != nil {
			return nil, fmt.Errorf("parsing base url: %w", err)
		}
		return NewHTTPClient(creds.BaseURL, creds.Token, opts...), nil
	}
}

func (c *HTTPClient) FetchProjects(ctx context.Context) ([]domain.Project, error) {
	body, err := c.do(ctx, http.MethodGet, "/projects", nil, nil)
	if err != nil {
		return nil, err
	}

	var byClient map[string][]domain.Project
	if err := json.Unmarshal(body, &byClient); err != nil {
		return nil, fmt.Errorf("parsing projects: %w | response start: %.50s", err, body)
	}

	var all []domain.Project
	for client, projects := range byClient {
		for _, p := range projects {
			p.ClientName = client
			all = append(all, p)
		}
	}
	slices.SortStableFunc(all, func(a, b domain.Project) int {
		return cmp.Or(cmp.Compare(a.ClientName, b.ClientName), cmp.Compare(a.Name, b.Name))
	})
	return all, nil
}

type queryStyle int

const (
	snakeQuery queryStyle = iota
	camelQuery
)

func (s queryStyle) params(r domain.DateRange) url.Values {
	q := url.Values{}
	if s == camelQuery {
		q.Set("startDate", r.StartString())
		q.Set("endDate", r.EndString())
		return q
	}
	q.Set("start_date", r.StartString())
	q.Set("end_date", r.EndString())
	return q
}

// FetchTimeEntries queries with snake_case parameters and, when nothing
// comes back, retries once with camelCase parameters, keeping whichever
// answer is larger. Zero entries is a valid result.
func (c *HTTPClient) FetchTimeEntries(ctx context.Context, r domain.DateRange) ([]domain.TimeEntry, error) {
	primary, err := c.fetchTimeEntries(ctx, r, snakeQuery)
	if err != nil {
		return nil, err
	}
	if len(primary) > 0 {
		return primary, nil
	}
	alt, err := c.fetchTimeEntries(ctx, r, camelQuery)
	if err == nil && len(alt) > len(primary) {
		return alt, nil
	}
	return primary, nil
}

var entryListKeys = []string{"data", "time_entries", "timeEntries", "entries", "items"}

func (c *HTTPClient) fetchTimeEntries(ctx context.Context, r domain.DateRange, style queryStyle) ([]domain.TimeEntry, error) {
	body, err := c.do(ctx, http.MethodGet, "/time-entries", style.params(r), nil)
	if err != nil {
		return nil, err
	}

	var grouped map[string][]domain.TimeEntry
	if err := json.Unmarshal(body, &grouped); err == nil {
		var all []domain.TimeEntry
		for _, entries := range grouped {
			all = append(all, entries...)
		}
		return all, nil
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("invalid json (%w) %s", err, firstLine(body))
	}
	list, ok := extractList(doc, entryListKeys)
	if !ok {
		return nil, fmt.Errorf("%w (keys: %s)", ErrNoList, strings.Join(entryListKeys, ", "))
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("re-encoding entry list: %w", err)
	}
	var entries []domain.TimeEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decoding entries: %w", err)
	}
	return entries, nil
}

func (c *HTTPClient) FetchDays(ctx context.Context, r domain.DateRange) ([]domain.Day, error) {
	projects, err := c.FetchProjects(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := c.FetchTimeEntries(ctx, r)
	if err != nil {
		return nil, err
	}
	return domain.BuildDays(entries, projects, r), nil
}

func (c *HTTPClient) CreateTimeEntry(ctx context.Context, req CreateEntryRequest) error {
	if req.TagIDs == nil {
		req.TagIDs = []int{}
	}
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, "/time-entries", nil, data)
	return err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	start := time.Now()
	event := CallEvent{Method: method, Path: path, TokenLen: c.tokenLen}
	respBody, status, err := c.roundTrip(ctx, method, path, query, body)
	event.Status = status
	event.Latency = time.Since(start)
	event.ErrorCode = errorCode(err)
	c.observer.OnCallComplete(event)
	return respBody, err
}

func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, int, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := string(respBody)
		if method == http.MethodGet {
			text = firstLine(respBody)
		}
		return nil, resp.StatusCode, &StatusError{Code: resp.StatusCode, Body: text}
	}
	return respBody, resp.StatusCode, nil
}

func firstLine(body []byte) string {
	line, _, _ := strings.Cut(string(body), "\n")
	return strings.TrimSpace(line)
}

// extractList finds the first array of objects in doc: doc itself, then
// any of keys at the top level, then recursively inside nested objects.
func extractList(doc any, keys []string) ([]any, bool) {
	switch v := doc.(type) {
	case []any:
		if isObjectArray(v) {
			return v, true
		}
	case map[string]any:
		for _, key := range keys {
			if list, ok := v[key].([]any); ok && isObjectArray(list) {
				return list, true
			}
		}
		names := make([]string, 0, len(v))
		for k := range v {
			names = append(names, k)
		}
		slices.Sort(names)
		for _, k := range names {
			if list, ok := extractList(v[k], keys); ok {
				return list, true
			}
		}
	}
	return nil, false
}

func isObjectArray(items []any) bool {
	for _, item := range items {
		if _, ok := item.(map[string]any); !ok {
			return false
		}
	}
	return true
}
