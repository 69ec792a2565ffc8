package automation

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/vartui/internal/app"
	"github.com/alexanderramin/vartui/internal/config"
	"github.com/alexanderramin/vartui/internal/domain"
	"github.com/alexanderramin/vartui/internal/repository"
	"github.com/alexanderramin/vartui/internal/testutil"
)

const testWait = 2 * time.Second

// fixedNow is Wednesday 2024-03-13.
var fixedNow = time.Date(2024, 3, 13, 10, 0, 0, 0, time.Local)

func sampleEntries() []domain.TimeEntry {
	return []domain.TimeEntry{
		{Date: "2024-03-12", Description: "api review", ProjectID: 11, Minutes: 90},
		{Date: "2024-03-12", Description: "standup", ProjectID: 12, Minutes: 15},
		{Date: "2024-03-11", Description: "landing page", ProjectID: 31, Minutes: 120},
	}
}

func newTestDeps(t *testing.T, client *testutil.FakeClient) app.Deps {
	t.Helper()
	database := testutil.NewTestDB(t)
	return app.Deps{
		Clients: client.Factory(),
		Config:  testutil.NewMemoryConfigStore(config.Default()),
		Journal: repository.NewSQLiteJournal(database),
		Cache:   repository.NewSQLiteProjectCache(database),
		Getenv:  func(string) string { return "" },
		Now:     func() time.Time { return fixedNow },
		Source:  domain.SourceAutomation,
	}
}

func newTestApp(t *testing.T) (*app.App, *testutil.FakeClient) {
	t.Helper()
	client := testutil.NewFakeClient()
	client.Entries = sampleEntries()
	a := app.NewHeadless(newTestDeps(t, client))
	require.True(t, a.WaitBackgroundLoad(testWait))
	return a, client
}

type testServer struct {
	*Server
	client *testutil.FakeClient
	nextID int
}

func newTestServer(t *testing.T, opts ...Option) *testServer {
	t.Helper()
	client := testutil.NewFakeClient()
	client.Entries = sampleEntries()
	seq := 0
	opts = append([]Option{
		WithWaitTimeout(testWait),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("s%d", seq)
		}),
	}, opts...)
	return &testServer{Server: NewServer(newTestDeps(t, client), opts...), client: client}
}

// rpc sends one request with a fresh id and decodes the response.
func (s *testServer) rpc(t *testing.T, method string, params any) map[string]any {
	t.Helper()
	s.nextID++
	req := map[string]any{"jsonrpc": "2.0", "id": s.nextID, "method": method}
	if params != nil {
		req["params"] = params
	}
	payload, err := json.Marshal(req)
	require.NoError(t, err)

	out, exit := s.Handle(t.Context(), payload)
	require.False(t, exit)
	require.NotNil(t, out, "request with id must get a response")
	var resp map[string]any
	require.NoError(t, json.Unmarshal(out, &resp))
	require.Equal(t, "2.0", resp["jsonrpc"])
	return resp
}

// call invokes a tool with structured output and returns the result object.
func (s *testServer) call(t *testing.T, tool string, args map[string]any) map[string]any {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	if _, ok := args["structured"]; !ok {
		args["structured"] = true
	}
	resp := s.rpc(t, "tools/call", map[string]any{"name": tool, "arguments": args})
	require.Nil(t, resp["error"])
	result, ok := resp["result"].(map[string]any)
	require.True(t, ok, "result must be an object")
	return result
}

// envelope returns the structured envelope of a successful tool call.
func (s *testServer) envelope(t *testing.T, tool string, args map[string]any) map[string]any {
	t.Helper()
	result := s.call(t, tool, args)
	require.NotEqual(t, true, result["isError"], "unexpected tool error: %v", textOf(result))
	env, ok := result["structuredContent"].(map[string]any)
	require.True(t, ok, "structured content missing")
	return env
}

func (s *testServer) create(t *testing.T) string {
	t.Helper()
	env := s.envelope(t, "vartui.session.create", nil)
	sid, ok := env["sid"].(string)
	require.True(t, ok)
	return sid
}

// textOf returns the first text content item of a tool result.
func textOf(result map[string]any) string {
	content, _ := result["content"].([]any)
	if len(content) == 0 {
		return ""
	}
	item, _ := content[0].(map[string]any)
	text, _ := item["text"].(string)
	return text
}
