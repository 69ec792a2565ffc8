package testutil

import (
	"context"
	"sync"

	"github.com/alexanderramin/vartui/internal/api"
	"github.com/alexanderramin/vartui/internal/config"
	"github.com/alexanderramin/vartui/internal/domain"
)

// FakeClient is an in-memory api.Client. Fields may be set before use;
// methods are safe to call from background goroutines.
type FakeClient struct {
	mu sync.Mutex

	Projects []domain.Project
	// Days, when non-nil, is returned verbatim by FetchDays. Otherwise
	// Entries are grouped over the requested range.
	Days    []domain.Day
	Entries []domain.TimeEntry

	ProjectsErr error
	DaysErr     error
	CreateErr   error

	// DaysGate, when non-nil, blocks FetchDays until a value is received.
	DaysGate chan struct{}

	created      []api.CreateEntryRequest
	daysRanges   []domain.DateRange
	projectCalls int
	credentials  []config.Credentials
}

var _ api.Client = (*FakeClient)(nil)

func NewFakeClient() *FakeClient {
	return &FakeClient{Projects: SampleProjects()}
}

// Factory returns an api.Factory that always yields c and records the
// credentials it was asked for.
func (c *FakeClient) Factory() api.Factory {
	return func(creds config.Credentials) (api.Client, error) {
		c.mu.Lock()
		c.credentials = append(c.credentials, creds)
		c.mu.Unlock()
		return c, nil
	}
}

func (c *FakeClient) FetchProjects(ctx context.Context) ([]domain.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projectCalls++
	if c.ProjectsErr != nil {
		return nil, c.ProjectsErr
	}
	return append([]domain.Project(nil), c.Projects...), nil
}

func (c *FakeClient) FetchTimeEntries(ctx context.Context, r domain.DateRange) ([]domain.TimeEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.DaysErr != nil {
		return nil, c.DaysErr
	}
	return append([]domain.TimeEntry(nil), c.Entries...), nil
}

func (c *FakeClient) FetchDays(ctx context.Context, r domain.DateRange) ([]domain.Day, error) {
	c.mu.Lock()
	gate := c.DaysGate
	c.daysRanges = append(c.daysRanges, r)
	c.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.DaysErr != nil {
		return nil, c.DaysErr
	}
	if c.Days != nil {
		return append([]domain.Day(nil), c.Days...), nil
	}
	return domain.BuildDays(c.Entries, c.Projects, r), nil
}

func (c *FakeClient) CreateTimeEntry(ctx context.Context, req api.CreateEntryRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.created = append(c.created, req)
	return c.CreateErr
}

// Created returns every create request received so far.
func (c *FakeClient) Created() []api.CreateEntryRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.CreateEntryRequest(nil), c.created...)
}

// DaysRanges returns the ranges FetchDays was called with.
func (c *FakeClient) DaysRanges() []domain.DateRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.DateRange(nil), c.daysRanges...)
}

// ProjectCalls returns how many times FetchProjects ran.
func (c *FakeClient) ProjectCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectCalls
}

// Credentials returns the credentials each Factory call received.
func (c *FakeClient) Credentials() []config.Credentials {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]config.Credentials(nil), c.credentials...)
}

// Set mutates the fake under its lock.
func (c *FakeClient) Set(fn func(c *FakeClient)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c)
}
