package app

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/vartui/internal/api"
	"github.com/alexanderramin/vartui/internal/config"
	"github.com/alexanderramin/vartui/internal/domain"
)

// pollInterval is the sleep between polls during a headless wait.
const pollInterval = 20 * time.Millisecond

type daysResult struct {
	days   []domain.Day
	status string
	err    error
}

type projectsResult struct {
	projects []domain.Project
	err      error
	// cached is set when the remote call failed and projects came from
	// the local cache instead.
	cached bool
}

// loader tracks at most one outstanding fetch of each kind. Each channel
// has capacity one so a superseded worker can always complete its send
// and exit; nobody reads the dropped channel again.
type loader struct {
	days     chan daysResult
	projects chan projectsResult
}

// Loading reports whether any background fetch is still outstanding.
func (a *App) Loading() bool {
	return a.loads.days != nil || a.loads.projects != nil
}

func newClient(factory api.Factory, creds config.Credentials) (api.Client, error) {
	client, err := factory(creds)
	if err != nil {
		return nil, fmt.Errorf("client error: %w", err)
	}
	return client, nil
}

// spawnLoad starts fetching days for r and supersedes any earlier day fetch.
func (a *App) spawnLoad(r domain.DateRange) {
	ch := make(chan daysResult, 1)
	a.loads.days = ch
	creds := a.Credentials()
	factory := a.deps.Clients
	logger := a.logger

	go func() {
		client, err := newClient(factory, creds)
		if err != nil {
			ch <- daysResult{err: err}
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*api.DefaultTimeout)
		defer cancel()
		days, err := client.FetchDays(ctx, r)
		if err != nil {
			logger.Warn("days_fetch_failed", "range", r.Label(), "error", err.Error())
			ch <- daysResult{err: err}
			return
		}
		logger.Debug("days_fetched", "range", r.Label(), "days", len(days))
		ch <- daysResult{days: days, status: fmt.Sprintf("updated: %d days", len(days))}
	}()
}

// spawnLoadProjects starts fetching the project list and supersedes any
// earlier project fetch. Successful lists are written to the cache; a
// failed fetch falls back to it.
func (a *App) spawnLoadProjects() {
	ch := make(chan projectsResult, 1)
	a.loads.projects = ch
	creds := a.Credentials()
	cache := a.deps.Cache
	factory := a.deps.Clients
	logger := a.logger

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*api.DefaultTimeout)
		defer cancel()

		var projects []domain.Project
		client, err := newClient(factory, creds)
		if err == nil {
			projects, err = client.FetchProjects(ctx)
		}
		if err != nil {
			logger.Warn("projects_fetch_failed", "error", err.Error())
			if cache != nil {
				if cached, cerr := cache.List(ctx, creds.BaseURL); cerr == nil && len(cached) > 0 {
					ch <- projectsResult{projects: cached, err: err, cached: true}
					return
				}
			}
			ch <- projectsResult{err: err}
			return
		}
		if cache != nil {
			if cerr := cache.Replace(ctx, creds.BaseURL, projects); cerr != nil {
				logger.Warn("project_cache_write_failed", "error", cerr.Error())
			}
		}
		ch <- projectsResult{projects: projects}
	}()
}

// CheckBackgroundLoad merges any finished fetch into the state without
// blocking. It reports whether anything changed; with nothing pending it
// leaves the App untouched.
func (a *App) CheckBackgroundLoad() bool {
	changed := false

	if a.loads.days != nil {
		select {
		case res := <-a.loads.days:
			a.loads.days = nil
			changed = true
			if res.err != nil {
				a.status = "error: " + res.err.Error()
			} else {
				a.setDays(res.days)
				a.status = res.status
			}
		default:
		}
	}

	if a.loads.projects != nil {
		select {
		case res := <-a.loads.projects:
			a.loads.projects = nil
			changed = true
			switch {
			case res.cached:
				a.projects = res.projects
				a.status = fmt.Sprintf("projects error: %v (using %d cached)", res.err, len(res.projects))
			case res.err != nil:
				a.status = "projects error: " + res.err.Error()
			default:
				a.projects = res.projects
				a.status = fmt.Sprintf("projects loaded: %d", len(res.projects))
			}
			if form, ok := a.EntryForm(); ok {
				a.refilter(form)
			}
		default:
		}
	}

	return changed
}

// WaitBackgroundLoad polls until no fetch is outstanding or timeout
// elapses. It reports whether everything finished in time.
func (a *App) WaitBackgroundLoad(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		a.CheckBackgroundLoad()
		if !a.Loading() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(pollInterval)
	}
}

// Refresh re-fetches the current range.
func (a *App) Refresh() {
	a.status = "refreshing..."
	a.spawnLoad(a.rng)
}

// ReloadProjects re-fetches the project list.
func (a *App) ReloadProjects() {
	a.status = "loading projects..."
	a.spawnLoadProjects()
}
