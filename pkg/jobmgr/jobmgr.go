// Package jobmgr runs named background jobs tied to a parent context and
// keeps track of which ones are still running.
//
//	jm := jobmgr.NewManager(func(msg string) {
//	    log.Println("[DEBUG] job", msg)
//	})
//
//	_ = jm.StartAsync(ctx, "cooldown-cleaner", func(ctx context.Context) error {
//	    cmd.RunCooldownCleaner(ctx, reg, time.Minute)
//	    return nil
//	})
//
//	// on shutdown
//	jm.StopAll()
//	jm.Wait()
package jobmgr

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrAlreadyRunning is returned when a job with the same name is active.
var ErrAlreadyRunning = errors.New("job already running")

// ErrNotRunning is returned by Stop for unknown jobs.
var ErrNotRunning = errors.New("job not running")

type job struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StatusReporter receives lifecycle messages such as
//
//	running:cooldown-cleaner
//	error:cooldown-cleaner:boom
//	done:cooldown-cleaner
type StatusReporter func(string)

// Manager starts, stops and tracks jobs. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*job
	wg       sync.WaitGroup
	Reporter StatusReporter
}

// NewManager creates a Manager. reporter may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*job),
		Reporter: reporter,
	}
}

// StartAsync runs runner in its own goroutine with a context derived from
// parent. The job is forgotten once runner returns.
func (m *Manager) StartAsync(parent context.Context, name string, runner func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[name]; exists {
		return fmt.Errorf("%q: %w", name, ErrAlreadyRunning)
	}

	ctx, cancel := context.WithCancel(parent)
	j := &job{cancel: cancel, done: make(chan struct{})}
	m.jobs[name] = j
	m.wg.Add(1)

	go func() {
		defer m.wg.Done()
		defer close(j.done)
		defer cancel()

		m.report("running:" + name)
		if err := runner(ctx); err != nil && !errors.Is(err, context.Canceled) {
			m.report("error:" + name + ":" + err.Error())
		} else {
			m.report("done:" + name)
		}

		m.mu.Lock()
		if m.jobs[name] == j {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()
	return nil
}

// Stop cancels a job and waits for it to return.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	j, ok := m.jobs[name]
	if ok {
		delete(m.jobs, name)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%q: %w", name, ErrNotRunning)
	}
	j.cancel()
	<-j.done
	return nil
}

// StopAll cancels every running job without waiting.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, j := range m.jobs {
		j.cancel()
		delete(m.jobs, name)
	}
}

// Wait blocks until every job started so far has returned.
func (m *Manager) Wait() { m.wg.Wait() }

// List returns the names of active jobs, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Status summarises the active jobs, e.g. "Running jobs: cooldown-cleaner".
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}

func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
