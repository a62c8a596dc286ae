package client

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultSyncInterval is how often the reconciliation loop polls.
const DefaultSyncInterval = 2 * time.Second

// Syncer keeps a local copy of a workspace's page list reconciled against
// the server. Every tick it refetches the authoritative list, compares
// fingerprints, and on drift replaces the whole local list; it never
// patches incrementally. Fetch failures are silent no-ops for that tick —
// the next tick retries.
//
// The loop pairs with the per-page push channel: push tells an open viewer
// "this page changed" quickly, while this loop guarantees the page list
// converges even when every push was missed.
type Syncer struct {
	client      *Client
	workspaceID string
	interval    time.Duration
	logger      *slog.Logger

	visible  atomic.Bool
	onChange func([]Page)

	mu          sync.RWMutex
	pages       []Page
	fingerprint string
}

// SyncOption configures a Syncer.
type SyncOption func(*Syncer)

// WithInterval overrides the polling interval.
func WithInterval(d time.Duration) SyncOption {
	return func(s *Syncer) { s.interval = d }
}

// WithLogger sets the syncer's logger.
func WithLogger(logger *slog.Logger) SyncOption {
	return func(s *Syncer) { s.logger = logger }
}

// WithOnChange registers a callback invoked with the new list whenever the
// local copy is replaced. Called from the sync goroutine.
func WithOnChange(fn func([]Page)) SyncOption {
	return func(s *Syncer) { s.onChange = fn }
}

// NewSyncer creates a reconciliation loop for one workspace.
func NewSyncer(c *Client, workspaceID string, opts ...SyncOption) *Syncer {
	s := &Syncer{
		client:      c,
		workspaceID: workspaceID,
		interval:    DefaultSyncInterval,
		logger:      slog.Default(),
	}
	s.visible.Store(true)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run polls until ctx is cancelled. Ticks that fall while the client is
// backgrounded are skipped, not accumulated; polling resumes on the next
// tick after visibility returns.
func (s *Syncer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.visible.Load() {
				continue
			}
			s.tick(ctx)
		}
	}
}

// tick performs one reconciliation pass.
func (s *Syncer) tick(ctx context.Context) {
	pages, err := s.client.ListPages(ctx, s.workspaceID)
	if err != nil {
		// Transient fetch failures never surface to the user; the next
		// tick is the retry.
		s.logger.Debug("sync fetch failed", "workspace_id", s.workspaceID, "error", err)
		return
	}

	fingerprint := Fingerprint(pages)

	s.mu.Lock()
	if fingerprint == s.fingerprint {
		s.mu.Unlock()
		return
	}
	s.pages = pages
	s.fingerprint = fingerprint
	s.mu.Unlock()

	s.logger.Debug("page list drifted, replaced local copy",
		"workspace_id", s.workspaceID,
		"pages", len(pages),
	)

	if s.onChange != nil {
		s.onChange(pages)
	}
}

// SetVisible tells the loop whether the client is currently foregrounded.
// While false, scheduled ticks do nothing and no requests are made.
func (s *Syncer) SetVisible(visible bool) {
	s.visible.Store(visible)
}

// Pages returns the current local copy of the page list.
func (s *Syncer) Pages() []Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pages
}
