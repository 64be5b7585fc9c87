package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type stubPruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (p *stubPruner) Prune(_ context.Context, before time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cutoffs = append(p.cutoffs, before)

	return 3, p.err
}

func (p *stubPruner) calls() []time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]time.Time(nil), p.cutoffs...)
}

func TestPruneJournalUsesRetention(t *testing.T) {
	pruner := &stubPruner{}
	s := New(context.Background(), pruner, 24*time.Hour, slog.Default())

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.pruneJournal()

	calls := pruner.calls()
	if len(calls) != 1 {
		t.Fatalf("expected one prune call, got %d", len(calls))
	}

	if want := now.Add(-24 * time.Hour); !calls[0].Equal(want) {
		t.Fatalf("unexpected cutoff: got %s want %s", calls[0], want)
	}
}

func TestPruneJournalSkipsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pruner := &stubPruner{}
	s := New(ctx, pruner, time.Hour, slog.Default())

	s.pruneJournal()

	if calls := pruner.calls(); len(calls) != 0 {
		t.Fatalf("expected no prune call, got %d", len(calls))
	}
}

func TestPruneJournalToleratesErrors(t *testing.T) {
	pruner := &stubPruner{err: errors.New("database is locked")}
	s := New(context.Background(), pruner, time.Hour, slog.Default())

	s.pruneJournal()

	if calls := pruner.calls(); len(calls) != 1 {
		t.Fatalf("expected one prune call, got %d", len(calls))
	}
}

func TestStartStop(t *testing.T) {
	s := New(context.Background(), &stubPruner{}, time.Hour, slog.Default())

	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entries := s.cron.Entries(); len(entries) != 1 {
		t.Fatalf("expected one cron entry, got %d", len(entries))
	}

	s.Stop()
}
