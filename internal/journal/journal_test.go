package journal

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func setupTestJournal(t *testing.T) *Journal {
	t.Helper()

	j, err := New(context.Background(), filepath.Join(t.TempDir(), "journal.sqlite"), slog.Default())
	if err != nil {
		t.Fatalf("failed to create test journal: %v", err)
	}
	t.Cleanup(func() {
		if err := j.Close(); err != nil {
			t.Errorf("failed to close journal: %v", err)
		}
	})

	return j
}

func TestNewIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.sqlite")

	for range 2 {
		j, err := New(context.Background(), path, slog.Default())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := j.SchemaVersion(); got != 2 {
			t.Fatalf("expected schema version 2, got %d", got)
		}

		if err = j.Close(); err != nil {
			t.Fatalf("unexpected close error: %v", err)
		}
	}
}

func TestRecordAndStats(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	entries := []Entry{
		{FileName: "a.txt", OriginalLength: 50, WordCount: 9, Language: "nb", StatusCode: 200, Duration: 100 * time.Millisecond},
		{FileName: "b.pdf", OriginalLength: 400, WordCount: 60, Fallback: true, Language: "nb", StatusCode: 200, Duration: 300 * time.Millisecond},
		{FileName: "c.txt", Language: "en", StatusCode: 500, Duration: 200 * time.Millisecond},
		{StatusCode: 400},
	}

	for _, e := range entries {
		if err := j.Record(ctx, e); err != nil {
			t.Fatalf("record entry: %v", err)
		}
	}

	stats, err := j.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.Total != 4 || stats.Succeeded != 2 || stats.Failed != 2 || stats.Fallbacks != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}

	if stats.AvgDurationMs != 150 {
		t.Fatalf("unexpected average duration: %v", stats.AvgDurationMs)
	}

	if stats.Languages["nb"] != 2 || stats.Languages["en"] != 1 || len(stats.Languages) != 2 {
		t.Fatalf("unexpected languages: %v", stats.Languages)
	}
}

func TestRecordRequiresStatusCode(t *testing.T) {
	j := setupTestJournal(t)

	if err := j.Record(context.Background(), Entry{FileName: "a.txt"}); err == nil {
		t.Fatalf("expected error for missing status code")
	}
}

func TestStatsEmpty(t *testing.T) {
	j := setupTestJournal(t)

	stats, err := j.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.Total != 0 || stats.AvgDurationMs != 0 || len(stats.Languages) != 0 {
		t.Fatalf("unexpected stats for empty journal: %+v", stats)
	}
}

func TestPrune(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	for _, age := range []time.Duration{48 * time.Hour, 25 * time.Hour, time.Hour} {
		if err := j.Record(ctx, Entry{StatusCode: 200, CreatedAt: now.Add(-age)}); err != nil {
			t.Fatalf("record entry: %v", err)
		}
	}

	removed, err := j.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}

	if removed != 2 {
		t.Fatalf("expected 2 removed entries, got %d", removed)
	}

	stats, err := j.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.Total != 1 {
		t.Fatalf("expected 1 remaining entry, got %d", stats.Total)
	}
}

func TestRecordKeepsRetriesWithSameRequestID(t *testing.T) {
	j := setupTestJournal(t)
	ctx := context.Background()

	const requestID = "0b4f1c4e-7f4c-4f55-9a52-1f3b7c1d2e3f"

	for _, status := range []int{500, 200} {
		if err := j.Record(ctx, Entry{RequestID: requestID, StatusCode: status}); err != nil {
			t.Fatalf("record entry with status %d: %v", status, err)
		}
	}

	var rows, ids int
	err := j.db.QueryRowContext(ctx,
		"select count(*), count(distinct id) from summarize_requests where request_id = ?",
		requestID,
	).Scan(&rows, &ids)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}

	if rows != 2 || ids != 2 {
		t.Fatalf("expected 2 rows with distinct ids, got %d rows and %d ids", rows, ids)
	}
}
