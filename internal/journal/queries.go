package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entry is one summarize request. RequestID comes from the client and may
// repeat across retries; every entry still gets its own row.
type Entry struct {
	RequestID      string
	FileName       string
	OriginalLength int
	WordCount      int
	Fallback       bool
	Language       string
	StatusCode     int
	Duration       time.Duration
	CreatedAt      time.Time
}

type Stats struct {
	Total         int64            `json:"total"`
	Succeeded     int64            `json:"succeeded"`
	Failed        int64            `json:"failed"`
	Fallbacks     int64            `json:"fallbacks"`
	AvgDurationMs float64          `json:"avgDurationMs"`
	Languages     map[string]int64 `json:"languages"`
}

func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.StatusCode == 0 {
		return errors.New("status code is empty")
	}

	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	query := `insert into summarize_requests
	(id, request_id, file_name, original_length, word_count, fallback, language, status_code, duration_ms, created_at)
	values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := j.db.ExecContext(ctx, query,
		uuid.NewString(),
		strings.TrimSpace(e.RequestID),
		strings.TrimSpace(e.FileName),
		e.OriginalLength,
		e.WordCount,
		e.Fallback,
		strings.TrimSpace(e.Language),
		e.StatusCode,
		e.Duration.Milliseconds(),
		e.CreatedAt.UnixMilli(),
	)

	return err
}

func (j *Journal) Stats(ctx context.Context) (*Stats, error) {
	query := `select
		count(*),
		coalesce(sum(case when status_code between 200 and 299 then 1 else 0 end), 0),
		coalesce(sum(fallback), 0),
		coalesce(avg(duration_ms), 0)
	from summarize_requests`

	var s Stats
	err := j.db.QueryRowContext(ctx, query).Scan(&s.Total, &s.Succeeded, &s.Fallbacks, &s.AvgDurationMs)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	s.Failed = s.Total - s.Succeeded

	languages, err := j.languageCounts(ctx)
	if err != nil {
		return nil, err
	}
	s.Languages = languages

	return &s, nil
}

func (j *Journal) languageCounts(ctx context.Context) (map[string]int64, error) {
	query := `select language, count(*)
	from summarize_requests
	where language != ''
	group by language`

	rows, err := j.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() {
		if err = rows.Close(); err != nil {
			j.log.ErrorContext(ctx, "Failed to close rows",
				"error", err,
				"operation", "languageCounts")
		}
	}()

	counts := make(map[string]int64)
	for rows.Next() {
		var lang string
		var count int64
		if err = rows.Scan(&lang, &count); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		counts[lang] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return counts, nil
}

// Prune deletes entries created before the given time and reports how many
// were removed.
func (j *Journal) Prune(ctx context.Context, before time.Time) (int64, error) {
	query := "delete from summarize_requests where created_at < ?"

	res, err := j.db.ExecContext(ctx, query, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}

	return n, nil
}
