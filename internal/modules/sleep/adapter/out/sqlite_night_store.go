package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"sleeptrack/internal/modules/sleep/domain"
	apperrors "sleeptrack/internal/platform/errors"
	"sleeptrack/internal/platform/observable"

	_ "modernc.org/sqlite"
)

// SQLiteNightStore persists nights and republishes the full history on its
// feed after every mutation.
type SQLiteNightStore struct {
	db   *sql.DB
	log  hclog.Logger
	feed *observable.Value[[]domain.Night]
}

func NewSQLiteNightStore(dbPath string, log hclog.Logger) (*SQLiteNightStore, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection serializes writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &SQLiteNightStore{db: db, log: log.Named("store"), feed: observable.New[[]domain.Night]()}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := s.publish(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.log.Debug("night store ready", "path", dbPath)
	return s, nil
}

func (s *SQLiteNightStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS daily_sleep_quality (
  night_id INTEGER PRIMARY KEY AUTOINCREMENT,
  start_time_milli INTEGER NOT NULL,
  end_time_milli INTEGER NOT NULL,
  quality_rating INTEGER NOT NULL DEFAULT -1
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create nights table: %w", err)
	}
	return nil
}

func (s *SQLiteNightStore) Insert(ctx context.Context, night domain.Night) (domain.Night, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO daily_sleep_quality (start_time_milli, end_time_milli, quality_rating)
VALUES (?, ?, ?);
`, night.StartTime.UnixMilli(), night.EndTime.UnixMilli(), night.Quality)
	if err != nil {
		return domain.Night{}, fmt.Errorf("insert night: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Night{}, fmt.Errorf("insert night id: %w", err)
	}
	night.ID = id
	s.refresh(ctx)
	return night, nil
}

func (s *SQLiteNightStore) Update(ctx context.Context, night domain.Night) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE daily_sleep_quality
SET start_time_milli = ?, end_time_milli = ?, quality_rating = ?
WHERE night_id = ?;
`, night.StartTime.UnixMilli(), night.EndTime.UnixMilli(), night.Quality, night.ID)
	if err != nil {
		return fmt.Errorf("update night: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update night rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update night %d: %w", night.ID, apperrors.ErrNotFound)
	}
	s.refresh(ctx)
	return nil
}

func (s *SQLiteNightStore) Get(ctx context.Context, id int64) (domain.Night, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT night_id, start_time_milli, end_time_milli, quality_rating
FROM daily_sleep_quality
WHERE night_id = ?;
`, id)
	night, err := scanNight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Night{}, fmt.Errorf("night %d: %w", id, apperrors.ErrNotFound)
		}
		return domain.Night{}, fmt.Errorf("get night: %w", err)
	}
	return night, nil
}

func (s *SQLiteNightStore) Latest(ctx context.Context) (domain.Night, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT night_id, start_time_milli, end_time_milli, quality_rating
FROM daily_sleep_quality
ORDER BY night_id DESC
LIMIT 1;
`)
	night, err := scanNight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Night{}, apperrors.ErrNotFound
		}
		return domain.Night{}, fmt.Errorf("latest night: %w", err)
	}
	return night, nil
}

func (s *SQLiteNightStore) List(ctx context.Context) ([]domain.Night, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT night_id, start_time_milli, end_time_milli, quality_rating
FROM daily_sleep_quality
ORDER BY night_id DESC;
`)
	if err != nil {
		return nil, fmt.Errorf("list nights: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Night, 0)
	for rows.Next() {
		night, err := scanNight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan night: %w", err)
		}
		out = append(out, night)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nights: %w", err)
	}
	return out, nil
}

func (s *SQLiteNightStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM daily_sleep_quality`); err != nil {
		return fmt.Errorf("clear nights: %w", err)
	}
	s.refresh(ctx)
	return nil
}

func (s *SQLiteNightStore) Subscribe(ctx context.Context) <-chan []domain.Night {
	return s.feed.Subscribe(ctx)
}

// Close ends every feed subscription and closes the database.
func (s *SQLiteNightStore) Close() error {
	s.feed.Close()
	return s.db.Close()
}

func (s *SQLiteNightStore) publish(ctx context.Context) error {
	nights, err := s.List(ctx)
	if err != nil {
		return err
	}
	s.feed.Set(nights)
	return nil
}

// refresh runs after a committed mutation, so it outlives the caller's
// cancellation and a failed re-read is logged rather than reported as a failed write.
func (s *SQLiteNightStore) refresh(ctx context.Context) {
	if err := s.publish(context.WithoutCancel(ctx)); err != nil {
		s.log.Error("refresh history feed", "error", err)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNight(row scanner) (domain.Night, error) {
	var (
		night      domain.Night
		start, end int64
	)
	if err := row.Scan(&night.ID, &start, &end, &night.Quality); err != nil {
		return domain.Night{}, err
	}
	night.StartTime = time.UnixMilli(start).UTC()
	night.EndTime = time.UnixMilli(end).UTC()
	return night, nil
}
