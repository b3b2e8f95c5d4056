package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store keeps page views in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the analytics database at path, ensuring the
// data directory exists.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	// WAL lets the stats queries read while the collector writes; the busy
	// timeout makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure analytics db: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS views (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			visitor_id TEXT NOT NULL,
			path TEXT NOT NULL,
			referrer TEXT NOT NULL DEFAULT '',
			browser TEXT NOT NULL,
			device TEXT NOT NULL,
			timestamp TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_views_timestamp ON views(timestamp);
		CREATE INDEX IF NOT EXISTS idx_views_path ON views(path);

		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	return err
}

// GetSetting returns a setting value, or "" when unset.
func (s *Store) GetSetting(key string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return val, err
}

// SetSetting upserts a setting value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// SaveView stores a page view.
func (s *Store) SaveView(ctx context.Context, v View) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO views (visitor_id, path, referrer, browser, device, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		v.VisitorID, v.Path, v.Referrer, v.Browser, v.Device, sqlTime(v.Timestamp))
	return err
}

// timeLayout is the text form SQLite's date functions understand. Times are
// bound as strings in this layout so comparisons and strftime agree.
const timeLayout = "2006-01-02 15:04:05"

func sqlTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// GetStats aggregates the views recorded in [from, to).
func (s *Store) GetStats(ctx context.Context, fromTime, toTime time.Time) (*Stats, error) {
	from, to := sqlTime(fromTime), sqlTime(toTime)
	stats := &Stats{
		Period:     fromTime.UTC().Format("2006-01-02") + " to " + toTime.UTC().Format("2006-01-02"),
		TopPages:   []PageStat{},
		Referrers:  []DimensionStat{},
		Browsers:   []DimensionStat{},
		Devices:    []DimensionStat{},
		DailyViews: []DailyView{},
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT visitor_id) FROM views WHERE timestamp >= ? AND timestamp < ?`,
		from, to).Scan(&stats.TotalViews, &stats.UniqueVisitors)
	if err != nil {
		return nil, fmt.Errorf("count views: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, COUNT(*) AS n FROM views WHERE timestamp >= ? AND timestamp < ?
		 GROUP BY path ORDER BY n DESC, path LIMIT 20`, from, to)
	if err != nil {
		return nil, fmt.Errorf("top pages: %w", err)
	}
	for rows.Next() {
		var p PageStat
		if err := rows.Scan(&p.Path, &p.Views); err != nil {
			rows.Close()
			return nil, fmt.Errorf("top pages: %w", err)
		}
		stats.TopPages = append(stats.TopPages, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top pages: %w", err)
	}

	for _, dim := range []struct {
		column string
		out    *[]DimensionStat
	}{
		{"referrer", &stats.Referrers},
		{"browser", &stats.Browsers},
		{"device", &stats.Devices},
	} {
		if *dim.out, err = s.dimension(ctx, dim.column, from, to); err != nil {
			return nil, fmt.Errorf("%s stats: %w", dim.column, err)
		}
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT strftime('%Y-%m-%d', timestamp) AS day, COUNT(*) FROM views
		 WHERE timestamp >= ? AND timestamp < ? GROUP BY day ORDER BY day`, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily views: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d DailyView
		if err := rows.Scan(&d.Date, &d.Views); err != nil {
			return nil, fmt.Errorf("daily views: %w", err)
		}
		stats.DailyViews = append(stats.DailyViews, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily views: %w", err)
	}
	return stats, nil
}

// dimension counts views per distinct value of column. column is never
// user input.
func (s *Store) dimension(ctx context.Context, column, from, to string) ([]DimensionStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+`, COUNT(*) AS n FROM views WHERE timestamp >= ? AND timestamp < ? AND `+column+` != ''
		 GROUP BY `+column+` ORDER BY n DESC, `+column+` LIMIT 10`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []DimensionStat{}
	for rows.Next() {
		var d DimensionStat
		if err := rows.Scan(&d.Name, &d.Count); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// CleanupOldViews deletes views older than retentionDays.
func (s *Store) CleanupOldViews(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	res, err := s.db.ExecContext(ctx, `DELETE FROM views WHERE timestamp < ?`, sqlTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("cleanup views: %w", err)
	}
	return res.RowsAffected()
}

// StartCleanupScheduler deletes expired views every interval until the
// returned stop function is called.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration, onErr func(error)) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				if _, err := s.CleanupOldViews(context.Background(), retentionDays); err != nil && onErr != nil {
					onErr(err)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }
}
