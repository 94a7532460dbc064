package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/username/zeiterfassung/internal/report"
)

// ReportCache keeps the last fetched copy of each week and month report in sqlite
type ReportCache struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// OpenReportCache opens (and creates) the cache database at path
func OpenReportCache(path string, logger *zap.Logger) (*ReportCache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open report cache: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open report cache: %w", err)
	}

	rc := &ReportCache{db: db, logger: logger, now: time.Now}
	if err := rc.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize report cache: %w", err)
	}

	logger.Debug("Report cache opened", zap.String("path", path))
	return rc, nil
}

func (rc *ReportCache) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS report_cache (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		fetched_at TEXT NOT NULL
	)
	`
	_, err := rc.db.Exec(query)
	return err
}

func weekKey(weekStart time.Time) string {
	return "week:" + weekStart.Format("2006-01-02")
}

func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("month:%04d-%02d", year, int(month))
}

// PutWeek stores a week report keyed by its Monday
func (rc *ReportCache) PutWeek(rep *report.WeekReport) error {
	return rc.put(weekKey(rep.WeekStart), rep)
}

// GetWeek returns the cached week report for the week starting on weekStart.
// The bool is false when nothing is cached.
func (rc *ReportCache) GetWeek(weekStart time.Time) (*report.WeekReport, time.Time, bool, error) {
	var rep report.WeekReport
	fetchedAt, ok, err := rc.get(weekKey(weekStart), &rep)
	if err != nil || !ok {
		return nil, time.Time{}, ok, err
	}
	return &rep, fetchedAt, true, nil
}

// PutMonth stores a month report
func (rc *ReportCache) PutMonth(rep *report.MonthReport) error {
	return rc.put(monthKey(rep.Year, rep.Month), rep)
}

// GetMonth returns the cached month report
func (rc *ReportCache) GetMonth(year int, month time.Month) (*report.MonthReport, time.Time, bool, error) {
	var rep report.MonthReport
	fetchedAt, ok, err := rc.get(monthKey(year, month), &rep)
	if err != nil || !ok {
		return nil, time.Time{}, ok, err
	}
	return &rep, fetchedAt, true, nil
}

// Purge deletes entries fetched before the cutoff and returns how many were removed
func (rc *ReportCache) Purge(olderThan time.Time) (int64, error) {
	result, err := rc.db.Exec("DELETE FROM report_cache WHERE fetched_at < ?", olderThan.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to purge report cache: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to purge report cache: %w", err)
	}
	return n, nil
}

func (rc *ReportCache) put(key string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cached report: %w", err)
	}

	_, err = rc.db.Exec(
		`INSERT INTO report_cache (key, payload, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		key, string(payload), rc.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to write cached report %s: %w", key, err)
	}
	return nil
}

func (rc *ReportCache) get(key string, v interface{}) (time.Time, bool, error) {
	var payload, fetchedAt string
	err := rc.db.QueryRow("SELECT payload, fetched_at FROM report_cache WHERE key = ?", key).
		Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read cached report %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse cached report %s: %w", key, err)
	}

	ts, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil {
		rc.logger.Warn("Invalid fetched_at in report cache",
			zap.String("key", key),
			zap.String("fetched_at", fetchedAt))
	}
	return ts, true, nil
}

// Close closes the database
func (rc *ReportCache) Close() error {
	return rc.db.Close()
}
