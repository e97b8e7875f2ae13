package vadcache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"subalign/internal/fileutil"
	"subalign/internal/timing"
)

const (
	// DatabaseName is the file name of the cache database.
	DatabaseName = "vad.db"
	lockName     = "vad.lock"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql or the segment encoding
// changes. Older databases are dropped and recreated.
const schemaVersion = 1

// Store is an open timeline cache.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open creates the cache directory if needed and opens the database in it.
func Open(ctx context.Context, dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("cache directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	dbPath := filepath.Join(dir, DatabaseName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: flock.New(filepath.Join(dir, lockName))}
	if err := store.withLock(ctx, store.initSchema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	_ = s.lock.Close()
	return s.db.Close()
}

// Key derives the cache key for track of the media file at path. params
// should describe every analysis setting that changes the result.
func Key(path string, track int, params ...string) (string, error) {
	extra := append([]string{"track=" + strconv.Itoa(track)}, params...)
	return fileutil.Identity(path, extra...)
}

// Get returns the cached segments for key. ok is false on a miss.
func (s *Store) Get(ctx context.Context, key string) (segments []timing.Interval, ok bool, err error) {
	var payload string
	row := s.db.QueryRowContext(ctx, `SELECT segments_json FROM timelines WHERE cache_key = ?`, key)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read timeline: %w", err)
	}
	segments, err = decodeSegments(payload)
	if err != nil {
		return nil, false, err
	}
	return segments, true, nil
}

// Put stores segments under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key, sourcePath string, track int, segments []timing.Interval) error {
	payload, err := encodeSegments(segments)
	if err != nil {
		return err
	}
	return s.withLock(ctx, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO timelines (cache_key, source_path, track, segments_json, created_at)
             VALUES (?, ?, ?, ?, ?)
             ON CONFLICT(cache_key) DO UPDATE SET
                 source_path = excluded.source_path,
                 track = excluded.track,
                 segments_json = excluded.segments_json,
                 created_at = excluded.created_at`,
			key, sourcePath, track, payload, time.Now().UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("store timeline: %w", err)
		}
		return nil
	})
}

// Entry summarizes one cached timeline.
type Entry struct {
	SourcePath string
	Track      int
	Segments   int
	CreatedAt  time.Time
}

// List returns every cached timeline, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source_path, track, segments_json, created_at FROM timelines ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list timelines: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			payload string
			created string
		)
		if err := rows.Scan(&e.SourcePath, &e.Track, &payload, &created); err != nil {
			return nil, fmt.Errorf("scan timeline: %w", err)
		}
		segments, err := decodeSegments(payload)
		if err != nil {
			return nil, err
		}
		e.Segments = len(segments)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timelines: %w", err)
	}
	return entries, nil
}

// Clear removes every cached timeline and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	var removed int64
	err := s.withLock(ctx, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM timelines`)
		if err != nil {
			return fmt.Errorf("clear timelines: %w", err)
		}
		removed, _ = res.RowsAffected()
		return nil
	})
	return removed, err
}

func (s *Store) withLock(ctx context.Context, fn func(context.Context) error) error {
	locked, err := s.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquire cache lock: %w", err)
	}
	if !locked {
		return errors.New("acquire cache lock: not acquired")
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn(ctx)
}

func encodeSegments(segments []timing.Interval) (string, error) {
	pairs := make([][2]int64, len(segments))
	for i, seg := range segments {
		pairs[i] = [2]int64{seg.Start, seg.End}
	}
	data, err := json.Marshal(pairs)
	if err != nil {
		return "", fmt.Errorf("encode segments: %w", err)
	}
	return string(data), nil
}

func decodeSegments(payload string) ([]timing.Interval, error) {
	var pairs [][2]int64
	if err := json.Unmarshal([]byte(payload), &pairs); err != nil {
		return nil, fmt.Errorf("decode segments: %w", err)
	}
	out := make([]timing.Interval, len(pairs))
	for i, p := range pairs {
		out[i] = timing.NewInterval(p[0], p[1])
	}
	return out, nil
}
