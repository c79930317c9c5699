package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ukaji3/finreport-go/pkg/finreport/models"
)

const createEntriesSQL = `CREATE TABLE IF NOT EXISTS cache_entries (
	key         TEXT PRIMARY KEY,
	shape       INTEGER NOT NULL,
	fingerprint INTEGER NOT NULL,
	payload     BLOB NOT NULL,
	expires_at  INTEGER NOT NULL
)`

// SQLiteStore is a Store persisted in a SQLite database, so cached results
// survive restarts. Expiry is stored as Unix nanoseconds; 0 means never.
//
// Store methods have no error return, so database failures are logged and
// treated as a miss (Get) or a dropped write (Set).
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteStore opens (creating if needed) the cache database at dsn.
func NewSQLiteStore(ctx context.Context, dsn string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One writer at a time; modernc's driver serializes anyway and this
	// avoids SQLITE_BUSY under concurrent Sets.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, createEntriesSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache_entries: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger, now: time.Now}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(key string) (Entry, bool) {
	var (
		shape       int
		fingerprint int64
		payload     []byte
		expiresAt   int64
	)
	err := s.db.QueryRow(
		`SELECT shape, fingerprint, payload, expires_at FROM cache_entries WHERE key = ?`, key,
	).Scan(&shape, &fingerprint, &payload, &expiresAt)
	if err == sql.ErrNoRows {
		return Entry{}, false
	}
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "error", err)
		return Entry{}, false
	}
	if expiresAt != 0 && s.now().UnixNano() >= expiresAt {
		return Entry{}, false
	}

	var rs models.ResultSet
	if err := json.Unmarshal(payload, &rs); err != nil {
		s.logger.Warn("cache entry corrupt", "key", key, "error", err)
		return Entry{}, false
	}
	return Entry{Result: &rs, Shape: shape, Fingerprint: uint64(fingerprint)}, true
}

func (s *SQLiteStore) Set(key string, e Entry, ttl time.Duration) {
	payload, err := json.Marshal(e.Result)
	if err != nil {
		s.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	var expiresAt int64
	if ttl > 0 {
		expiresAt = s.now().Add(ttl).UnixNano()
	}
	_, err = s.db.Exec(
		`INSERT INTO cache_entries (key, shape, fingerprint, payload, expires_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			shape = excluded.shape,
			fingerprint = excluded.fingerprint,
			payload = excluded.payload,
			expires_at = excluded.expires_at`,
		key, e.Shape, int64(e.Fingerprint), payload, expiresAt,
	)
	if err != nil {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

// Sweep deletes expired rows and returns how many were removed.
func (s *SQLiteStore) Sweep() int {
	res, err := s.db.Exec(
		`DELETE FROM cache_entries WHERE expires_at != 0 AND expires_at <= ?`, s.now().UnixNano(),
	)
	if err != nil {
		s.logger.Warn("cache sweep failed", "error", err)
		return 0
	}
	n, _ := res.RowsAffected()
	return int(n)
}

// Sweeper is a Store that drops expired entries on demand.
type Sweeper interface {
	Sweep() int
}

// RunSweeper calls s.Sweep every interval until ctx is done.
func RunSweeper(ctx context.Context, s Sweeper, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 && logger != nil {
				logger.Debug("expired cache entries removed", "count", n)
			}
		}
	}
}
