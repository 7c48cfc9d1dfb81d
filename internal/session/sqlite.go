package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ppiankov/sentinel/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	created_at  INTEGER NOT NULL,
	expires_at  INTEGER NOT NULL,
	data        TEXT
);
CREATE INDEX IF NOT EXISTS sessions_expires_at ON sessions(expires_at);
`

// SQLiteStore keeps sessions in a SQLite database so they survive restarts.
// Times are stored as Unix nanoseconds.
type SQLiteStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSQLiteStore opens the database at path and runs migrations
func NewSQLiteStore(path string, ttl time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection keeps ":memory:" databases shared and writes serialized
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLiteStore{
		db:   db,
		ttl:  ttl,
		now:  func() time.Time { return time.Now().UTC() },
		stop: make(chan struct{}),
	}, nil
}

func (s *SQLiteStore) Create() (string, error) {
	id := uuid.NewString()
	now := s.now()
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, created_at, expires_at) VALUES (?, ?, ?)`,
		id, now.UnixNano(), now.Add(s.ttl).UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) Put(id string, analysis *model.DocumentAnalysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("marshal analysis: %w", err)
	}

	now := s.now()
	res, err := s.db.Exec(
		`UPDATE sessions SET data = ?, expires_at = ? WHERE id = ? AND expires_at > ?`,
		string(data), now.Add(s.ttl).UnixNano(), id, now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("rows affected: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Get(id string) (*model.DocumentAnalysis, error) {
	now := s.now()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var data sql.NullString
	err = tx.QueryRow(
		`SELECT data FROM sessions WHERE id = ? AND expires_at > ?`,
		id, now.UnixNano(),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE sessions SET expires_at = ? WHERE id = ?`,
		now.Add(s.ttl).UnixNano(), id,
	); err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	if !data.Valid {
		return nil, ErrNoData
	}
	var analysis model.DocumentAnalysis
	if err := json.Unmarshal([]byte(data.String), &analysis); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &analysis, nil
}

func (s *SQLiteStore) Delete(id string) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Info(id string) (Info, error) {
	var created, expires int64
	var hasData bool
	err := s.db.QueryRow(
		`SELECT created_at, expires_at, data IS NOT NULL FROM sessions WHERE id = ? AND expires_at > ?`,
		id, s.now().UnixNano(),
	).Scan(&created, &expires, &hasData)
	if errors.Is(err, sql.ErrNoRows) {
		return Info{}, ErrNotFound
	}
	if err != nil {
		return Info{}, fmt.Errorf("query session: %w", err)
	}
	return Info{
		ID:        id,
		CreatedAt: time.Unix(0, created).UTC(),
		ExpiresAt: time.Unix(0, expires).UTC(),
		HasData:   hasData,
	}, nil
}

func (s *SQLiteStore) Count() int {
	var n int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM sessions WHERE expires_at > ?`, s.now().UnixNano(),
	).Scan(&n); err != nil {
		slog.Warn("count sessions failed", "err", err)
		return 0
	}
	return n
}

// Sweep deletes expired sessions and returns how many were removed
func (s *SQLiteStore) Sweep() (int, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, s.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// StartJanitor sweeps expired sessions every interval until Close
func (s *SQLiteStore) StartJanitor(interval time.Duration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				if n, err := s.Sweep(); err != nil {
					slog.Warn("session sweep failed", "err", err)
				} else if n > 0 {
					slog.Info("deleted expired sessions", "count", n)
				}
			}
		}
	}()
}

// Close stops the janitor and closes the database
func (s *SQLiteStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
	return s.db.Close()
}
