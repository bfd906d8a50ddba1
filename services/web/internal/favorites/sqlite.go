package favorites

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps client values in a local SQLite file, for single-node
// deployments without Redis.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *logrus.Logger
}

func NewSQLiteStore(path string, logger *logrus.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
	}

	logger.WithField("path", path).Info("SQLite favorites store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS client_kv (
		client_id  TEXT    NOT NULL,
		key        TEXT    NOT NULL,
		value      BLOB    NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (client_id, key)
	)`)
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, clientID, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM client_kv WHERE client_id = ? AND key = ?`,
		clientID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s for client %s: %w", key, clientID, err)
	}
	return value, nil
}

func (s *SQLiteStore) Put(ctx context.Context, clientID, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client_kv (client_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (client_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		clientID, key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to put %s for client %s: %w", key, clientID, err)
	}
	return nil
}

func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	s.logger.Info("Closing sqlite favorites store")
	return s.db.Close()
}
