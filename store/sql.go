package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLStore keeps snapshots in a single table (auto-created if AutoMigrate
// is true):
//   - {table}: (id, doc, updated_at) with id as primary key
//
// The queries stick to REPLACE INTO and ? placeholders, which MySQL and
// SQLite both accept.
type SQLStore struct {
	db    *sql.DB
	table string
	now   func() time.Time
}

// Dialects understood by SQLStoreConfig.
const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite"
)

// SQLStoreConfig configures the SQL store.
type SQLStoreConfig struct {
	Table       string // table name, default "companion_snapshots"
	Dialect     string // DialectMySQL (default) or DialectSQLite, only affects DDL
	AutoMigrate bool   // create the table if missing, default true
}

// NewSQLStore creates a Store over an opened sql.DB. The caller registers
// the driver.
func NewSQLStore(ctx context.Context, db *sql.DB, config ...SQLStoreConfig) (*SQLStore, error) {
	cfg := SQLStoreConfig{Table: "companion_snapshots", Dialect: DialectMySQL, AutoMigrate: true}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Table == "" {
		cfg.Table = "companion_snapshots"
	}

	s := &SQLStore{db: db, table: cfg.Table, now: time.Now}
	if cfg.AutoMigrate {
		if err := s.migrate(ctx, cfg.Dialect); err != nil {
			return nil, fmt.Errorf("auto-migrate failed: %w", err)
		}
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context, dialect string) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id         VARCHAR(255) NOT NULL,
		doc        LONGTEXT     NOT NULL,
		updated_at BIGINT       NOT NULL,
		PRIMARY KEY (id)
	)`, s.table)
	switch dialect {
	case DialectSQLite:
	case DialectMySQL, "":
		ddl += " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
	default:
		return fmt.Errorf("unsupported dialect %q", dialect)
	}
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

func (s *SQLStore) Save(ctx context.Context, id string, doc []byte) error {
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("REPLACE INTO %s (id, doc, updated_at) VALUES (?, ?, ?)", s.table),
		id, string(doc), s.now().UnixMilli(),
	)
	return err
}

func (s *SQLStore) Load(ctx context.Context, id string) ([]byte, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT doc FROM %s WHERE id=?", s.table), id,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id=?", s.table), id,
	)
	return err
}

func (s *SQLStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id FROM %s ORDER BY id ASC", s.table),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
