package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zots0127/registry/internal/domain/repository"
	_ "modernc.org/sqlite"
)

// Queryer is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Every component store runs against a Queryer so the same code serves
// plain reads and transactional writes.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// QuotaDefaults are applied to a quota row the first time an identity is
// touched.
type QuotaDefaults struct {
	MaxBytes int64
	MaxFiles int64
}

// Store owns the sqlite database and provides the transaction boundary
// around every multi-entity registry operation.
type Store struct {
	db       *sql.DB
	defaults QuotaDefaults
}

// NewStore opens the database, configures the pool and creates the schema.
func NewStore(dbPath string, defaults QuotaDefaults) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, defaults: defaults}
	if err := s.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return s, nil
}

func (s *Store) initTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_name TEXT NOT NULL,
		cid TEXT NOT NULL,
		uploaded_by TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		size INTEGER NOT NULL,
		content_type TEXT NOT NULL DEFAULT 'application/octet-stream',
		description TEXT NOT NULL DEFAULT '',
		access_level TEXT NOT NULL DEFAULT 'private',
		download_count INTEGER NOT NULL DEFAULT 0,
		locked BOOLEAN NOT NULL DEFAULT FALSE,
		expires_at DATETIME,
		category_id INTEGER NOT NULL,
		tags TEXT NOT NULL DEFAULT '[]', -- JSON array of strings
		checksum TEXT NOT NULL DEFAULT '',
		encryption_key TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL DEFAULT 1,
		license TEXT NOT NULL DEFAULT ''
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_files_cid ON files(cid);
	CREATE INDEX IF NOT EXISTS idx_files_category ON files(category_id);

	CREATE TABLE IF NOT EXISTS owners (
		file_id INTEGER PRIMARY KEY,
		owner TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_owners_owner ON owners(owner, file_id);

	CREATE TABLE IF NOT EXISTS grants (
		file_id INTEGER NOT NULL,
		grantee TEXT NOT NULL,
		level TEXT NOT NULL,
		granted_by TEXT NOT NULL,
		granted_at DATETIME NOT NULL,
		expires_at DATETIME,
		PRIMARY KEY (file_id, grantee)
	);

	CREATE TABLE IF NOT EXISTS quotas (
		identity TEXT PRIMARY KEY,
		used_bytes INTEGER NOT NULL DEFAULT 0,
		max_bytes INTEGER NOT NULL,
		file_count INTEGER NOT NULL DEFAULT 0,
		max_files INTEGER NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL,
		file_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS versions (
		file_id INTEGER NOT NULL,
		version INTEGER NOT NULL,
		cid TEXT NOT NULL,
		updated_by TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		size INTEGER NOT NULL,
		PRIMARY KEY (file_id, version)
	);

	CREATE TABLE IF NOT EXISTS backups (
		file_id INTEGER NOT NULL,
		backup_id TEXT NOT NULL,
		location TEXT NOT NULL,
		checksum TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		verified_at DATETIME,
		PRIMARY KEY (file_id, backup_id)
	);

	CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		file_id INTEGER NOT NULL,
		actor TEXT NOT NULL,
		action TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// WithTx runs fn against a repository set bound to one transaction. The
// transaction commits only when fn returns nil; any error rolls back every
// write, so partial application is impossible.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.RepositorySet) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(newRepositorySet(tx, s.defaults)); err != nil {
		return err
	}

	return tx.Commit()
}

// View returns a repository set over the shared connection for plain reads.
func (s *Store) View() repository.RepositorySet {
	return newRepositorySet(s.db, s.defaults)
}

// DB exposes the underlying handle for health checks and the audit sink.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// repositorySet binds every component store to one Queryer.
type repositorySet struct {
	files       *FileRepositoryImpl
	permissions *PermissionRepositoryImpl
	quotas      *QuotaRepositoryImpl
	categories  *CategoryRepositoryImpl
	versions    *VersionRepositoryImpl
	backups     *BackupRepositoryImpl
}

func newRepositorySet(q Queryer, defaults QuotaDefaults) *repositorySet {
	return &repositorySet{
		files:       &FileRepositoryImpl{q: q},
		permissions: &PermissionRepositoryImpl{q: q},
		quotas:      &QuotaRepositoryImpl{q: q, defaults: defaults},
		categories:  &CategoryRepositoryImpl{q: q},
		versions:    &VersionRepositoryImpl{q: q},
		backups:     &BackupRepositoryImpl{q: q},
	}
}

func (r *repositorySet) Files() repository.FileRepository             { return r.files }
func (r *repositorySet) Permissions() repository.PermissionRepository { return r.permissions }
func (r *repositorySet) Quotas() repository.QuotaRepository           { return r.quotas }
func (r *repositorySet) Categories() repository.CategoryRepository    { return r.categories }
func (r *repositorySet) Versions() repository.VersionRepository       { return r.versions }
func (r *repositorySet) Backups() repository.BackupRepository         { return r.backups }
