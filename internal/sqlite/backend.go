// Package sqlite implements the SQL storage backend for the notebook.
// SQLite is the default engine; in that mode the JSONL files in DataDir are
// the source of truth and the database is rebuilt from them on Attach.
// The same tables also run against PostgreSQL, where the database itself is
// authoritative and no JSONL is written.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/notebook/pkg/types"
)

// dbFileName is the SQLite database file created inside DataDir.
const dbFileName = "notebook.db"

// Backend implements the Store interface on top of a SQL database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sqlx.DB
	sb       sq.StatementBuilderType
	tables   map[string]types.Table
}

var _ types.Store = (*Backend)(nil)

// NewBackend creates a new backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		tables: make(map[string]types.Table),
	}
}

// GetTable returns a Table interface for the specified table name.
// Returns ErrTableNotFound if the table name is not recognized.
// Returns ErrStoreDetached if the backend is not attached.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	table, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return table, nil
}

// Attach initializes the backend with the given configuration.
// For sqlite it creates DataDir if needed, recreates the database file,
// and loads every JSONL file into it. For postgres it opens the DSN and
// creates missing tables.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	var (
		db  *sqlx.DB
		err error
	)
	switch config.Backend {
	case types.BackendSQLite:
		if config.DataDir == "" {
			config.DataDir = "."
		}
		if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
			return err
		}

		// The database is a cache of the JSONL files; start from scratch.
		dbPath := filepath.Join(config.DataDir, dbFileName)
		_ = os.Remove(dbPath)

		db, err = sqlx.Open("sqlite", dbPath)
		if err != nil {
			return err
		}
		db.SetMaxOpenConns(1)
	case types.BackendPostgres:
		db, err = sqlx.Open("postgres", config.DSN)
		if err != nil {
			return err
		}
	}

	if err := b.attachDB(context.Background(), db, config); err != nil {
		db.Close()
		return err
	}
	return nil
}

// attachDB creates the schema on db, loads JSONL when the backend persists
// to files, and registers the table accessors. The caller must hold b.mu.
func (b *Backend) attachDB(ctx context.Context, db *sqlx.DB, config types.Config) error {
	for _, stmt := range schemaDDL {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.sb = sq.StatementBuilder.PlaceholderFormat(placeholderFormat(config.Backend))

	if b.persistsJSONL() {
		if err := initJSONLFiles(config.DataDir); err != nil {
			return err
		}
		if err := loadAllJSONL(ctx, db, b.sb, config.DataDir); err != nil {
			return fmt.Errorf("load JSONL: %w", err)
		}
	}

	b.tables[types.CategoriesTable] = &categoriesTable{backend: b}
	b.tables[types.NotesTable] = &notesTable{backend: b}
	b.tables[types.TagsTable] = &tagsTable{backend: b}
	b.attached = true
	return nil
}

// Detach releases all resources held by the backend. After Detach, all
// operations return ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.tables = make(map[string]types.Table)
	return nil
}

// lockRead takes the shared lock for a read and returns its release func.
func (b *Backend) lockRead() (func(), error) {
	b.mu.RLock()
	if !b.attached {
		b.mu.RUnlock()
		return nil, types.ErrStoreDetached
	}
	return b.mu.RUnlock, nil
}

// lockWrite takes the exclusive lock for a write. Writes are serialized so
// that the JSONL snapshot written after each one matches the database.
func (b *Backend) lockWrite() (func(), error) {
	b.mu.Lock()
	if !b.attached {
		b.mu.Unlock()
		return nil, types.ErrStoreDetached
	}
	return b.mu.Unlock, nil
}

// persistsJSONL reports whether writes are mirrored to JSONL files.
func (b *Backend) persistsJSONL() bool {
	return b.config.Backend == types.BackendSQLite
}

// placeholderFormat returns the bind variable style for the backend.
func placeholderFormat(backend string) sq.PlaceholderFormat {
	if backend == types.BackendPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// newUUID generates a UUID v7 string.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
