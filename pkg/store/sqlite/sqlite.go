// Package sqlite provides a SQLite-backed property store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/homevista/property-listings/pkg/property"
	"github.com/homevista/property-listings/pkg/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS property (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price REAL NOT NULL DEFAULT 0,
	location TEXT NOT NULL DEFAULT '',
	created_ts INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_property_created_ts ON property (created_ts DESC);
`

// DB implements store.Store on SQLite.
type DB struct {
	db *sql.DB
}

var _ store.Store = (*DB)(nil)

// Open opens (or creates) the SQLite database at path and applies the
// schema. Use ":memory:" for an ephemeral database in tests.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping sqlite db")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}
	return &DB{db: db}, nil
}

// Close closes the underlying database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) CreateProperty(ctx context.Context, create *property.Property) (*property.Property, error) {
	if err := create.Validate(); err != nil {
		return nil, err
	}
	createdTs := time.Now().UTC().UnixMilli()

	stmt := `INSERT INTO property (title, description, price, location, created_ts)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.Title,
		create.Description,
		create.Price,
		create.Location,
		createdTs,
	).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	create.CreatedAt = time.UnixMilli(createdTs).UTC()
	return create, nil
}

func (d *DB) ListProperties(ctx context.Context) ([]*property.Property, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, title, description, price, location, created_ts
		FROM property
		ORDER BY created_ts DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	list := make([]*property.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate properties: %w", err)
	}
	return list, nil
}

func (d *DB) GetProperty(ctx context.Context, id int64) (*property.Property, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, title, description, price, location, created_ts
		FROM property WHERE id = ?`, id)
	return scanPropertyRow(row)
}

func (d *DB) GetPropertyByTitle(ctx context.Context, title string) (*property.Property, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, title, description, price, location, created_ts
		FROM property WHERE title = ?
		ORDER BY created_ts DESC, id DESC LIMIT 1`, title)
	return scanPropertyRow(row)
}

func (d *DB) UpdateProperty(ctx context.Context, update *store.UpdateProperty) (*property.Property, error) {
	set, args := []string{}, []any{}
	if v := update.Title; v != nil {
		set, args = append(set, "title = ?"), append(args, *v)
	}
	if v := update.Description; v != nil {
		set, args = append(set, "description = ?"), append(args, *v)
	}
	if v := update.Price; v != nil {
		if *v < 0 {
			return nil, fmt.Errorf("price must be non-negative (got %v)", *v)
		}
		set, args = append(set, "price = ?"), append(args, *v)
	}
	if v := update.Location; v != nil {
		set, args = append(set, "location = ?"), append(args, *v)
	}
	if len(set) == 0 {
		return d.GetProperty(ctx, update.ID)
	}

	stmt := "UPDATE property SET "
	for i, s := range set {
		if i > 0 {
			stmt += ", "
		}
		stmt += s
	}
	stmt += " WHERE id = ?"
	args = append(args, update.ID)

	result, err := d.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	return d.GetProperty(ctx, update.ID)
}

func (d *DB) DeleteProperty(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, `DELETE FROM property WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (d *DB) CountProperties(ctx context.Context) (int, error) {
	var count int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM property`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(s rowScanner) (*property.Property, error) {
	var p property.Property
	var createdTs int64
	if err := s.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &p.Location, &createdTs); err != nil {
		return nil, fmt.Errorf("failed to scan property: %w", err)
	}
	p.CreatedAt = time.UnixMilli(createdTs).UTC()
	return &p, nil
}

func scanPropertyRow(row *sql.Row) (*property.Property, error) {
	p, err := scanProperty(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
