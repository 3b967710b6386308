// Package store persists discussions with bun and answers the list queries
// of the API, computing the total count of a query alongside its window.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-discussion-pager/forum"
	"github.com/goliatone/go-discussion-pager/repositorycount"
)

var _ repositorycount.Lister[*Discussion] = (*Repository)(nil)

// Supported drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Open connects to dsn with driver and returns a bun handle using the
// matching dialect.
func Open(driver, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	switch driver {
	case DriverSQLite:
		// a single connection keeps in-memory databases alive and shared
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case DriverPostgres:
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		_ = sqldb.Close()
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
}

// Repository reads and writes discussions.
type Repository struct {
	db *bun.DB
}

// New creates a repository over db.
func New(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// CreateSchema creates the discussions table when missing.
func (r *Repository) CreateSchema(ctx context.Context) error {
	_, err := r.db.NewCreateTable().Model((*Discussion)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	return nil
}

// Insert stores records.
func (r *Repository) Insert(ctx context.Context, records ...*Discussion) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := r.db.NewInsert().Model(&records).Exec(ctx); err != nil {
		return fmt.Errorf("store: insert: %w", err)
	}
	return nil
}

// List returns the window selected by criteria together with the number of
// rows the query matches without its offset and limit.
func (r *Repository) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]*Discussion, int, error) {
	records := []*Discussion{}
	q := r.db.NewSelect().Model(&records)
	for _, c := range criteria {
		q = c(q)
	}
	total, err := q.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list: %w", err)
	}
	return records, total, nil
}

// GetByID loads a single discussion. Missing rows yield forum.ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (*Discussion, error) {
	record := new(Discussion)
	q := r.db.NewSelect().Model(record).Where("d.id = ?", id)
	for _, c := range criteria {
		q = c(q)
	}
	if err := q.Limit(1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, forum.ErrNotFound
		}
		return nil, fmt.Errorf("store: get %s: %w", id, err)
	}
	return record, nil
}

// Seed creates the schema and inserts items.
func Seed(ctx context.Context, db *bun.DB, items []*forum.Discussion) (*Repository, error) {
	repo := New(db)
	if err := repo.CreateSchema(ctx); err != nil {
		return nil, err
	}
	rows := make([]*Discussion, 0, len(items))
	for _, d := range items {
		rows = append(rows, FromForum(d))
	}
	if err := repo.Insert(ctx, rows...); err != nil {
		return nil, err
	}
	return repo, nil
}
