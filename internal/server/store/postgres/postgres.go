// Package postgres implements store.Store on PostgreSQL for environments
// without DynamoDB. Every logical table shares one JSONB table, items, keyed
// by (tbl, id); merge updates are expressed with jsonb_set.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/astdirectory/internal/common"
	"github.com/dmitrijs2005/astdirectory/internal/server/migrations"
	"github.com/dmitrijs2005/astdirectory/internal/server/store"
)

// DBTX is the subset of database/sql used by Store. Both *sql.DB and *sql.Tx
// satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Store is a PostgreSQL-backed store.Store.
type Store struct {
	db DBTX
}

// New constructs a Store bound to db.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// Open opens a pgx-backed *sql.DB for dsn.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return db, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (s *Store) Scan(ctx context.Context, table string) ([]store.Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc FROM items WHERE tbl = $1`, table)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}
	return collect(rows)
}

func (s *Store) Query(ctx context.Context, table string, key store.Key) ([]store.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM items WHERE tbl = $1 AND id = $2 AND doc ->> $3 = $2`,
		table, key.Value, key.Name)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	return collect(rows)
}

func (s *Store) Put(ctx context.Context, table string, key store.Key, item store.Document, cond store.Condition) error {
	doc, err := store.ToDocument(item)
	if err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}
	if doc == nil {
		doc = store.Document{}
	}
	doc[key.Name] = key.Value

	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}

	if cond == store.MustExist {
		res, err := s.db.ExecContext(ctx,
			`UPDATE items SET doc = $3::jsonb, updated_at = now() WHERE tbl = $1 AND id = $2`,
			table, key.Value, string(b))
		if err != nil {
			return fmt.Errorf("put %s: %w", table, err)
		}
		return expectOne(res, table, key)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO items (tbl, id, doc)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (tbl, id)
		DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		table, key.Value, string(b))
	if err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, table string, key store.Key, set []store.Assignment) error {
	if len(set) == 0 {
		return fmt.Errorf("update %s: no assignments", table)
	}

	args := []any{table, key.Value}
	expr := "doc"
	for _, a := range set {
		if len(a.Path) == 0 {
			return fmt.Errorf("update %s: empty update path", table)
		}
		v, err := json.Marshal(a.Value)
		if err != nil {
			return fmt.Errorf("update %s: %w", table, err)
		}
		args = append(args, textArray(a.Path), string(v))
		expr = fmt.Sprintf("jsonb_set(%s, $%d::text[], $%d::jsonb, true)", expr, len(args)-1, len(args))
	}

	query := fmt.Sprintf(`UPDATE items SET doc = %s, updated_at = now() WHERE tbl = $1 AND id = $2`, expr)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return expectOne(res, table, key)
}

func expectOne(res sql.Result, table string, key store.Key) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return fmt.Errorf("%s %s=%s: %w", table, key.Name, key.Value, common.ErrorNotFound)
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

func collect(rows *sql.Rows) ([]store.Document, error) {
	defer rows.Close()

	out := []store.Document{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc store.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// textArray renders path as a PostgreSQL text[] literal with every element quoted.
func textArray(path []string) string {
	quoted := make([]string, len(path))
	for i, p := range path {
		p = strings.ReplaceAll(p, `\`, `\\`)
		p = strings.ReplaceAll(p, `"`, `\"`)
		quoted[i] = `"` + p + `"`
	}
	return "{" + strings.Join(quoted, ",") + "}"
}
