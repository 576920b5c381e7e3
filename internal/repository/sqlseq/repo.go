// Package sqlseq resolves sequences from a SQL table, on SQLite or PostgreSQL.
package sqlseq

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	domseq "github.com/kailas-cloud/hitreport/internal/domain/sequence"
)

// Dialect selects placeholder syntax and the database/sql driver.
type Dialect string

const (
	// SQLite uses modernc.org/sqlite.
	SQLite Dialect = "sqlite"
	// Postgres uses pgx through database/sql.
	Postgres Dialect = "postgres"
)

func (d Dialect) driverName() (string, error) {
	switch d {
	case SQLite:
		return "sqlite", nil
	case Postgres:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", d)
	}
}

func (d Dialect) placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

const schema = `CREATE TABLE IF NOT EXISTS sequences (
	database_id TEXT NOT NULL,
	accession   TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	residues    TEXT NOT NULL,
	PRIMARY KEY (database_id, accession)
)`

// Repo resolves accessions from the sequences table.
type Repo struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to dsn and creates the sequences table if needed.
func Open(ctx context.Context, dialect Dialect, dsn string) (*Repo, error) {
	driver, err := dialect.driverName()
	if err != nil {
		return nil, err
	}
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}
	if dialect == SQLite {
		// A single connection keeps :memory: databases shared.
		conn.SetMaxOpenConns(1)
	}
	r := New(conn, dialect)
	if err := r.Migrate(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return r, nil
}

// New wraps an open database.
func New(db *sql.DB, dialect Dialect) *Repo {
	return &Repo{db: db, dialect: dialect}
}

// Migrate creates the sequences table.
func (r *Repo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create sequences table: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", r.dialect, err)
	}
	return nil
}

// Close closes the database.
func (r *Repo) Close() error { return r.db.Close() }

// Resolve looks accessions up and keeps, per accession, the first database
// in databaseIDs order that holds it.
func (r *Repo) Resolve(ctx context.Context, accessions, databaseIDs []string) (map[string]domseq.Sequence, error) {
	out := make(map[string]domseq.Sequence, len(accessions))
	if len(accessions) == 0 || len(databaseIDs) == 0 {
		return out, nil
	}

	args := make([]any, 0, len(accessions)+len(databaseIDs))
	accIn := r.in(&args, accessions)
	dbIn := r.in(&args, databaseIDs)
	query := "SELECT database_id, accession, title, residues FROM sequences" +
		" WHERE accession IN (" + accIn + ") AND database_id IN (" + dbIn + ")"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sequences: %w", err)
	}
	defer func() { _ = rows.Close() }()

	rank := make(map[string]int, len(databaseIDs))
	for i, id := range databaseIDs {
		if _, ok := rank[id]; !ok {
			rank[id] = i
		}
	}
	best := make(map[string]int, len(accessions))
	for rows.Next() {
		var dbID, acc, title, residues string
		if err := rows.Scan(&dbID, &acc, &title, &residues); err != nil {
			return nil, fmt.Errorf("scan sequence: %w", err)
		}
		if prev, ok := best[acc]; ok && prev <= rank[dbID] {
			continue
		}
		best[acc] = rank[dbID]
		out[acc] = domseq.Reconstruct(acc, title, residues, dbID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sequences: %w", err)
	}
	return out, nil
}

// Put upserts seqs in one transaction.
func (r *Repo) Put(ctx context.Context, seqs []domseq.Sequence) (retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO sequences (database_id, accession, title, residues) VALUES (%s, %s, %s, %s)
		ON CONFLICT (database_id, accession) DO UPDATE SET title = excluded.title, residues = excluded.residues`,
		r.dialect.placeholder(1), r.dialect.placeholder(2), r.dialect.placeholder(3), r.dialect.placeholder(4),
	))
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, s := range seqs {
		if _, err := stmt.ExecContext(ctx, s.DatabaseID(), s.ID(), s.Title(), s.Residues()); err != nil {
			return fmt.Errorf("upsert %s/%s: %w", s.DatabaseID(), s.ID(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *Repo) in(args *[]any, values []string) string {
	ph := make([]string, len(values))
	for i, v := range values {
		*args = append(*args, v)
		ph[i] = r.dialect.placeholder(len(*args))
	}
	return strings.Join(ph, ", ")
}
