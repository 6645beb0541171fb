package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Postgres finds records in a PostgreSQL refs table with a JSONB body
// column, the layout the dataset indexers populate.
type Postgres struct {
	db *sql.DB
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// EnsureSchema creates the refs table when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS refs (
			dataset text NOT NULL,
			ref text NOT NULL,
			body jsonb NOT NULL,
			latest_date timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (dataset, ref)
		)
	`
	if _, err := p.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure refs schema: %w", err)
	}
	return nil
}

// Put upserts one physical record.
func (p *Postgres) Put(ctx context.Context, r Ref) error {
	body, err := json.Marshal(r.Body)
	if err != nil {
		return fmt.Errorf("encode ref body: %w", err)
	}
	when := r.LatestDate
	if when.IsZero() {
		when = time.Now()
	}
	query := `
		INSERT INTO refs (dataset, ref, body, latest_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (dataset, ref) DO UPDATE SET
			body = EXCLUDED.body,
			latest_date = EXCLUDED.latest_date
	`
	if _, err := p.db.ExecContext(ctx, query, r.Dataset, r.Reference, body, when); err != nil {
		return fmt.Errorf("put ref: %w", err)
	}
	return nil
}

// ByDocID returns records whose body carries a docid entry containing
// every field of query, newest first.
func (p *Postgres) ByDocID(ctx context.Context, query map[string]any) ([]Ref, error) {
	arg, err := json.Marshal([]any{query})
	if err != nil {
		return nil, fmt.Errorf("encode docid query: %w", err)
	}
	rows, err := p.db.QueryContext(ctx, `
		SELECT dataset, ref, body, latest_date
		FROM refs
		WHERE body->'docid' @> $1::jsonb
		ORDER BY latest_date DESC
	`, arg)
	if err != nil {
		return nil, fmt.Errorf("query refs by docid: %w", err)
	}
	return scanRefs(rows)
}

// ByJSONPath returns records whose body satisfies a jsonpath predicate,
// newest first. The expression reaches PostgreSQL unvalidated; wrap
// calls in SuppressingUserInputError when the expression is user input.
func (p *Postgres) ByJSONPath(ctx context.Context, expr string) ([]Ref, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT dataset, ref, body, latest_date
		FROM refs
		WHERE body @@ $1::jsonpath
		ORDER BY latest_date DESC
	`, expr)
	if err != nil {
		return nil, fmt.Errorf("query refs by jsonpath: %w", err)
	}
	return scanRefs(rows)
}

func scanRefs(rows *sql.Rows) ([]Ref, error) {
	defer rows.Close()
	var out []Ref
	for rows.Next() {
		var r Ref
		var body []byte
		if err := rows.Scan(&r.Dataset, &r.Reference, &body, &r.LatestDate); err != nil {
			return nil, fmt.Errorf("scan ref: %w", err)
		}
		if err := json.Unmarshal(body, &r.Body); err != nil {
			return nil, fmt.Errorf("decode ref body: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate refs: %w", err)
	}
	return out, nil
}
