package osmio

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wegman-software/osmfilter-go/internal/config"
	"github.com/wegman-software/osmfilter-go/internal/filter"
)

// PGWriter streams matched objects into a PostgreSQL table via COPY, in
// the teacher's internal/loader.Loader connect-then-CopyFrom style,
// generalized from a fixed geometry schema to osmfilter's tag/member
// shape.
type PGWriter struct {
	ctx     context.Context
	pool    *pgxpool.Pool
	table   string
	rows    chan []any
	done    chan error
	copyErr error
}

// NewPGWriter connects to cfg's database and starts a background COPY
// into cfg.DBTable, creating it (UNLOGGED, matching the teacher's
// loader) if it does not already exist.
func NewPGWriter(ctx context.Context, cfg *config.Config) (*PGWriter, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("osmio: connect postgres: %w", err)
	}

	createSQL := fmt.Sprintf(`
		CREATE UNLOGGED TABLE IF NOT EXISTS %s (
			osm_kind  TEXT NOT NULL,
			osm_id    BIGINT NOT NULL,
			version   BIGINT NOT NULL,
			changeset BIGINT NOT NULL,
			uid       BIGINT NOT NULL,
			username  TEXT,
			visible   BOOLEAN NOT NULL,
			tags      JSONB
		)`, cfg.DBTable)
	if _, err := pool.Exec(ctx, createSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("osmio: create table %s: %w", cfg.DBTable, err)
	}

	w := &PGWriter{
		ctx: ctx, pool: pool, table: cfg.DBTable,
		rows: make(chan []any, 1000), done: make(chan error, 1),
	}
	go w.copyLoop()
	return w, nil
}

func (w *PGWriter) copyLoop() {
	columns := []string{"osm_kind", "osm_id", "version", "changeset", "uid", "username", "visible", "tags"}
	_, err := w.pool.CopyFrom(w.ctx, pgx.Identifier{w.table}, columns, &rowSource{rows: w.rows})
	w.done <- err
}

// Write enqueues a row for the COPY goroutine.
func (w *PGWriter) Write(obj *filter.Object) error {
	tagsJSON, err := tagsToJSONB(obj.Tags)
	if err != nil {
		return fmt.Errorf("osmio: marshal tags: %w", err)
	}
	row := []any{obj.Kind.String(), obj.ID, obj.Version, obj.Changeset, obj.UID, obj.User, obj.Visible, tagsJSON}
	select {
	case w.rows <- row:
		return nil
	case err := <-w.done:
		w.copyErr = err
		return fmt.Errorf("osmio: copy failed: %w", err)
	}
}

// Close finishes the COPY and releases the connection pool.
func (w *PGWriter) Close() error {
	if w.copyErr == nil {
		close(w.rows)
		w.copyErr = <-w.done
	}
	w.pool.Close()
	if w.copyErr != nil {
		return fmt.Errorf("osmio: copy failed: %w", w.copyErr)
	}
	return nil
}

func tagsToJSONB(tags []filter.Tag) ([]byte, error) {
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[t.Key] = t.Value
	}
	return json.Marshal(m)
}

// rowSource implements pgx.CopyFromSource, mirroring the teacher's
// internal/loader.rowSource.
type rowSource struct {
	rows    <-chan []any
	current []any
}

func (r *rowSource) Next() bool {
	row, ok := <-r.rows
	if !ok {
		return false
	}
	r.current = row
	return true
}

func (r *rowSource) Values() ([]any, error) { return r.current, nil }
func (r *rowSource) Err() error             { return nil }
