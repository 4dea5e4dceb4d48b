package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	rt "github.com/MinhVu0109/GrokFilter_V2/engine_grok_by_golang/runtime"
)

// InitSchema creates the tables the server needs. Safe to run repeatedly.
func (s *AppServer) InitSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS pipelines (
			name       text PRIMARY KEY,
			definition text NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS filter_failures (
			id          bigserial PRIMARY KEY,
			occurred_at timestamptz NOT NULL DEFAULT now(),
			pipeline    text NOT NULL,
			field       text NOT NULL,
			filter      text NOT NULL,
			value       text NOT NULL,
			error       text NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *AppServer) insertFailure(ctx context.Context, f rt.FieldFailure) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO filter_failures(pipeline, field, filter, value, error)
		VALUES ($1,$2,$3,$4,$5)`,
		f.Pipeline, f.Field, f.Filter, f.Value, f.Error,
	)
	return err
}

func (s *AppServer) handleListFailures(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 200
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	rows, err := s.db.QueryContext(r.Context(), `SELECT id, occurred_at, pipeline, field, filter, value, error FROM filter_failures ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()
	type failure struct {
		ID         int64     `json:"id"`
		OccurredAt time.Time `json:"occurred_at"`
		Pipeline   string    `json:"pipeline"`
		Field      string    `json:"field"`
		Filter     string    `json:"filter"`
		Value      string    `json:"value"`
		Error      string    `json:"error"`
	}
	out := []failure{}
	for rows.Next() {
		var f failure
		if err := rows.Scan(&f.ID, &f.OccurredAt, &f.Pipeline, &f.Field, &f.Filter, &f.Value, &f.Error); err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
