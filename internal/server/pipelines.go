package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/MinhVu0109/GrokFilter_V2/engine_grok_by_golang/compiler"
	rt "github.com/MinhVu0109/GrokFilter_V2/engine_grok_by_golang/runtime"
	"github.com/MinhVu0109/GrokFilter_V2/internal/pipelines"
)

// LoadPipelinesFromDir walks a directory recursively, compiles all .yml/.yaml
// definition files, persists each pipeline, and swaps in a fresh engine.
// Returns (loaded_count, skipped_count, error).
func (s *AppServer) LoadPipelinesFromDir(ctx context.Context, dir string) (int, int, error) {
	sources, err := pipelines.LoadDirRecursive(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("walk dir: %w", err)
	}
	c := compiler.New()
	loaded, skipped := 0, 0
	for _, src := range sources {
		names, cerr := c.CompileDefinition(string(src.Data))
		if cerr != nil {
			// Skip broken definitions but keep going.
			log.Printf("skip %s: %v", src.Path, cerr)
			skipped++
			continue
		}
		for _, name := range names {
			if uerr := s.persistPipeline(ctx, name, string(src.Data)); uerr != nil {
				return loaded, skipped, fmt.Errorf("upsert pipeline %q: %w", name, uerr)
			}
		}
		loaded++
	}
	set := c.IntoSet()
	eng, err := rt.FromSet(set, s.cfg)
	if err != nil {
		return loaded, skipped, err
	}
	s.swapEngine(eng)
	log.Printf("pipelines loaded: files=%d skipped=%d pipelines=%d chains=%d prefilter_patterns=%d",
		loaded, skipped, set.PipelineCount(), set.ChainCount(), eng.PrefilterPatternCount())
	return loaded, skipped, nil
}

func (s *AppServer) persistPipeline(ctx context.Context, name, definition string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO pipelines(name, definition, updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (name) DO UPDATE SET definition=EXCLUDED.definition, updated_at=EXCLUDED.updated_at`,
		name, definition, time.Now().UTC(),
	)
	return err
}

// rebuildFromDB compiles every stored definition and swaps the engine.
func (s *AppServer) rebuildFromDB(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, `SELECT name, definition FROM pipelines ORDER BY name`)
	if err != nil {
		return err
	}
	defer rows.Close()
	c := compiler.New()
	for rows.Next() {
		var name, definition string
		if err := rows.Scan(&name, &definition); err != nil {
			return err
		}
		if _, err := c.CompileDefinition(definition); err != nil {
			// A stored definition compiled once; if it no longer does,
			// surface it rather than silently dropping pipelines.
			return fmt.Errorf("stored pipeline %q: %w", name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	eng, err := rt.FromSet(c.IntoSet(), s.cfg)
	if err != nil {
		return err
	}
	s.swapEngine(eng)
	return nil
}

func (s *AppServer) listPipelines(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.QueryContext(r.Context(), `SELECT name, definition, updated_at FROM pipelines ORDER BY name`)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	defer rows.Close()
	type pipe struct {
		Name       string    `json:"name"`
		Definition string    `json:"definition"`
		UpdatedAt  time.Time `json:"updated_at"`
	}
	out := []pipe{}
	for rows.Next() {
		var p pipe
		if err := rows.Scan(&p.Name, &p.Definition, &p.UpdatedAt); err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// upsertPipelines takes a raw YAML definition body, compiles it, persists the
// contained pipelines, and rebuilds the engine from the full stored set.
// Compile errors come back as 400 with the offending filter named.
func (s *AppServer) upsertPipelines(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	c := compiler.New()
	names, err := c.CompileDefinition(string(body))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err)
		return
	}
	for _, name := range names {
		if err := s.persistPipeline(r.Context(), name, string(body)); err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
	}
	if err := s.rebuildFromDB(r.Context()); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"compiled": names})
}
