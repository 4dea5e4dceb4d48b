package server

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"

	engine "github.com/MinhVu0109/GrokFilter_V2/engine_grok_by_golang"
	rt "github.com/MinhVu0109/GrokFilter_V2/engine_grok_by_golang/runtime"
)

type AppServer struct {
	db     *sql.DB
	cfg    engine.EngineConfig
	mu     sync.RWMutex // protects engine swap
	engine *rt.Engine
}

func NewAppServer(db *sql.DB, eng *rt.Engine, cfg engine.EngineConfig) *AppServer {
	return &AppServer{db: db, engine: eng, cfg: cfg}
}

// RegisterRoutes wires HTTP handlers.
func (s *AppServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/pipelines", s.handlePipelines)
	mux.HandleFunc("/api/v1/transform", s.handleTransform)
	mux.HandleFunc("/api/v1/failures", s.handleListFailures)
}

func (s *AppServer) currentEngine() *rt.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

func (s *AppServer) swapEngine(e *rt.Engine) {
	s.mu.Lock()
	s.engine = e
	s.mu.Unlock()
}

// ---- Handlers ----

func (s *AppServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (s *AppServer) handleStats(w http.ResponseWriter, r *http.Request) {
	eng := s.currentEngine()
	type statsResp struct {
		rt.EngineStats
		PrefilterPatterns int    `json:"prefilter_patterns"`
		FailurePolicy     string `json:"failure_policy"`
	}
	writeJSON(w, http.StatusOK, statsResp{
		EngineStats:       eng.Stats(),
		PrefilterPatterns: eng.PrefilterPatternCount(),
		FailurePolicy:     s.cfg.FailurePolicy.String(),
	})
}

// handlePipelines lists stored definitions on GET and upserts a YAML
// definition on POST. A successful POST persists the source and swaps in an
// engine rebuilt from everything stored.
func (s *AppServer) handlePipelines(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listPipelines(w, r)
	case http.MethodPost:
		s.upsertPipelines(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleTransform accepts a JSON object or an array of objects and returns
// the transformed record(s) plus any per-field filter failures.
func (s *AppServer) handleTransform(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var payload json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err))
		return
	}

	records := [][]byte{}
	if isJSONArray(payload) {
		var items []json.RawMessage
		if err := json.Unmarshal(payload, &items); err != nil {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid JSON array: %w", err))
			return
		}
		for _, it := range items {
			records = append(records, it)
		}
	} else {
		records = append(records, payload)
	}

	eng := s.currentEngine()
	type recordResp struct {
		Index int `json:"index"`
		*rt.TransformResult
		Error string `json:"error,omitempty"`
	}
	out := struct {
		Accepted int          `json:"accepted"`
		Failed   int          `json:"failed"`
		Results  []recordResp `json:"results"`
	}{}

	for i, raw := range records {
		res, err := eng.Transform(raw)
		rr := recordResp{Index: i, TransformResult: res}
		if err != nil {
			rr.Error = err.Error()
			out.Failed++
		} else {
			out.Accepted++
		}
		if res != nil {
			for _, ff := range res.Failures {
				// Audit trail is best-effort; a dead DB must not fail
				// the transform.
				if err := s.insertFailure(r.Context(), ff); err != nil {
					log.Printf("persist failure row: %v", err)
				}
			}
		}
		out.Results = append(out.Results, rr)
	}
	writeJSON(w, http.StatusOK, out)
}

func isJSONArray(raw json.RawMessage) bool {
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

// ---- helpers ----

func writeJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}

func writeErr(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
