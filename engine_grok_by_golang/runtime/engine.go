package runtime

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/tidwall/gjson"

	engine "github.com/MinhVu0109/GrokFilter_V2/engine_grok_by_golang"
	"github.com/MinhVu0109/GrokFilter_V2/engine_grok_by_golang/compiler"
	"github.com/MinhVu0109/GrokFilter_V2/engine_grok_by_golang/filter"
)

// Engine applies compiled pipelines to JSON records. It holds no per-record
// state beyond atomic counters, so a single Engine may serve concurrent
// Transform calls.
type Engine struct {
	cfg       engine.EngineConfig
	pipelines []compiler.Pipeline
	prefilter LiteralPrefilter

	records         atomic.Int64
	fieldsOut       atomic.Int64
	filterFailures  atomic.Int64
	prefilterHits   atomic.Int64
	prefilterMisses atomic.Int64
}

// FromSet builds an engine from a compiled pipeline set.
func FromSet(set *compiler.PipelineSet, cfg engine.EngineConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, p := range set.Pipelines {
		for _, ch := range p.Chains {
			if len(ch.Filters) > cfg.MaxChainLength {
				return nil, fmt.Errorf("EngineError: pipeline %q field %q: chain length %d exceeds limit %d",
					p.Name, ch.Field, len(ch.Filters), cfg.MaxChainLength)
			}
		}
	}
	pfCfg := DefaultPrefilterConfig()
	pfCfg.Enabled = cfg.EnablePrefilter
	return &Engine{
		cfg:       cfg,
		pipelines: set.Pipelines,
		prefilter: PrefilterFromPipelines(set.Pipelines, pfCfg),
	}, nil
}

// FieldFailure reports one filter chain that failed at runtime. The record
// itself is still transformed unless the policy is FailureFailRecord.
type FieldFailure struct {
	Pipeline string `json:"pipeline"`
	Field    string `json:"field"`
	Filter   string `json:"filter"`
	Value    string `json:"value"`
	Error    string `json:"error"`
}

type TransformResult struct {
	// Output maps each configured field path to its final value. Fields
	// missing from the record are omitted.
	Output   map[string]any `json:"output"`
	Failures []FieldFailure `json:"failures,omitempty"`
	// Skipped is set when the prefilter proved no configured field key
	// occurs in the record.
	Skipped bool `json:"skipped,omitempty"`
}

// Transform runs every pipeline's field chains against one JSON record.
func (e *Engine) Transform(raw []byte) (*TransformResult, error) {
	e.records.Add(1)
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("TransformError: invalid JSON record")
	}
	res := &TransformResult{Output: map[string]any{}}
	if !e.prefilter.MatchesRaw(string(raw)) {
		e.prefilterMisses.Add(1)
		res.Skipped = true
		return res, nil
	}
	e.prefilterHits.Add(1)

	for _, p := range e.pipelines {
		for _, ch := range p.Chains {
			got := gjson.GetBytes(raw, ch.Field)
			if !got.Exists() {
				continue
			}
			val := valueFromResult(got)
			failed := false
			for _, fl := range ch.Filters {
				next, err := filter.Apply(val, fl)
				if err != nil {
					e.filterFailures.Add(1)
					res.Failures = append(res.Failures, FieldFailure{
						Pipeline: p.Name,
						Field:    ch.Field,
						Filter:   fl.String(),
						Value:    val.String(),
						Error:    err.Error(),
					})
					failed = true
					break
				}
				val = next
			}
			if failed {
				switch e.cfg.FailurePolicy {
				case engine.FailureFailRecord:
					return res, fmt.Errorf("TransformError: pipeline %q field %q: filter chain failed", p.Name, ch.Field)
				case engine.FailureKeepOriginal:
					res.Output[ch.Field] = valueFromResult(got).ToInterface()
				}
				// DropField: omit from output.
				continue
			}
			res.Output[ch.Field] = val.ToInterface()
			e.fieldsOut.Add(1)
		}
	}
	return res, nil
}

// valueFromResult wraps an extracted gjson result as a core Value. Strings
// become the byte-string variant, matching what upstream extraction hands the
// filter core.
func valueFromResult(r gjson.Result) engine.Value {
	switch r.Type {
	case gjson.String:
		return engine.StringValue(r.Str)
	case gjson.Number:
		if i, err := strconv.ParseInt(r.Raw, 10, 64); err == nil {
			return engine.IntegerValue(i)
		}
		return engine.FloatValue(r.Num)
	case gjson.True:
		return engine.BooleanValue(true)
	case gjson.False:
		return engine.BooleanValue(false)
	case gjson.Null:
		return engine.NullValue()
	default:
		// Objects and arrays come back through the generic bridge.
		return engine.FromJSON(r.Value())
	}
}

type EngineStats struct {
	Records         int64 `json:"records"`
	FieldsOut       int64 `json:"fields_out"`
	FilterFailures  int64 `json:"filter_failures"`
	PrefilterHits   int64 `json:"prefilter_hits"`
	PrefilterMisses int64 `json:"prefilter_misses"`
	PipelineCount   int   `json:"pipeline_count"`
	ChainCount      int   `json:"chain_count"`
}

func (e *Engine) Stats() EngineStats {
	chains := 0
	for _, p := range e.pipelines {
		chains += len(p.Chains)
	}
	return EngineStats{
		Records:         e.records.Load(),
		FieldsOut:       e.fieldsOut.Load(),
		FilterFailures:  e.filterFailures.Load(),
		PrefilterHits:   e.prefilterHits.Load(),
		PrefilterMisses: e.prefilterMisses.Load(),
		PipelineCount:   len(e.pipelines),
		ChainCount:      chains,
	}
}

func (e *Engine) PipelineCount() int { return len(e.pipelines) }

func (e *Engine) PrefilterPatternCount() int { return e.prefilter.Stats().PatternCount }
