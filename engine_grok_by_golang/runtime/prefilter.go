package runtime

import (
	ac "github.com/petar-dambovaliev/aho-corasick"

	"github.com/MinhVu0109/GrokFilter_V2/engine_grok_by_golang/compiler"
)

// Literal prefilter over configured field keys. A record whose raw JSON
// contains none of the quoted keys cannot produce any extraction, so the
// whole transform pass can be skipped without parsing.

type PrefilterStats struct {
	PatternCount         int     `json:"pattern_count"`
	PipelineCount        int     `json:"pipeline_count"`
	EstimatedSelectivity float64 `json:"estimated_selectivity"`
}

type PrefilterConfig struct {
	// ASCII case-insensitive matching inside the automaton.
	CaseInsensitive bool `json:"case_insensitive"`
	// Keys shorter than this are not worth prefiltering on.
	MinPatternLength int  `json:"min_pattern_length"`
	Enabled          bool `json:"enabled"`
}

func DefaultPrefilterConfig() PrefilterConfig {
	return PrefilterConfig{
		CaseInsensitive:  false,
		MinPatternLength: 1,
		Enabled:          true,
	}
}

type LiteralPrefilter struct {
	ac       *ac.AhoCorasick
	patterns []string
	stats    PrefilterStats
	cfg      PrefilterConfig
}

func (p *LiteralPrefilter) Stats() PrefilterStats { return p.stats }

// PrefilterFromPipelines builds the automaton from the first path segment of
// every configured field, rendered as a quoted JSON key.
func PrefilterFromPipelines(pipelines []compiler.Pipeline, cfg PrefilterConfig) LiteralPrefilter {
	if !cfg.Enabled {
		return LiteralPrefilter{cfg: cfg, stats: PrefilterStats{EstimatedSelectivity: 1.0}}
	}

	dedupe := make(map[string]bool)
	patterns := make([]string, 0)
	for _, p := range pipelines {
		for _, ch := range p.Chains {
			key := topLevelKey(ch.Field)
			if len(key) < cfg.MinPatternLength {
				continue
			}
			quoted := `"` + key + `"`
			if dedupe[quoted] {
				continue
			}
			dedupe[quoted] = true
			patterns = append(patterns, quoted)
		}
	}

	stats := PrefilterStats{
		PatternCount:         len(patterns),
		PipelineCount:        len(pipelines),
		EstimatedSelectivity: estimateSelectivity(len(patterns)),
	}

	var automaton *ac.AhoCorasick
	if len(patterns) > 0 {
		builder := ac.NewAhoCorasickBuilder(ac.Opts{
			AsciiCaseInsensitive: cfg.CaseInsensitive,
			MatchKind:            ac.LeftMostLongestMatch,
		})
		built := builder.Build(patterns)
		automaton = &built
	}

	return LiteralPrefilter{
		ac:       automaton,
		patterns: patterns,
		stats:    stats,
		cfg:      cfg,
	}
}

// MatchesRaw reports whether the raw JSON record can contain at least one
// configured field. No patterns means everything passes.
func (p *LiteralPrefilter) MatchesRaw(raw string) bool {
	if p.ac == nil || p.stats.PatternCount == 0 {
		return true
	}
	return len(p.ac.FindAll(raw)) > 0
}

// Patterns returns the automaton's raw patterns for debugging.
func (p *LiteralPrefilter) Patterns() []string {
	return append([]string(nil), p.patterns...)
}

// topLevelKey cuts a dotted gjson path down to its first segment.
func topLevelKey(field string) string {
	for i := 0; i < len(field); i++ {
		if field[i] == '.' {
			return field[:i]
		}
	}
	return field
}

// Rough share of records expected to pass; more keys means more records
// slip through.
func estimateSelectivity(patterns int) float64 {
	switch {
	case patterns == 0:
		return 1.0
	case patterns < 5:
		return 0.2
	case patterns < 20:
		return 0.4
	default:
		return 0.7
	}
}
