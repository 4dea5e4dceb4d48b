package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engine "github.com/MinhVu0109/GrokFilter_V2/engine_grok_by_golang"
	"github.com/MinhVu0109/GrokFilter_V2/engine_grok_by_golang/compiler"
)

const accessLogDefinition = `
version: 1
pipelines:
  - name: access
    fields:
      - field: status
        filters: [integer]
      - field: duration
        filters: [number, scale(0.001)]
      - field: method
        filters: [lowercase]
      - field: referrer
        filters: [nullIf("-")]
      - field: payload
        filters: [json]
`

func buildEngine(t *testing.T, cfg engine.EngineConfig) *Engine {
	t.Helper()
	c := compiler.New()
	_, err := c.CompileDefinition(accessLogDefinition)
	require.NoError(t, err)
	eng, err := FromSet(c.IntoSet(), cfg)
	require.NoError(t, err)
	return eng
}

func TestTransformAppliesChainsInOrder(t *testing.T) {
	eng := buildEngine(t, engine.DefaultEngineConfig())
	res, err := eng.Transform([]byte(`{
		"status": "200",
		"duration": "1500",
		"method": "GET",
		"referrer": "-",
		"payload": "{\"a\":1}"
	}`))
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Empty(t, res.Failures)

	assert.Equal(t, int64(200), res.Output["status"])
	// number then scale(0.001): "1500" -> 1500.0 -> 1.5
	assert.Equal(t, 1.5, res.Output["duration"])
	assert.Equal(t, "get", res.Output["method"])
	assert.Nil(t, res.Output["referrer"])
	assert.Contains(t, res.Output, "referrer")
	assert.Equal(t, map[string]any{"a": int64(1)}, res.Output["payload"])
}

func TestTransformMissingFieldsOmitted(t *testing.T) {
	eng := buildEngine(t, engine.DefaultEngineConfig())
	res, err := eng.Transform([]byte(`{"status":"404"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"status": int64(404)}, res.Output)
}

func TestTransformDropFieldPolicy(t *testing.T) {
	eng := buildEngine(t, engine.DefaultEngineConfig())
	res, err := eng.Transform([]byte(`{"status":"no-such-number","method":"POST"}`))
	require.NoError(t, err)
	assert.NotContains(t, res.Output, "status")
	assert.Equal(t, "post", res.Output["method"])
	require.Len(t, res.Failures, 1)
	f := res.Failures[0]
	assert.Equal(t, "access", f.Pipeline)
	assert.Equal(t, "status", f.Field)
	assert.Equal(t, "integer", f.Filter)
	assert.Equal(t, "no-such-number", f.Value)
}

func TestTransformKeepOriginalPolicy(t *testing.T) {
	cfg := engine.DefaultEngineConfig()
	cfg.FailurePolicy = engine.FailureKeepOriginal
	eng := buildEngine(t, cfg)
	res, err := eng.Transform([]byte(`{"status":"oops"}`))
	require.NoError(t, err)
	assert.Equal(t, "oops", res.Output["status"])
	assert.Len(t, res.Failures, 1)
}

func TestTransformFailRecordPolicy(t *testing.T) {
	cfg := engine.DefaultEngineConfig()
	cfg.FailurePolicy = engine.FailureFailRecord
	eng := buildEngine(t, cfg)
	_, err := eng.Transform([]byte(`{"status":"oops"}`))
	require.Error(t, err)
}

func TestTransformRejectsInvalidJSON(t *testing.T) {
	eng := buildEngine(t, engine.DefaultEngineConfig())
	_, err := eng.Transform([]byte(`{"status":`))
	require.Error(t, err)
}

func TestTransformPrefilterSkips(t *testing.T) {
	eng := buildEngine(t, engine.DefaultEngineConfig())
	res, err := eng.Transform([]byte(`{"unrelated":"record"}`))
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Empty(t, res.Output)

	st := eng.Stats()
	assert.Equal(t, int64(1), st.PrefilterMisses)
	assert.Equal(t, int64(0), st.PrefilterHits)
}

func TestTransformPrefilterDisabled(t *testing.T) {
	cfg := engine.DefaultEngineConfig()
	cfg.EnablePrefilter = false
	eng := buildEngine(t, cfg)
	res, err := eng.Transform([]byte(`{"unrelated":"record"}`))
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Empty(t, res.Output)
}

func TestTransformNumericExtraction(t *testing.T) {
	// Scale accepts numeric input directly; JSON numbers arrive typed.
	c := compiler.New()
	_, err := c.CompileDefinition(`
version: 1
pipelines:
  - name: metrics
    fields:
      - field: bytes
        filters: [scale(0.5)]
`)
	require.NoError(t, err)
	eng, err := FromSet(c.IntoSet(), engine.DefaultEngineConfig())
	require.NoError(t, err)

	res, err := eng.Transform([]byte(`{"bytes": 84}`))
	require.NoError(t, err)
	assert.Equal(t, 42.0, res.Output["bytes"])

	res, err = eng.Transform([]byte(`{"bytes": 3.0}`))
	require.NoError(t, err)
	assert.Equal(t, 1.5, res.Output["bytes"])
}

func TestTransformDottedPath(t *testing.T) {
	c := compiler.New()
	_, err := c.CompileDefinition(`
version: 1
pipelines:
  - name: nested
    fields:
      - field: http.status
        filters: [integer]
`)
	require.NoError(t, err)
	eng, err := FromSet(c.IntoSet(), engine.DefaultEngineConfig())
	require.NoError(t, err)

	res, err := eng.Transform([]byte(`{"http":{"status":"500"}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(500), res.Output["http.status"])
}

func TestFromSetEnforcesChainLimit(t *testing.T) {
	c := compiler.New()
	_, err := c.CompileDefinition(`
version: 1
pipelines:
  - name: p
    fields:
      - field: a
        filters: [lowercase, uppercase, lowercase]
`)
	require.NoError(t, err)
	cfg := engine.DefaultEngineConfig()
	cfg.MaxChainLength = 2
	_, err = FromSet(c.IntoSet(), cfg)
	require.Error(t, err)
}

func TestEngineStatsCounters(t *testing.T) {
	eng := buildEngine(t, engine.DefaultEngineConfig())
	_, err := eng.Transform([]byte(`{"status":"200"}`))
	require.NoError(t, err)
	_, err = eng.Transform([]byte(`{"status":"bad"}`))
	require.NoError(t, err)

	st := eng.Stats()
	assert.Equal(t, int64(2), st.Records)
	assert.Equal(t, int64(1), st.FieldsOut)
	assert.Equal(t, int64(1), st.FilterFailures)
	assert.Equal(t, 1, st.PipelineCount)
	assert.Equal(t, 5, st.ChainCount)
}

func TestPrefilterPatterns(t *testing.T) {
	eng := buildEngine(t, engine.DefaultEngineConfig())
	assert.Equal(t, 5, eng.PrefilterPatternCount())

	pf := PrefilterFromPipelines(nil, DefaultPrefilterConfig())
	assert.True(t, pf.MatchesRaw(`{"anything":1}`), "no patterns passes everything")
}

func TestPrefilterDottedFieldUsesTopKey(t *testing.T) {
	c := compiler.New()
	_, err := c.CompileDefinition(`
version: 1
pipelines:
  - name: nested
    fields:
      - field: http.status
        filters: [integer]
`)
	require.NoError(t, err)
	pf := PrefilterFromPipelines(c.IntoSet().Pipelines, DefaultPrefilterConfig())
	assert.Equal(t, []string{`"http"`}, pf.Patterns())
	assert.True(t, pf.MatchesRaw(`{"http":{"status":"1"}}`))
	assert.False(t, pf.MatchesRaw(`{"grpc":{"status":"1"}}`))
}
