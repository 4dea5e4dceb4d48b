package engine_grok_by_golang

// Unified configuration for the transform engine.

import "fmt"

// FailurePolicy decides what the engine does with a field whose filter chain
// failed at runtime. The filter core itself only reports the failure; the
// policy is applied by the enclosing engine.
type FailurePolicy int

const (
	// FailureDropField = 0 so the zero value is the default policy.
	FailureDropField FailurePolicy = iota
	FailureKeepOriginal
	FailureFailRecord
)

func (p FailurePolicy) String() string {
	switch p {
	case FailureDropField:
		return "DropField"
	case FailureKeepOriginal:
		return "KeepOriginal"
	case FailureFailRecord:
		return "FailRecord"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

type EngineConfig struct {
	FailurePolicy   FailurePolicy
	EnablePrefilter bool
	// MaxChainLength bounds the number of filters on a single field.
	MaxChainLength int
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		FailurePolicy:   FailureDropField,
		EnablePrefilter: true,
		MaxChainLength:  16,
	}
}

func (c EngineConfig) Validate() error {
	switch c.FailurePolicy {
	case FailureDropField, FailureKeepOriginal, FailureFailRecord:
	default:
		return fmt.Errorf("ConfigError: unknown failure policy %d", int(c.FailurePolicy))
	}
	if c.MaxChainLength <= 0 {
		return fmt.Errorf("ConfigError: MaxChainLength must be positive, got %d", c.MaxChainLength)
	}
	return nil
}
