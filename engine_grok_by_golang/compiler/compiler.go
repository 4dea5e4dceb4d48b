package compiler

import (
	"fmt"
	"io"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/MinhVu0109/GrokFilter_V2/engine_grok_by_golang/filter"
)

// Definition is the YAML shape of a pipeline definition document:
//
//	version: 1
//	pipelines:
//	  - name: nginx-access
//	    fields:
//	      - field: status
//	        filters: [integer]
//	      - field: duration
//	        filters: [number, scale(0.001)]
type Definition struct {
	Version   int           `yaml:"version"`
	Pipelines []PipelineDef `yaml:"pipelines"`
}

type PipelineDef struct {
	Name   string     `yaml:"name"`
	Fields []FieldDef `yaml:"fields"`
}

type FieldDef struct {
	Field   string   `yaml:"field"`
	Filters []string `yaml:"filters"`
}

// FieldChain is one field path with its resolved filters, applied left to
// right at match time.
type FieldChain struct {
	Field   string
	Filters []filter.Filter
	// Specs keeps the raw invocation strings for display and persistence.
	Specs []string
}

type Pipeline struct {
	Name   string
	Chains []FieldChain
}

// PipelineSet is the compiled output. Immutable once built.
type PipelineSet struct {
	Pipelines []Pipeline
}

func (s *PipelineSet) PipelineCount() int { return len(s.Pipelines) }

func (s *PipelineSet) ChainCount() int {
	n := 0
	for _, p := range s.Pipelines {
		n += len(p.Chains)
	}
	return n
}

// Compiler accumulates pipeline definitions and resolves every filter
// invocation at compile time. All static errors surface here; a set that
// compiled can be applied without ever seeing them again.
type Compiler struct {
	pipelines []Pipeline
	byName    map[string]int
}

func New() *Compiler {
	return &Compiler{
		pipelines: make([]Pipeline, 0),
		byName:    make(map[string]int),
	}
}

// CompileDefinition compiles one YAML source, which may hold multiple
// documents. A pipeline recompiled under a name seen before replaces the
// earlier one. Returns the names compiled from this source.
func (c *Compiler) CompileDefinition(src string) ([]string, error) {
	dec := yaml.NewDecoder(strings.NewReader(src))
	names := make([]string, 0)
	anyDoc := false
	for {
		var doc Definition
		if err := dec.Decode(&doc); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("YAMLError: %v", err)
		}
		if len(doc.Pipelines) == 0 && doc.Version == 0 {
			continue
		}
		anyDoc = true
		if doc.Version != 1 {
			return nil, fmt.Errorf("CompilationError: unsupported definition version %d", doc.Version)
		}
		for _, pd := range doc.Pipelines {
			p, err := c.compilePipeline(pd)
			if err != nil {
				return nil, err
			}
			if idx, ok := c.byName[p.Name]; ok {
				c.pipelines[idx] = p
			} else {
				c.byName[p.Name] = len(c.pipelines)
				c.pipelines = append(c.pipelines, p)
			}
			names = append(names, p.Name)
		}
	}
	if !anyDoc {
		return nil, fmt.Errorf("CompilationError: empty definition")
	}
	return names, nil
}

func (c *Compiler) compilePipeline(pd PipelineDef) (Pipeline, error) {
	if pd.Name == "" {
		return Pipeline{}, fmt.Errorf("CompilationError: pipeline without a name")
	}
	if len(pd.Fields) == 0 {
		return Pipeline{}, fmt.Errorf("CompilationError: pipeline %q has no fields", pd.Name)
	}
	p := Pipeline{Name: pd.Name, Chains: make([]FieldChain, 0, len(pd.Fields))}
	seen := make(map[string]bool, len(pd.Fields))
	for _, fd := range pd.Fields {
		if fd.Field == "" {
			return Pipeline{}, fmt.Errorf("CompilationError: pipeline %q: field without a path", pd.Name)
		}
		if seen[fd.Field] {
			return Pipeline{}, fmt.Errorf("CompilationError: pipeline %q: duplicate field %q", pd.Name, fd.Field)
		}
		seen[fd.Field] = true
		chain := FieldChain{Field: fd.Field, Specs: append([]string(nil), fd.Filters...)}
		for _, inv := range fd.Filters {
			fn, err := ParseInvocation(inv)
			if err != nil {
				return Pipeline{}, fmt.Errorf("pipeline %q: field %q: %w", pd.Name, fd.Field, err)
			}
			fl, err := filter.FromFunction(fn)
			if err != nil {
				return Pipeline{}, fmt.Errorf("pipeline %q: field %q: %w", pd.Name, fd.Field, err)
			}
			chain.Filters = append(chain.Filters, fl)
		}
		p.Chains = append(p.Chains, chain)
	}
	return p, nil
}

// IntoSet freezes the accumulated pipelines into a set. The compiler should
// not be reused afterwards.
func (c *Compiler) IntoSet() *PipelineSet {
	return &PipelineSet{Pipelines: c.pipelines}
}
