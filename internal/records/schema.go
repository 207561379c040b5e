package records

import (
	"bytes"
	"embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBase = "https://trading-discipline.local/schemas/"

// Kind names an input document type. Each kind has a schema.
type Kind string

const (
	KindTrade      Kind = "trade"
	KindTrades     Kind = "trades"
	KindAction     Kind = "action"
	KindActions    Kind = "actions"
	KindHistory    Kind = "history"
	KindResults    Kind = "results"
	KindExecutions Kind = "executions"
	KindCandles    Kind = "candles"
)

var (
	schemasOnce sync.Once
	schemas     map[Kind]*jsonschema.Schema
	schemasErr  error
)

// schemaFor returns the compiled schema for kind. All schemas are compiled
// together on first use.
func schemaFor(kind Kind) (*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		schemas, schemasErr = compileSchemas()
	})
	if schemasErr != nil {
		return nil, schemasErr
	}
	s, ok := schemas[kind]
	if !ok {
		return nil, fmt.Errorf("no schema for %q documents", kind)
	}
	return s, nil
}

func compileSchemas() (map[Kind]*jsonschema.Schema, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("reading embedded schemas: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	for _, e := range entries {
		raw, err := schemaFS.ReadFile("schemas/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("reading schema %s: %w", e.Name(), err)
		}
		if err := compiler.AddResource(schemaBase+e.Name(), bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("adding schema %s: %w", e.Name(), err)
		}
	}

	kinds := []Kind{KindTrade, KindTrades, KindAction, KindActions, KindHistory, KindResults, KindExecutions, KindCandles}
	out := make(map[Kind]*jsonschema.Schema, len(kinds))
	for _, k := range kinds {
		s, err := compiler.Compile(schemaBase + string(k) + ".json")
		if err != nil {
			return nil, fmt.Errorf("compiling %s schema: %w", k, err)
		}
		out[k] = s
	}
	return out, nil
}
