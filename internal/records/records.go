// Package records decodes the caller-side input documents the engine evaluates:
// trades, trade actions, price snapshots, trade results, execution records and
// candles.
//
// JSON and YAML documents are validated against an embedded JSON Schema before
// being decoded into models, and every decoded record is then checked with its
// Validate method. Trade results can also be read from CSV.
package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	apperrors "trading-discipline/internal/errors"
	"trading-discipline/internal/models"
)

// Format is an input encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, s)
}

// DetectFormat picks a format from a file extension, or returns fallback.
func DetectFormat(path string, fallback Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".csv":
		return FormatCSV
	}
	return fallback
}

// validatable is implemented by every model record.
type validatable interface {
	Validate() error
}

// decode reads a document of the given kind into out, which must be a pointer.
func decode(r io.Reader, format Format, kind Kind, out interface{}) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	canonical, err := canonicalJSON(raw, format)
	if err != nil {
		return err
	}

	var doc interface{}
	if err := json.Unmarshal(canonical, &doc); err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}
	schema, err := schemaFor(kind)
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInputValidation, describe(err))
	}

	if err := json.Unmarshal(canonical, out); err != nil {
		return fmt.Errorf("decoding %s: %w", kind, err)
	}
	return nil
}

// canonicalJSON converts YAML to JSON so both formats share one validation path.
func canonicalJSON(raw []byte, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return raw, nil
	case FormatYAML:
		var doc interface{}
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("converting yaml: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFormat, format)
}

// describe flattens a schema validation error to its most specific causes.
func describe(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	var msgs []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			msgs = append(msgs, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return strings.Join(msgs, "; ")
}

func validateAll[T validatable](kind Kind, items []T) error {
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("%s[%d]: %w", kind, i, err)
		}
	}
	return nil
}

func decodeOne[T validatable](r io.Reader, format Format, kind Kind) (T, error) {
	var v T
	if err := decode(r, format, kind, &v); err != nil {
		return v, err
	}
	if err := v.Validate(); err != nil {
		return v, err
	}
	return v, nil
}

func decodeMany[T validatable](r io.Reader, format Format, kind Kind) ([]T, error) {
	var v []T
	if err := decode(r, format, kind, &v); err != nil {
		return nil, err
	}
	if err := validateAll(kind, v); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeTrade decodes a single trade.
func DecodeTrade(r io.Reader, format Format) (models.Trade, error) {
	return decodeOne[models.Trade](r, format, KindTrade)
}

// DecodeTrades decodes a list of trades.
func DecodeTrades(r io.Reader, format Format) ([]models.Trade, error) {
	return decodeMany[models.Trade](r, format, KindTrades)
}

// DecodeAction decodes a single trade action.
func DecodeAction(r io.Reader, format Format) (models.TradeAction, error) {
	return decodeOne[models.TradeAction](r, format, KindAction)
}

// DecodeActions decodes a list of trade actions.
func DecodeActions(r io.Reader, format Format) ([]models.TradeAction, error) {
	return decodeMany[models.TradeAction](r, format, KindActions)
}

// DecodeHistory decodes a price snapshot.
func DecodeHistory(r io.Reader, format Format) (models.PriceHistory, error) {
	return decodeOne[models.PriceHistory](r, format, KindHistory)
}

// DecodeExecutions decodes a list of execution records.
func DecodeExecutions(r io.Reader, format Format) ([]models.ExecutionRecord, error) {
	return decodeMany[models.ExecutionRecord](r, format, KindExecutions)
}

// DecodeResults decodes a list of trade results, most recent first.
func DecodeResults(r io.Reader, format Format) ([]models.TradeResult, error) {
	if format == FormatCSV {
		return DecodeResultsCSV(r)
	}
	return decodeMany[models.TradeResult](r, format, KindResults)
}

// DecodeCandles decodes a list of candles.
func DecodeCandles(r io.Reader, format Format) ([]models.Candle, error) {
	var v []models.Candle
	if err := decode(r, format, KindCandles, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Load opens path and decodes it with fn, detecting the format from the
// extension and falling back to fallback. Errors are wrapped in a RecordError.
func Load[T any](path string, fallback Format, kind Kind, fn func(io.Reader, Format) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, apperrors.NewRecordError(string(kind), path, err)
	}
	defer f.Close()

	v, err := fn(f, DetectFormat(path, fallback))
	if err != nil {
		return zero, apperrors.NewRecordError(string(kind), path, err)
	}
	return v, nil
}

// Encode writes v as indented JSON.
func Encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// EncodeYAML writes v as YAML.
func EncodeYAML(w io.Writer, v interface{}) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
