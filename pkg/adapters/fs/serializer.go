package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pelletier/go-toml/v2"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/botstrap/pkg/core"
)

// Decoder turns the bytes of an artifact into its top-level members.
// A document that holds nothing (JSON null, an empty YAML file) decodes to a
// nil Module without error.
type Decoder interface {
	Decode(data []byte, filename string) (core.Module, error)
}

// DefaultFormats is the order in which artifact extensions are probed.
var DefaultFormats = []string{".json", ".yaml", ".yml", ".toml", ".hcl", ".cue"}

// DefaultDecoders returns the standard set of decoders.
func DefaultDecoders(strict bool) map[string]Decoder {
	return map[string]Decoder{
		".json": NewJSONDecoder(strict),
		".yaml": NewYAMLDecoder(strict),
		".yml":  NewYAMLDecoder(strict),
		".toml": NewTOMLDecoder(strict),
		".hcl":  NewHCLDecoder(strict),
		".cue":  NewCUEDecoder(strict),
	}
}

// --- JSON ---

// JSONDecoder decodes JSON artifacts.
type JSONDecoder struct {
	// Strict enables strict number parsing (as json.Number) to avoid precision loss.
	Strict bool
}

// NewJSONDecoder creates a new JSON decoder.
func NewJSONDecoder(strict bool) *JSONDecoder {
	return &JSONDecoder{Strict: strict}
}

func (d *JSONDecoder) Decode(data []byte, filename string) (core.Module, error) {
	var payload any
	decoder := json.NewDecoder(bytes.NewReader(data))
	if d.Strict {
		decoder.UseNumber()
	}
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if err := decoder.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid json: trailing data after top-level value")
	}
	return toModule(payload, false)
}

// --- YAML ---

// YAMLDecoder decodes YAML artifacts.
type YAMLDecoder struct {
	// Strict converts numbers to json.Number, matching JSON strict mode.
	Strict bool
}

// NewYAMLDecoder creates a new YAML decoder.
func NewYAMLDecoder(strict bool) *YAMLDecoder {
	return &YAMLDecoder{Strict: strict}
}

func (d *YAMLDecoder) Decode(data []byte, filename string) (core.Module, error) {
	var payload any
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&payload); err != nil {
		// An empty document holds nothing.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if err := decoder.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid yaml: artifact must hold a single document")
	}
	return toModule(payload, d.Strict)
}

// --- TOML ---

// TOMLDecoder decodes TOML artifacts.
type TOMLDecoder struct {
	Strict bool
}

// NewTOMLDecoder creates a new TOML decoder.
func NewTOMLDecoder(strict bool) *TOMLDecoder {
	return &TOMLDecoder{Strict: strict}
}

func (d *TOMLDecoder) Decode(data []byte, filename string) (core.Module, error) {
	payload := make(map[string]any)
	if err := toml.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid toml: %w", err)
	}
	return toModule(payload, d.Strict)
}

// --- HCL ---

// HCLDecoder decodes HCL artifacts. Only top-level attributes are members;
// blocks are rejected.
type HCLDecoder struct {
	Strict bool
}

// NewHCLDecoder creates a new HCL decoder.
func NewHCLDecoder(strict bool) *HCLDecoder {
	return &HCLDecoder{Strict: strict}
}

func (d *HCLDecoder) Decode(data []byte, filename string) (core.Module, error) {
	// hclparse.Parser memoizes files by name, so each decode gets its own.
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid hcl: %w", diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid hcl: %w", diags)
	}

	payload := make(map[string]any, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid hcl attribute %q: %w", name, diags)
		}
		raw, err := ctyjson.Marshal(val, val.Type())
		if err != nil {
			return nil, fmt.Errorf("convert hcl attribute %q: %w", name, err)
		}
		var native any
		if err := json.Unmarshal(raw, &native); err != nil {
			return nil, fmt.Errorf("convert hcl attribute %q: %w", name, err)
		}
		payload[name] = native
	}
	return toModule(payload, d.Strict)
}

// --- CUE ---

// CUEDecoder decodes CUE artifacts. Values must be concrete.
type CUEDecoder struct {
	Strict bool
}

// NewCUEDecoder creates a new CUE decoder.
func NewCUEDecoder(strict bool) *CUEDecoder {
	return &CUEDecoder{Strict: strict}
}

func (d *CUEDecoder) Decode(data []byte, filename string) (core.Module, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(filename))
	if value.Err() != nil {
		return nil, fmt.Errorf("invalid cue: %w", value.Err())
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("invalid cue: %w", err)
	}

	var payload any
	if err := value.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode cue: %w", err)
	}
	return toModule(payload, d.Strict)
}

// --- Helpers ---

// toModule checks that the decoded top-level value is an object.
func toModule(payload any, normalize bool) (core.Module, error) {
	if payload == nil {
		return nil, nil
	}
	m, ok := payload.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level value is %T, want an object", payload)
	}
	if normalize {
		m = recursiveNormalize(m).(map[string]any)
	}
	return core.Module(m), nil
}

// recursiveNormalize traverses the map/slice and converts numeric types to json.Number.
// This ensures consistency with JSON Strict mode.
func recursiveNormalize(val any) any {
	switch v := val.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = recursiveNormalize(val)
		}
		return m
	case []any:
		l := make([]any, len(v))
		for i, val := range v {
			l[i] = recursiveNormalize(val)
		}
		return l
	case int:
		return json.Number(fmt.Sprintf("%d", v))
	case int64:
		return json.Number(fmt.Sprintf("%d", v))
	case int32:
		return json.Number(fmt.Sprintf("%d", v))
	case uint64:
		return json.Number(fmt.Sprintf("%d", v))
	case float64:
		return json.Number(fmt.Sprintf("%v", v))
	default:
		return v
	}
}
