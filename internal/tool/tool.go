package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidArguments wraps argument decoding and schema validation failures.
var ErrInvalidArguments = errors.New("invalid arguments")

// Descriptor binds a tool name to its parameter schema and handler.
type Descriptor struct {
	Name        string
	Description string
	Schema      json.RawMessage

	validator *validator.Schema
	invoke    func(ctx context.Context, raw json.RawMessage) (any, error)
}

// New builds a Descriptor whose parameter schema is reflected from T. The
// handler receives validated, decoded arguments; string results are returned
// to the model verbatim and anything else is JSON-encoded.
func New[T any](name, description string, handler func(ctx context.Context, args T) (any, error)) (Descriptor, error) {
	if name == "" {
		return Descriptor{}, errors.New("tool name is required")
	}

	schemaJSON, err := GenerateSchema[T]()
	if err != nil {
		return Descriptor{}, fmt.Errorf("generate schema for %s: %w", name, err)
	}

	compiler := validator.NewCompiler()
	compiler.Draft = validator.Draft2020
	compiler.AssertFormat = true
	url := name + ".schema.json"
	if err := compiler.AddResource(url, bytes.NewReader(schemaJSON)); err != nil {
		return Descriptor{}, fmt.Errorf("load schema for %s: %w", name, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return Descriptor{}, fmt.Errorf("compile schema for %s: %w", name, err)
	}

	return Descriptor{
		Name:        name,
		Description: description,
		Schema:      schemaJSON,
		validator:   compiled,
		invoke: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args T
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
			}
			return handler(ctx, args)
		},
	}, nil
}

// MustNew is like New but panics on error. Intended for package-level tool
// tables whose schemas are fixed at compile time.
func MustNew[T any](name, description string, handler func(ctx context.Context, args T) (any, error)) Descriptor {
	d, err := New(name, description, handler)
	if err != nil {
		panic(err)
	}
	return d
}

// GenerateSchema derives an inline JSON Schema from T. Fields without
// omitempty are required and unknown properties are rejected.
func GenerateSchema[T any]() (json.RawMessage, error) {
	reflector := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
	}
	var v T
	schema := reflector.Reflect(&v)
	schema.Version = ""
	return json.Marshal(schema)
}

// Validate checks raw arguments against the descriptor schema. Empty input
// is treated as an empty object.
func (d Descriptor) Validate(raw json.RawMessage) (json.RawMessage, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: arguments are not valid JSON: %v", ErrInvalidArguments, err)
	}
	if d.validator != nil {
		if err := d.validator.Validate(decoded); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		}
	}
	return raw, nil
}

// Call validates raw arguments and runs the handler.
func (d Descriptor) Call(ctx context.Context, raw json.RawMessage) (any, error) {
	args, err := d.Validate(raw)
	if err != nil {
		return nil, err
	}
	if d.invoke == nil {
		return nil, fmt.Errorf("tool %s has no handler", d.Name)
	}
	return d.invoke(ctx, args)
}
