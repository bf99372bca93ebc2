package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"
)

var ErrDuplicateTool = errors.New("duplicate tool name")

// OutcomeKind classifies a dispatch result.
type OutcomeKind string

const (
	OutcomeOK               OutcomeKind = "ok"
	OutcomeUnknownTool      OutcomeKind = "unknown_tool"
	OutcomeInvalidArguments OutcomeKind = "invalid_arguments"
	OutcomeFailed           OutcomeKind = "failed"
)

// Outcome is the text returned to the model for a tool call.
type Outcome struct {
	Kind   OutcomeKind
	Output string
}

// Registry is an immutable set of tools keyed by name.
type Registry struct {
	descriptors []Descriptor
	byName      map[string]int
}

// NewRegistry returns a registry holding descriptors in the given order.
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{
		descriptors: make([]Descriptor, 0, len(descriptors)),
		byName:      make(map[string]int, len(descriptors)),
	}
	for _, d := range descriptors {
		if _, exists := r.byName[d.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, d.Name)
		}
		r.byName[d.Name] = len(r.descriptors)
		r.descriptors = append(r.descriptors, d)
	}
	return r, nil
}

// Descriptors returns the registered tools in registration order.
func (r *Registry) Descriptors() []Descriptor {
	return append([]Descriptor(nil), r.descriptors...)
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.descriptors))
	for i, d := range r.descriptors {
		names[i] = d.Name
	}
	return names
}

// Lookup finds a tool by name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Descriptor{}, false
	}
	return r.descriptors[idx], true
}

// Dispatch runs the named tool with raw JSON arguments. It never fails:
// unknown tools, invalid arguments and handler errors are reported in the
// returned Outcome so the model can read them.
func (r *Registry) Dispatch(ctx context.Context, name, arguments string) Outcome {
	start := time.Now()
	outcome := r.dispatch(ctx, name, arguments)
	log.Printf("[tool] name=%s outcome=%s input_size=%d output_size=%d duration=%s",
		name, outcome.Kind, len(arguments), len(outcome.Output), time.Since(start))
	return outcome
}

func (r *Registry) dispatch(ctx context.Context, name, arguments string) Outcome {
	d, ok := r.Lookup(name)
	if !ok {
		return Outcome{Kind: OutcomeUnknownTool, Output: "ERROR: Unknown function: " + name}
	}

	result, err := d.Call(ctx, json.RawMessage(arguments))
	if errors.Is(err, ErrInvalidArguments) {
		return Outcome{Kind: OutcomeInvalidArguments, Output: fmt.Sprintf("ERROR: invalid arguments for %s: %v", name, err)}
	}
	if err != nil {
		return Outcome{Kind: OutcomeFailed, Output: "ERROR: " + err.Error()}
	}

	output, err := encodeResult(result)
	if err != nil {
		return Outcome{Kind: OutcomeFailed, Output: "ERROR: encode result: " + err.Error()}
	}
	return Outcome{Kind: OutcomeOK, Output: output}
}

func encodeResult(result any) (string, error) {
	switch v := result.(type) {
	case string:
		return v, nil
	case json.RawMessage:
		return string(v), nil
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
