package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/zhouzirui/talk-agent/backend/internal/model/transcript"
	"github.com/zhouzirui/talk-agent/backend/internal/tool"
)

var (
	ErrMaxTurnsExceeded = errors.New("max turns exceeded")
	ErrDuplicateCallID  = errors.New("duplicate tool call id")
)

// DefaultMaxTurns bounds provider calls per Run when Config.MaxTurns is unset.
const DefaultMaxTurns = 10

// Config controls an Agent.
type Config struct {
	Instructions string
	// MaxTurns caps provider calls per Run. Zero selects DefaultMaxTurns and
	// a negative value disables the cap.
	MaxTurns int
}

// Observer receives every item appended to the history during a Run.
type Observer func(item transcript.Item)

// Result is the outcome of a Run.
type Result struct {
	// History is the full provider-form transcript, tool items included.
	History []transcript.Item
	Turns   int
}

// Agent drives a provider until it answers with a message, executing the
// tool calls it requests along the way.
type Agent struct {
	provider     Provider
	tools        *tool.Registry
	instructions string
	maxTurns     int
}

// New creates an Agent.
func New(provider Provider, tools *tool.Registry, cfg Config) *Agent {
	maxTurns := cfg.MaxTurns
	if maxTurns == 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Agent{
		provider:     provider,
		tools:        tools,
		instructions: cfg.Instructions,
		maxTurns:     maxTurns,
	}
}

// Run executes one conversation turn. input is a client transcript; tool
// items in it are discarded before the first provider call. Provider errors
// are returned as is, wrapped with context, and are never retried.
func (a *Agent) Run(ctx context.Context, input []transcript.Item, observe Observer) (*Result, error) {
	history := transcript.ToProvider(input)
	seen := make(map[string]struct{})

	var descriptors []tool.Descriptor
	if a.tools != nil {
		descriptors = a.tools.Descriptors()
	}

	for turn := 1; ; turn++ {
		if a.maxTurns > 0 && turn > a.maxTurns {
			return nil, fmt.Errorf("%w (%d)", ErrMaxTurnsExceeded, a.maxTurns)
		}

		resp, err := a.provider.Respond(ctx, Request{
			Instructions: a.instructions,
			Input:        slices.Clone(history),
			Tools:        descriptors,
			ToolChoice:   ToolChoiceAuto,
		})
		if err != nil {
			return nil, fmt.Errorf("provider call: %w", err)
		}

		if err := checkCallIDs(resp.Output, seen); err != nil {
			return nil, err
		}

		calledTool := false
		for _, item := range resp.Output {
			switch it := item.(type) {
			case transcript.ToolCall:
				history = appendItem(history, it, observe)
				outcome := a.dispatch(ctx, it)
				history = appendItem(history, transcript.ToolResult{CallID: it.CallID, Output: outcome.Output}, observe)
				calledTool = true

			case transcript.AssistantMessage:
				history = appendItem(history, transcript.Assistant(it.Text()), observe)
				log.Printf("[agent] turn complete after %d provider call(s)", turn)
				return &Result{History: history, Turns: turn}, nil
			}
		}

		if !calledTool {
			log.Printf("[agent] provider returned neither tool call nor message, stopping after %d call(s)", turn)
			return &Result{History: history, Turns: turn}, nil
		}
	}
}

// checkCallIDs rejects a response reusing a correlation id, either within
// itself or from an earlier response, before any of its calls run. Accepted
// ids are added to seen.
func checkCallIDs(output []transcript.Item, seen map[string]struct{}) error {
	fresh := make(map[string]struct{})
	for _, item := range output {
		if _, isMessage := item.(transcript.AssistantMessage); isMessage {
			break
		}
		call, ok := item.(transcript.ToolCall)
		if !ok {
			continue
		}
		_, earlier := seen[call.CallID]
		_, repeated := fresh[call.CallID]
		if earlier || repeated {
			return fmt.Errorf("%w: %q", ErrDuplicateCallID, call.CallID)
		}
		fresh[call.CallID] = struct{}{}
	}
	for id := range fresh {
		seen[id] = struct{}{}
	}
	return nil
}

func (a *Agent) dispatch(ctx context.Context, call transcript.ToolCall) tool.Outcome {
	if a.tools == nil {
		return tool.Outcome{Kind: tool.OutcomeUnknownTool, Output: "ERROR: Unknown function: " + call.Name}
	}
	return a.tools.Dispatch(ctx, call.Name, call.Arguments)
}

func appendItem(history []transcript.Item, item transcript.Item, observe Observer) []transcript.Item {
	history = append(history, item)
	if observe != nil {
		observe(item)
	}
	return history
}
