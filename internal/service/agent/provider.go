package agent

import (
	"context"

	"github.com/zhouzirui/talk-agent/backend/internal/model/transcript"
	"github.com/zhouzirui/talk-agent/backend/internal/tool"
)

// ToolChoice tells the provider whether it may call tools.
type ToolChoice string

// ToolChoiceAuto lets the model decide between calling a tool and answering.
const ToolChoiceAuto ToolChoice = "auto"

// Request is one model invocation.
type Request struct {
	Instructions string
	Input        []transcript.Item
	Tools        []tool.Descriptor
	ToolChoice   ToolChoice
}

// Response carries the model output items in the order produced. Only
// ToolCall and AssistantMessage items are acted upon.
type Response struct {
	Output []transcript.Item
}

// Provider is a hosted language model reachable over the network.
type Provider interface {
	Respond(ctx context.Context, req Request) (*Response, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req Request) (*Response, error)

// Respond implements Provider.
func (f ProviderFunc) Respond(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
