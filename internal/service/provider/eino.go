// Package provider adapts hosted chat models to agent.Provider.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	contribschema "github.com/eino-contrib/jsonschema"

	"github.com/zhouzirui/talk-agent/backend/internal/model/transcript"
	"github.com/zhouzirui/talk-agent/backend/internal/service/agent"
	"github.com/zhouzirui/talk-agent/backend/internal/tool"
)

// ErrNilModel is returned when a provider is built without a model.
var ErrNilModel = errors.New("chat model is nil")

// Eino calls an eino chat model such as the ark model. Tools are bound once,
// in NewEino, and never rebound per request.
type Eino struct {
	chatModel model.ChatModel
	template  prompt.ChatTemplate
	hasTools  bool
}

// NewEino binds tools to chatModel and wraps it.
func NewEino(chatModel model.ChatModel, tools []tool.Descriptor) (*Eino, error) {
	if chatModel == nil {
		return nil, ErrNilModel
	}

	infos, err := ToolInfos(tools)
	if err != nil {
		return nil, err
	}
	if len(infos) > 0 {
		if err := chatModel.BindTools(infos); err != nil {
			return nil, fmt.Errorf("bind tools: %w", err)
		}
	}

	template := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{instructions}"),
		schema.MessagesPlaceholder("history", false),
	)

	return &Eino{chatModel: chatModel, template: template, hasTools: len(infos) > 0}, nil
}

// Respond implements agent.Provider. req.Tools is ignored in favour of the
// tools bound in NewEino.
func (p *Eino) Respond(ctx context.Context, req agent.Request) (*agent.Response, error) {
	messages, err := p.template.Format(ctx, map[string]any{
		"instructions": req.Instructions,
		"history":      ToSchemaMessages(req.Input),
	})
	if err != nil {
		return nil, fmt.Errorf("format prompt: %w", err)
	}

	var opts []model.Option
	if p.hasTools && req.ToolChoice == agent.ToolChoiceAuto {
		opts = append(opts, model.WithToolChoice(schema.ToolChoiceAllowed))
	}

	reply, err := p.chatModel.Generate(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	return &agent.Response{Output: FromSchemaMessage(reply)}, nil
}

// ToolInfos converts tool descriptors into eino tool definitions.
func ToolInfos(descriptors []tool.Descriptor) ([]*schema.ToolInfo, error) {
	if len(descriptors) == 0 {
		return nil, nil
	}

	infos := make([]*schema.ToolInfo, 0, len(descriptors))
	for _, d := range descriptors {
		params := &contribschema.Schema{}
		if err := json.Unmarshal(d.Schema, params); err != nil {
			return nil, fmt.Errorf("tool %s schema: %w", d.Name, err)
		}
		infos = append(infos, &schema.ToolInfo{
			Name:        d.Name,
			Desc:        d.Description,
			ParamsOneOf: schema.NewParamsOneOfByJSONSchema(params),
		})
	}
	return infos, nil
}

// ToSchemaMessages converts provider-form transcript items to eino messages.
func ToSchemaMessages(items []transcript.Item) []*schema.Message {
	messages := make([]*schema.Message, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case transcript.UserMessage:
			messages = append(messages, schema.UserMessage(it.Text()))
		case transcript.AssistantMessage:
			messages = append(messages, schema.AssistantMessage(it.Text(), nil))
		case transcript.ToolCall:
			messages = append(messages, &schema.Message{
				Role: schema.Assistant,
				ToolCalls: []schema.ToolCall{{
					ID:   it.CallID,
					Type: "function",
					Function: schema.FunctionCall{
						Name:      it.Name,
						Arguments: it.Arguments,
					},
				}},
			})
		case transcript.ToolResult:
			messages = append(messages, schema.ToolMessage(it.Output, it.CallID))
		}
	}
	return messages
}

// FromSchemaMessage converts a model reply into output items. Text that
// accompanies tool calls is dropped.
func FromSchemaMessage(msg *schema.Message) []transcript.Item {
	if msg == nil {
		return nil
	}

	if len(msg.ToolCalls) > 0 {
		if msg.Content != "" {
			log.Printf("[provider] dropping %d bytes of text sent alongside %d tool call(s)", len(msg.Content), len(msg.ToolCalls))
		}
		items := make([]transcript.Item, 0, len(msg.ToolCalls))
		for _, call := range msg.ToolCalls {
			items = append(items, transcript.ToolCall{
				CallID:    call.ID,
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			})
		}
		return items
	}

	if msg.Content == "" {
		return nil
	}
	return []transcript.Item{transcript.AssistantMessage{
		Content: transcript.Structured(transcript.Part{Type: transcript.OutputText, Text: msg.Content}),
		Status:  transcript.StatusCompleted,
	}}
}
