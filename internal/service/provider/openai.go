package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/zhouzirui/talk-agent/backend/internal/model/transcript"
	"github.com/zhouzirui/talk-agent/backend/internal/service/agent"
	"github.com/zhouzirui/talk-agent/backend/internal/tool"
)

// ErrNoChoices is returned when the completion carries no choice.
var ErrNoChoices = errors.New("completion returned no choices")

// OpenAI calls the chat completions API.
type OpenAI struct {
	client *openai.Client
	model  string
	effort string
}

// NewOpenAI creates an OpenAI provider. An empty baseURL uses the public API.
func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		effort: ReasoningEffort(model),
	}
}

// ReasoningEffort picks the lowest reasoning effort a model accepts. Models
// without reasoning get an empty value.
func ReasoningEffort(model string) string {
	name := strings.ToLower(model)
	switch {
	case strings.HasPrefix(name, "gpt-5.2"), strings.HasPrefix(name, "gpt-5.3"):
		return "low"
	case strings.HasPrefix(name, "gpt-5"), strings.HasPrefix(name, "o1"), strings.HasPrefix(name, "o3"), strings.HasPrefix(name, "o4"):
		return "minimal"
	default:
		return ""
	}
}

// Respond implements agent.Provider.
func (p *OpenAI) Respond(ctx context.Context, req agent.Request) (*agent.Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:           p.model,
		Messages:        ToOpenAIMessages(req.Instructions, req.Input),
		ReasoningEffort: p.effort,
	}
	if len(req.Tools) > 0 {
		chatReq.Tools = ToOpenAITools(req.Tools)
		chatReq.ToolChoice = string(req.ToolChoice)
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	return &agent.Response{Output: FromOpenAIMessage(resp.Choices[0].Message)}, nil
}

// ToOpenAITools converts tool descriptors into function definitions.
func ToOpenAITools(descriptors []tool.Descriptor) []openai.Tool {
	tools := make([]openai.Tool, len(descriptors))
	for i, d := range descriptors {
		tools[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  json.RawMessage(d.Schema),
			},
		}
	}
	return tools
}

// ToOpenAIMessages prepends the instructions as a system message.
func ToOpenAIMessages(instructions string, items []transcript.Item) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(items)+1)
	if instructions != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: instructions,
		})
	}

	for _, item := range items {
		switch it := item.(type) {
		case transcript.UserMessage:
			messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: it.Text()})
		case transcript.AssistantMessage:
			messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: it.Text()})
		case transcript.ToolCall:
			messages = append(messages, openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{{
					ID:   it.CallID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      it.Name,
						Arguments: it.Arguments,
					},
				}},
			})
		case transcript.ToolResult:
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    it.Output,
				ToolCallID: it.CallID,
			})
		}
	}
	return messages
}

// FromOpenAIMessage converts a completion message into output items, with
// the same rule as FromSchemaMessage for text sent alongside tool calls.
func FromOpenAIMessage(msg openai.ChatCompletionMessage) []transcript.Item {
	if len(msg.ToolCalls) > 0 {
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
