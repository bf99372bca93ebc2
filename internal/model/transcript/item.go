// Package transcript models conversation items exchanged between the client,
// the agent loop and the model provider.
//
// An Item is one of UserMessage, AssistantMessage, ToolCall or ToolResult.
// Message content is either plain text (client form) or an ordered list of
// typed text parts (provider form); see ToProvider and ToClient.
package transcript

import "strings"

// Role identifies the author of a message item.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PartType tags a structured content part by direction.
type PartType string

const (
	InputText  PartType = "input_text"
	OutputText PartType = "output_text"
)

// StatusCompleted marks an assistant message as finalized.
const StatusCompleted = "completed"

// Part is a single typed text fragment of structured content.
type Part struct {
	Type PartType `json:"type"`
	Text string   `json:"text"`
}

// Content is either plain text or a list of parts. A non-nil Parts slice
// means structured content, even when empty.
type Content struct {
	Text  string
	Parts []Part
}

// Plain returns plain-text content.
func Plain(text string) Content {
	return Content{Text: text}
}

// Structured returns structured content made of parts.
func Structured(parts ...Part) Content {
	if parts == nil {
		parts = []Part{}
	}
	return Content{Parts: parts}
}

// IsStructured reports whether the content is a parts list.
func (c Content) IsStructured() bool {
	return c.Parts != nil
}

// Join concatenates, in order, the text of every part of the given type.
func (c Content) Join(kind PartType) string {
	var b strings.Builder
	for _, p := range c.Parts {
		if p.Type == kind {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

// Item is a transcript entry. The method set is sealed to this package.
type Item interface {
	isItem()
}

// UserMessage is text authored by the end user.
type UserMessage struct {
	Content Content
}

// AssistantMessage is text produced by the model.
type AssistantMessage struct {
	Content Content
	Status  string
}

// ToolCall is a model request to run a registered tool.
type ToolCall struct {
	CallID    string
	Name      string
	Arguments string
}

// ToolResult carries the output of the ToolCall with the same CallID.
type ToolResult struct {
	CallID string
	Output string
}

func (UserMessage) isItem()      {}
func (AssistantMessage) isItem() {}
func (ToolCall) isItem()         {}
func (ToolResult) isItem()       {}

// User builds a plain-text user message.
func User(text string) UserMessage {
	return UserMessage{Content: Plain(text)}
}

// Assistant builds a plain-text assistant message.
func Assistant(text string) AssistantMessage {
	return AssistantMessage{Content: Plain(text)}
}

// Text returns the visible text of an assistant message regardless of form.
func (m AssistantMessage) Text() string {
	if m.Content.IsStructured() {
		return m.Content.Join(OutputText)
	}
	return m.Content.Text
}

// Text returns the visible text of a user message regardless of form.
func (m UserMessage) Text() string {
	if m.Content.IsStructured() {
		return m.Content.Join(InputText)
	}
	return m.Content.Text
}
