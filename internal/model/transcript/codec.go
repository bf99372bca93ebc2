package transcript

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotArray is returned by Decode when the payload is not a JSON array.
var ErrNotArray = errors.New("transcript must be a JSON array")

const (
	typeMessage            = "message"
	typeFunctionCall       = "function_call"
	typeFunctionCallOutput = "function_call_output"
)

type wireItem struct {
	Type      string          `json:"type,omitempty"`
	Role      Role            `json:"role,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	Status    string          `json:"status,omitempty"`
	CallID    string          `json:"call_id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Arguments string          `json:"arguments,omitempty"`
	Output    *string         `json:"output,omitempty"`
}

// MarshalJSON encodes plain content as a string and structured content as
// an array of parts.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.IsStructured() {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Text)
}

// UnmarshalJSON accepts either a string or an array of parts.
func (c *Content) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		parts := []Part{}
		if err := json.Unmarshal(trimmed, &parts); err != nil {
			return fmt.Errorf("decode content parts: %w", err)
		}
		*c = Content{Parts: parts}
		return nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return fmt.Errorf("decode content text: %w", err)
	}
	*c = Content{Text: text}
	return nil
}

func (m UserMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Role    Role    `json:"role"`
		Content Content `json:"content"`
	}{RoleUser, m.Content})
}

func (m AssistantMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Role    Role    `json:"role"`
		Status  string  `json:"status,omitempty"`
		Content Content `json:"content"`
	}{RoleAssistant, m.Status, m.Content})
}

func (c ToolCall) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type      string `json:"type"`
		CallID    string `json:"call_id"`
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	}{typeFunctionCall, c.CallID, c.Name, c.Arguments})
}

func (r ToolResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		CallID string `json:"call_id"`
		Output string `json:"output"`
	}{typeFunctionCallOutput, r.CallID, r.Output})
}

// Decode parses a JSON array of wire items. Elements that cannot be
// classified as one of the four item kinds are skipped and counted.
func Decode(data []byte) ([]Item, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, 0, ErrNotArray
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrNotArray, err)
	}

	items := make([]Item, 0, len(raw))
	skipped := 0
	for _, element := range raw {
		item, ok := decodeItem(element)
		if !ok {
			skipped++
			continue
		}
		items = append(items, item)
	}
	return items, skipped, nil
}

func decodeItem(data json.RawMessage) (Item, bool) {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, false
	}

	switch w.Type {
	case "", typeMessage:
		var content Content
		if len(w.Content) > 0 {
			if err := json.Unmarshal(w.Content, &content); err != nil {
				return nil, false
			}
		}
		switch w.Role {
		case RoleUser:
			return UserMessage{Content: content}, true
		case RoleAssistant:
			return AssistantMessage{Content: content, Status: w.Status}, true
		}
	case typeFunctionCall:
		return ToolCall{CallID: w.CallID, Name: w.Name, Arguments: w.Arguments}, true
	case typeFunctionCallOutput:
		if w.Output == nil {
			return nil, false
		}
		return ToolResult{CallID: w.CallID, Output: *w.Output}, true
	}
	return nil, false
}
