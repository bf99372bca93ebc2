package transcript

// ToProvider converts a client transcript into the form sent to the model.
// Only user and assistant messages survive: the provider requires strict
// pairing of tool calls and results, which a client-side copy cannot be
// trusted to preserve. Plain text is wrapped into a single part tagged
// input_text (user) or output_text (assistant), and assistant messages are
// marked completed.
func ToProvider(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case UserMessage:
			if !it.Content.IsStructured() {
				it.Content = Structured(Part{Type: InputText, Text: it.Content.Text})
			}
			out = append(out, it)
		case AssistantMessage:
			if !it.Content.IsStructured() {
				it.Content = Structured(Part{Type: OutputText, Text: it.Content.Text})
				it.Status = StatusCompleted
			}
			out = append(out, it)
		case ToolCall, ToolResult:
		}
	}
	return out
}

// ToClient reduces a full interaction history to the user and assistant
// messages a client displays, each with plain-text content. Structured user
// messages whose input_text parts are empty are dropped.
func ToClient(history []Item) []Item {
	out := make([]Item, 0, len(history))
	for _, item := range history {
		switch it := item.(type) {
		case UserMessage:
			if !it.Content.IsStructured() {
				out = append(out, it)
				continue
			}
			if text := it.Content.Join(InputText); text != "" {
				out = append(out, User(text))
			}
		case AssistantMessage:
			if !it.Content.IsStructured() {
				out = append(out, it)
				continue
			}
			out = append(out, Assistant(it.Content.Join(OutputText)))
		case ToolCall, ToolResult:
		}
	}
	return out
}
