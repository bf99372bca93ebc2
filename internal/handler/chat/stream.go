package chat

import (
	"log"
	"net/http"

	"github.com/zhouzirui/talk-agent/backend/internal/model/transcript"
	"github.com/zhouzirui/talk-agent/backend/pkg/utils"
)

// SSE 事件类型
const (
	eventItem  = "item"
	eventDone  = "done"
	eventError = "error"
)

// StreamItem 是推送给客户端的单条进度，不包含模型内部格式。
type StreamItem struct {
	Kind      string `json:"kind"`
	CallID    string `json:"call_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
	Output    string `json:"output,omitempty"`
	Content   string `json:"content,omitempty"`
}

func streamItemFor(item transcript.Item) (StreamItem, bool) {
	switch it := item.(type) {
	case transcript.ToolCall:
		return StreamItem{Kind: "tool_call", CallID: it.CallID, Name: it.Name, Arguments: it.Arguments}, true
	case transcript.ToolResult:
		return StreamItem{Kind: "tool_result", CallID: it.CallID, Output: it.Output}, true
	case transcript.AssistantMessage:
		return StreamItem{Kind: "message", Content: it.Text()}, true
	default:
		return StreamItem{}, false
	}
}

// handleStream 以SSE推送对话过程中的每一步
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	input, err := decodeChat(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, invalidChatMessage)
		return
	}
	if h.runner == nil {
		utils.RespondError(w, http.StatusInternalServerError, h.errorMessage(ErrProviderUnavailable))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	observe := func(item transcript.Item) {
		if ev, ok := streamItemFor(item); ok {
			utils.SendSSEEvent(w, flusher, eventItem, ev)
		}
	}

	history, err := h.run(r.Context(), input, observe)
	if err != nil {
		utils.SendSSEEvent(w, flusher, eventError, map[string]string{"error": h.errorMessage(err)})
		return
	}

	utils.SendSSEEvent(w, flusher, eventDone, history)
	log.Printf("[chat] stream closed after %d item(s)", len(history))
}
