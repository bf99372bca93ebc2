package chat

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// WebSocket 出站消息类型
const (
	frameTranscript = "transcript"
	frameError      = "error"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type outgoingFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// handleWebSocket 在同一连接上处理多轮对话，每个入站帧对应一轮
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[ws] connection opened from %s", r.RemoteAddr)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error: %v", err)
			}
			return
		}

		frame := h.handleFrame(r, data)
		if err := conn.WriteJSON(frame); err != nil {
			log.Printf("[ws] write error: %v", err)
			return
		}
	}
}

func (h *Handler) handleFrame(r *http.Request, data []byte) outgoingFrame {
	var payload chatRequest
	if err := json.Unmarshal(data, &payload); err != nil {
		return outgoingFrame{Type: frameError, Data: invalidChatMessage}
	}
	input, err := parseChat(payload.Chat)
	if err != nil {
		return outgoingFrame{Type: frameError, Data: invalidChatMessage}
	}

	history, err := h.run(r.Context(), input, nil)
	if err != nil {
		if errors.Is(err, ErrProviderUnavailable) {
			log.Printf("[ws] rejecting turn: %s", h.errorMessage(err))
		}
		return outgoingFrame{Type: frameError, Data: h.errorMessage(err)}
	}
	return outgoingFrame{Type: frameTranscript, Data: history}
}
