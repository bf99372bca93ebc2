package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/talk-agent/backend/internal/model/transcript"
	"github.com/zhouzirui/talk-agent/backend/internal/service/agent"
	"github.com/zhouzirui/talk-agent/backend/pkg/utils"
)

// ErrProviderUnavailable 表示模型凭证缺失，无法处理对话。
var ErrProviderUnavailable = errors.New("provider unavailable")

const invalidChatMessage = "Invalid request: chat must be an array"

// Runner 执行一轮 agent 对话。
type Runner interface {
	Run(ctx context.Context, input []transcript.Item, observe agent.Observer) (*agent.Result, error)
}

// Handler 对话接口的HTTP处理器
type Handler struct {
	runner Runner
	// unavailable 是模型服务创建失败的原因，runner 为空时原样返回给客户端。
	unavailable string
}

// New 创建对话处理器。runner 为 nil 时对话接口返回 500，错误信息为 unavailable。
func New(runner Runner, unavailable string) *Handler {
	if unavailable == "" {
		unavailable = ErrProviderUnavailable.Error()
	}
	return &Handler{runner: runner, unavailable: unavailable}
}

// RegisterRoutes 注册对话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/chat/stream", h.handleStream)
	r.Get("/chat/ws", h.handleWebSocket)
}

type chatRequest struct {
	Chat json.RawMessage `json:"chat"`
}

// handleChat 执行一轮对话并返回客户端格式的完整记录
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	input, err := decodeChat(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, invalidChatMessage)
		return
	}

	history, err := h.run(r.Context(), input, nil)
	if err != nil {
		utils.RespondError(w, statusFor(err), h.errorMessage(err))
		return
	}

	utils.RespondJSON(w, http.StatusOK, history)
}

// run 驱动 agent 并把结果转换为客户端格式。
func (h *Handler) run(ctx context.Context, input []transcript.Item, observe agent.Observer) ([]transcript.Item, error) {
	if h.runner == nil {
		return nil, ErrProviderUnavailable
	}

	result, err := h.runner.Run(ctx, input, observe)
	if err != nil {
		log.Printf("[chat] agent run failed: %v", err)
		return nil, err
	}

	log.Printf("[chat] turn finished: provider_calls=%d history=%d", result.Turns, len(result.History))
	return transcript.ToClient(result.History), nil
}

func (h *Handler) errorMessage(err error) string {
	if errors.Is(err, ErrProviderUnavailable) {
		return h.unavailable
	}
	return err.Error()
}

func statusFor(err error) int {
	if errors.Is(err, ErrProviderUnavailable) {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func decodeChat(r *http.Request) ([]transcript.Item, error) {
	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return parseChat(payload.Chat)
}

func parseChat(raw json.RawMessage) ([]transcript.Item, error) {
	items, skipped, err := transcript.Decode(raw)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Printf("[chat] skipped %d unrecognised transcript item(s)", skipped)
	}
	return items, nil
}
