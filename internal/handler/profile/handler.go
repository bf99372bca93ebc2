package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/talk-agent/backend/internal/model/profile"
	"github.com/zhouzirui/talk-agent/backend/pkg/utils"
)

// Handler agent 信息的HTTP处理器
type Handler struct {
	profiles profile.Store
	active   profile.Profile
	tools    []string
}

// New 创建 agent 信息处理器
func New(profiles profile.Store, active profile.Profile, tools []string) *Handler {
	return &Handler{
		profiles: profiles,
		active:   active,
		tools:    append([]string(nil), tools...),
	}
}

// RegisterRoutes 注册 agent 相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/agent", h.handleActive)
	r.Get("/agents", h.handleList)
}

type activeResponse struct {
	profile.Profile
	Tools []string `json:"tools"`
}

// handleActive 返回当前运行的 agent 及其工具
func (h *Handler) handleActive(w http.ResponseWriter, r *http.Request) {
	tools := h.tools
	if tools == nil {
		tools = []string{}
	}
	utils.RespondJSON(w, http.StatusOK, activeResponse{Profile: h.active, Tools: tools})
}

// handleList 列出所有内置 agent
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.profiles.List())
}
