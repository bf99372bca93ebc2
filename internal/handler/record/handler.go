package record

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/talk-agent/backend/internal/model/record"
	"github.com/zhouzirui/talk-agent/backend/pkg/utils"
)

// Handler 记录集合的HTTP处理器
type Handler[T record.Record[T]] struct {
	store      record.Store[T]
	collection string
}

// New 创建记录处理器。collection 为空时只挂载 /records。
func New[T record.Record[T]](store record.Store[T], collection string) *Handler[T] {
	return &Handler[T]{store: store, collection: collection}
}

// RegisterRoutes 注册记录相关的路由，同时挂载在 /records 与集合名下
func (h *Handler[T]) RegisterRoutes(r chi.Router) {
	mount := func(prefix string) {
		r.Route(prefix, func(sub chi.Router) {
			sub.Get("/", h.handleList)
			sub.Get("/{id}", h.handleGet)
			sub.Delete("/{id}", h.handleDelete)
		})
	}

	mount("/records")
	if h.collection != "" && h.collection != "records" {
		mount("/" + h.collection)
	}
}

// handleList 列出全部记录
func (h *Handler[T]) handleList(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.List())
}

// handleGet 按 id 获取记录
func (h *Handler[T]) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := h.store.Get(id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "record not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, rec)
}

// handleDelete 删除记录，不存在时同样返回 204
func (h *Handler[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if h.store.Delete(id) {
		log.Printf("[record] deleted %s/%s", h.collection, id)
	}
	utils.RespondNoContent(w)
}
