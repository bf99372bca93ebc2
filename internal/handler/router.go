package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/talk-agent/backend/internal/handler/chat"
	"github.com/zhouzirui/talk-agent/backend/internal/handler/profile"
	middlewarePkg "github.com/zhouzirui/talk-agent/backend/internal/middleware"
)

// RouteRegistrar is a handler group mounted under /api.
type RouteRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// NewRouter wires HTTP routes to the agent and its record collection.
func NewRouter(chatHandler *chat.Handler, agentHandler *profile.Handler, records RouteRegistrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		agentHandler.RegisterRoutes(api)
		records.RegisterRoutes(api)
	})

	return r
}
