package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/talk-agent/backend/internal/config"
	"github.com/zhouzirui/talk-agent/backend/internal/handler"
	chatHandler "github.com/zhouzirui/talk-agent/backend/internal/handler/chat"
	profileHandler "github.com/zhouzirui/talk-agent/backend/internal/handler/profile"
	recordHandler "github.com/zhouzirui/talk-agent/backend/internal/handler/record"
	"github.com/zhouzirui/talk-agent/backend/internal/model/monster"
	"github.com/zhouzirui/talk-agent/backend/internal/model/profile"
	"github.com/zhouzirui/talk-agent/backend/internal/model/record"
	"github.com/zhouzirui/talk-agent/backend/internal/model/talk"
	"github.com/zhouzirui/talk-agent/backend/internal/service/agent"
	"github.com/zhouzirui/talk-agent/backend/internal/service/provider"
	"github.com/zhouzirui/talk-agent/backend/internal/service/toolset"
	"github.com/zhouzirui/talk-agent/backend/internal/tool"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	profiles := profile.NewMemoryStore(profile.Seed())
	active, ok := profiles.FindByCollection(cfg.Agent.Kind)
	if !ok {
		log.Fatalf("no agent profile for %q", cfg.Agent.Kind)
	}

	tools, records, err := buildCollection(cfg.Agent.Kind)
	if err != nil {
		log.Fatalf("failed to build tools: %v", err)
	}
	log.Printf("agent %q ready with tools %v", active.Name, tools.Names())

	var runner chatHandler.Runner
	var unavailable string
	llm, err := newProvider(ctx, cfg.AI, tools)
	if err != nil {
		unavailable = err.Error()
		log.Printf("warning: %v", err)
		log.Println("set the missing values in .env to use the chat API; record endpoints stay available")
	} else {
		runner = agent.New(llm, tools, agent.Config{
			Instructions: agent.BuildInstructions(active, tools),
			MaxTurns:     maxTurns(cfg.Agent.MaxTurns),
		})
		log.Printf("LLM provider %s initialized successfully", cfg.AI.Provider)
	}

	router := handler.NewRouter(
		chatHandler.New(runner, unavailable),
		profileHandler.New(profiles, active, tools.Names()),
		records,
	)

	startServer(ctx, cfg.Server, router)
}

// buildCollection creates the record store for the agent kind, its tools and
// the HTTP routes that expose it.
func buildCollection(kind string) (*tool.Registry, handler.RouteRegistrar, error) {
	switch kind {
	case config.AgentMonsters:
		store := record.NewMemoryStore[monster.Monster](nil, nil)
		tools, err := toolset.Monsters(store)
		return tools, recordHandler.New[monster.Monster](store, kind), err
	default:
		store := record.NewMemoryStore(talk.Seed(), nil)
		tools, err := toolset.Talks(store)
		return tools, recordHandler.New[talk.Talk](store, kind), err
	}
}

// newProvider builds the configured model provider. The ark model has the
// registry's tools bound once here.
func newProvider(ctx context.Context, cfg config.AIConfig, tools *tool.Registry) (agent.Provider, error) {
	if name := cfg.MissingCredential(); name != "" {
		return nil, fmt.Errorf("%s is not set", name)
	}

	switch cfg.Provider {
	case config.ProviderArk:
		chatModel, err := cfg.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		return provider.NewEino(chatModel, tools.Descriptors())
	default:
		return provider.NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model), nil
	}
}

// maxTurns maps the configured cap, where 0 means unlimited, onto agent.Config.
func maxTurns(configured int) int {
	if configured == 0 {
		return -1
	}
	return configured
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Talk agent backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
