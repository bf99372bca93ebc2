package config

import (
	"context"
	"errors"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "AGENT", "AGENT_MAX_TURNS", "LLM_PROVIDER",
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
		"ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY", "Model",
		"ARK_TEMPERATURE", "ARK_TOP_P", "ARK_MAX_TOKENS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":5000" {
		t.Fatalf("expected :5000, got %q", cfg.Server.Addr)
	}
	if cfg.Agent.Kind != AgentTalks || cfg.Agent.MaxTurns != 10 {
		t.Fatalf("unexpected agent config %+v", cfg.Agent)
	}
	if cfg.AI.Provider != ProviderOpenAI || cfg.AI.OpenAI.Model != "gpt-5-mini" {
		t.Fatalf("unexpected ai config %+v", cfg.AI)
	}
	if cfg.AI.Enabled() || cfg.AI.MissingCredential() != "OPENAI_API_KEY" {
		t.Fatalf("expected missing OPENAI_API_KEY, got %q", cfg.AI.MissingCredential())
	}
}

func TestLoadServerAddr(t *testing.T) {
	clearEnv(t)

	cases := map[string]string{
		"8080":           ":8080",
		":9000":          ":9000",
		"127.0.0.1:7000": "127.0.0.1:7000",
	}
	for port, want := range cases {
		t.Setenv("PORT", port)
		cfg, err := loadServerConfig()
		if err != nil {
			t.Fatalf("PORT=%q err: %v", port, err)
		}
		if cfg.Addr != want {
			t.Fatalf("PORT=%q: got %q want %q", port, cfg.Addr, want)
		}
	}

	t.Setenv("PORT", "80 80")
	if _, err := loadServerConfig(); err == nil {
		t.Fatal("expected error for port with space")
	}
}

func TestLoadAgentConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("AGENT", "Monsters")
	t.Setenv("AGENT_MAX_TURNS", "0")

	cfg, err := loadAgentConfig()
	if err != nil {
		t.Fatalf("loadAgentConfig err: %v", err)
	}
	if cfg.Kind != AgentMonsters || cfg.MaxTurns != 0 {
		t.Fatalf("unexpected agent config %+v", cfg)
	}

	t.Setenv("AGENT", "dragons")
	if _, err := loadAgentConfig(); err == nil {
		t.Fatal("expected error for unknown agent")
	}

	t.Setenv("AGENT", "")
	t.Setenv("AGENT_MAX_TURNS", "-1")
	if _, err := loadAgentConfig(); err == nil {
		t.Fatal("expected error for negative turns")
	}
}

func TestLoadAIConfigRejectsUnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "llama")

	if _, err := loadAIConfig(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestArkCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "ark")
	t.Setenv("ARK_ACCESS_KEY", "ak")
	t.Setenv("ARK_SECRET_KEY", "sk")

	cfg, err := loadAIConfig()
	if err != nil {
		t.Fatalf("loadAIConfig err: %v", err)
	}
	if got := cfg.MissingCredential(); got != "Model" {
		t.Fatalf("expected Model missing, got %q", got)
	}

	if _, err := cfg.NewChatModel(context.Background()); !errors.Is(err, ErrCredentialsMissing) {
		t.Fatalf("expected ErrCredentialsMissing, got %v", err)
	}

	t.Setenv("Model", "doubao-pro")
	cfg, err = loadAIConfig()
	if err != nil {
		t.Fatalf("loadAIConfig err: %v", err)
	}
	if !cfg.Enabled() {
		t.Fatalf("expected ark config enabled, missing %q", cfg.MissingCredential())
	}
}

func TestNewChatModelWithAPIKey(t *testing.T) {
	temperature := 0.3
	cfg := AIConfig{
		Provider: ProviderArk,
		Ark: ArkConfig{
			APIKey:      "ark-test",
			Model:       "doubao-test",
			BaseURL:     "https://ark.cn-beijing.volces.com/api/v3",
			Region:      "cn-beijing",
			Temperature: &temperature,
		},
	}

	chatModel, err := cfg.NewChatModel(context.Background())
	if err != nil {
		t.Fatalf("NewChatModel err: %v", err)
	}
	if chatModel == nil {
		t.Fatal("expected chat model")
	}
}

func TestInvalidNumericEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ARK_TEMPERATURE", "warm")

	if _, err := loadAIConfig(); err == nil {
		t.Fatal("expected error for non-numeric temperature")
	}
}
