package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// ErrCredentialsMissing 表示所选模型服务缺少凭证。
var ErrCredentialsMissing = errors.New("model credentials missing")

// 支持的 agent 与模型服务。
const (
	AgentTalks    = "talks"
	AgentMonsters = "monsters"

	ProviderOpenAI = "openai"
	ProviderArk    = "ark"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	Agent  AgentConfig
	AI     AIConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	agent, err := loadAgentConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Agent: agent, AI: ai}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "5000"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":5000" 或 "127.0.0.1:5000"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AgentConfig 选择 agent 类型与每轮对话的模型调用上限。
type AgentConfig struct {
	Kind string
	// MaxTurns 为 0 时表示不限制。
	MaxTurns int
}

func loadAgentConfig() (AgentConfig, error) {
	kind := strings.ToLower(getEnvOrDefault("AGENT", AgentTalks))
	if kind != AgentTalks && kind != AgentMonsters {
		return AgentConfig{}, fmt.Errorf("invalid AGENT value %q: want %s or %s", kind, AgentTalks, AgentMonsters)
	}

	maxTurns := 10
	if override, err := parseOptionalIntEnv("AGENT_MAX_TURNS"); err != nil {
		return AgentConfig{}, err
	} else if override != nil {
		if *override < 0 {
			return AgentConfig{}, fmt.Errorf("invalid AGENT_MAX_TURNS value %d: must not be negative", *override)
		}
		maxTurns = *override
	}

	return AgentConfig{Kind: kind, MaxTurns: maxTurns}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider string
	OpenAI   OpenAIConfig
	Ark      ArkConfig
}

// OpenAIConfig 描述 OpenAI 兼容接口配置。
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// ArkConfig 描述火山方舟模型配置。
type ArkConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled 表示所选模型服务是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.MissingCredential() == ""
}

// MissingCredential 返回缺失的环境变量名，全部就绪时返回空串。
func (c AIConfig) MissingCredential() string {
	switch c.Provider {
	case ProviderArk:
		if c.Ark.APIKey == "" && (c.Ark.AccessKey == "" || c.Ark.SecretKey == "") {
			return "ARK_API_KEY"
		}
		if c.Ark.Model == "" {
			return "Model"
		}
	default:
		if c.OpenAI.APIKey == "" {
			return "OPENAI_API_KEY"
		}
	}
	return ""
}

// NewChatModel 使用 Ark 配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if name := (AIConfig{Provider: ProviderArk, Ark: c.Ark}).MissingCredential(); name != "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrCredentialsMissing, name)
	}

	var temperature *float32
	if c.Ark.Temperature != nil {
		val := float32(*c.Ark.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.Ark.TopP != nil {
		val := float32(*c.Ark.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.Ark.BaseURL,
		Region:      c.Ark.Region,
		APIKey:      c.Ark.APIKey,
		AccessKey:   c.Ark.AccessKey,
		SecretKey:   c.Ark.SecretKey,
		Model:       c.Ark.Model,
		MaxTokens:   c.Ark.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	provider := strings.ToLower(getEnvOrDefault("LLM_PROVIDER", ProviderOpenAI))
	if provider != ProviderOpenAI && provider != ProviderArk {
		return AIConfig{}, fmt.Errorf("invalid LLM_PROVIDER value %q: want %s or %s", provider, ProviderOpenAI, ProviderArk)
	}

	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		Provider: provider,
		OpenAI: OpenAIConfig{
			APIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			Model:   getEnvOrDefault("OPENAI_MODEL", "gpt-5-mini"),
			BaseURL: strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
		},
		Ark: ArkConfig{
			APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
			AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
			SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
			Model:       strings.TrimSpace(os.Getenv("Model")),
			BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
			Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
			Temperature: temperature,
			TopP:        topP,
			MaxTokens:   maxTokens,
		},
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
