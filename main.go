package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/taskative-core/server/internal/agent"
	"github.com/taskative-core/server/internal/agent/model"
	"github.com/taskative-core/server/internal/agent/tools"
	"github.com/taskative-core/server/internal/api"
	"github.com/taskative-core/server/internal/core"
	"github.com/taskative-core/server/internal/store"
	logx "github.com/taskative-core/server/pkg/logger"
)

// AppConfig defines all configurable parameters for the service, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Component configs
	Store     store.Config
	ChatModel model.ChatModelConfig
	Agent     model.AgentConfig
}

func main() {
	ctx := context.Background()

	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	env := core.ParseEnvironment(cfg.Environment)
	logx.Init(logx.LoggerOpts{Environment: env})

	st, err := store.Open(cfg.Store)
	if err != nil {
		logx.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("failed to open store")
	}
	defer st.Close()

	taskTools := tools.TaskTools(st)
	toolInfos, err := tools.ToolInfos(ctx, taskTools)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to collect tool schemas")
	}
	dispatcher, err := tools.NewDispatcher(ctx, taskTools)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build tool dispatch table")
	}

	cm, err := agent.NewChatModel(ctx, agent.ChatModelParams{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Config:  cfg.ChatModel,
	}, toolInfos)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise chat model")
	}

	runner := agent.NewRunner(cm, dispatcher, cfg.Agent)

	router := api.SetupRouter(env, st, runner)

	logx.Info().
		Str("addr", cfg.HTTPAddr).
		Str("model", cfg.ChatModel.Model).
		Str("environment", env.String()).
		Msg("starting server")
	if err := router.Run(cfg.HTTPAddr); err != nil {
		logx.Fatal().Err(err).Msg("server exited")
	}
}
