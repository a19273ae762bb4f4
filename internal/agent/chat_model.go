package agent

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/taskative-core/server/internal/agent/model"
	logx "github.com/taskative-core/server/pkg/logger"
)

// ChatModelParams carries everything needed to construct the Gemini chat
// model. The genai client is built here and owned by the returned model;
// lifecycle belongs to process startup, not a package global.
type ChatModelParams struct {
	APIKey  string
	BaseURL string
	Config  model.ChatModelConfig
}

// NewChatModel creates the Gemini chat model and binds the task toolset to
// it.
func NewChatModel(ctx context.Context, params ChatModelParams, toolInfos []*schema.ToolInfo) (*gemini.ChatModel, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  params.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if params.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = params.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	cm, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       params.Config.Model,
		Temperature: &params.Config.Temperature,
		MaxTokens:   &params.Config.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("error creating chat model")
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}

	if err := cm.BindTools(toolInfos); err != nil {
		logx.Error().Err(err).Msg("failed to bind tools")
		return nil, fmt.Errorf("failed to bind tools: %w", err)
	}

	logx.Debug().Str("model", params.Config.Model).Int("tools", len(toolInfos)).Msg("chat model ready")
	return cm, nil
}
