package ai_fx

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/fx"

	"holou/internal/config"
	"holou/pkg/logger"
	"holou/pkg/utils"
)

var Module = fx.Provide(provideAIClients)

// AIClients is the set of model backends. Any of them may be nil when no
// API key is configured; the services degrade instead of failing start-up.
type AIClients struct {
	fx.Out

	Text      utils.TextGenerator
	Images    utils.ImageGenerator
	Describer utils.ImageDescriber
}

func provideAIClients(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (AIClients, error) {
	var out AIClients

	var openai *utils.OpenAIClient
	if cfg.OpenAIAPIKey != "" {
		openai = utils.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAITextModel, cfg.OpenAIVisionModel)
		out.Images = openai
	} else {
		log.Warn("OPENAI_API_KEY not set, avatar generation is unavailable")
	}

	switch strings.ToLower(cfg.LLMProvider) {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			log.Warn("GEMINI_API_KEY not set, plans fall back to the static template")
			return out, nil
		}
		gemini, err := utils.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return out, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		lc.Append(fx.StopHook(gemini.Close))
		out.Text = gemini
		out.Describer = gemini
		log.Info("initialized gemini client", "model", cfg.GeminiModel)
	case "openai", "":
		if openai == nil {
			log.Warn("no text model configured, plans fall back to the static template")
			return out, nil
		}
		out.Text = openai
		out.Describer = openai
		log.Info("initialized openai client", "text_model", cfg.OpenAITextModel, "vision_model", cfg.OpenAIVisionModel)
	default:
		return out, fmt.Errorf("unsupported LLM provider: %s. Use 'openai' or 'gemini'", cfg.LLMProvider)
	}
	return out, nil
}
