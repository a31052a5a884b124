package backend

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shouni/go-comic-kit/pkg/domain"

	"github.com/shouni/go-gemini-client/gemini"
	"google.golang.org/genai"
)

// DefaultGeminiModel は物語生成に使う Gemini モデルです。
const DefaultGeminiModel = "gemini-3-flash-preview"

// defaultGeminiTemperature は物語の揺れを抑えるための温度なのだ。
const defaultGeminiTemperature = float32(0.2)

// NewGeminiClient は API キーから Gemini クライアントを初期化します。
func NewGeminiClient(ctx context.Context, apiKey string) (gemini.GenerativeModel, error) {
	client, err := gemini.NewClient(ctx, gemini.Config{
		APIKey:      apiKey,
		Temperature: genai.Ptr(defaultGeminiTemperature),
	})
	if err != nil {
		return nil, fmt.Errorf("AIクライアントの初期化に失敗しました: %w", err)
	}
	return client, nil
}

// geminiGenerateFunc はモデル名とプロンプトを受け取り、生成されたテキストを返します。
type geminiGenerateFunc func(ctx context.Context, modelName, prompt string) (string, error)

// GeminiStory は Gemini で物語を生成します。
type GeminiStory struct {
	generate geminiGenerateFunc
	model    string
}

// NewGeminiStory は GeminiStory を生成します。
func NewGeminiStory(client gemini.ContentGenerator, model string) *GeminiStory {
	var generate geminiGenerateFunc
	if client != nil {
		generate = func(ctx context.Context, modelName, prompt string) (string, error) {
			resp, err := client.GenerateContent(ctx, modelName, prompt)
			if err != nil {
				return "", err
			}
			return resp.Text, nil
		}
	}
	return newGeminiStory(generate, model)
}

func newGeminiStory(generate geminiGenerateFunc, model string) *GeminiStory {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiStory{generate: generate, model: model}
}

func (g *GeminiStory) GenerateStory(ctx context.Context, prompt string) (string, error) {
	if err := requirePrompt(prompt); err != nil {
		return "", err
	}
	if g.generate == nil {
		return "", fmt.Errorf("%w: gemini client is not configured", domain.ErrBackendFailure)
	}

	slog.InfoContext(ctx, "Calling Gemini API", "model", g.model)
	text, err := g.generate(ctx, g.model, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %w", domain.ErrBackendFailure, err)
	}
	return strings.TrimSpace(text), nil
}
