package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-comic-kit/internal/config"
	"github.com/shouni/go-comic-kit/internal/metrics"
	"github.com/shouni/go-comic-kit/pkg/backend"
	"github.com/shouni/go-comic-kit/pkg/layout"
	"github.com/shouni/go-comic-kit/pkg/pipeline"
	"github.com/shouni/go-comic-kit/pkg/prompts"
)

// BuildAppContext は外部サービスのクライアントを初期化し、依存関係を組み立てます。
func BuildAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	// 1. 基盤クライアントの初期化
	httpClient := backend.NewDoer(cfg.HTTPTimeout)

	// 2. 物語生成バックエンド
	storyGen, err := BuildStoryGenerator(ctx, cfg, httpClient)
	if err != nil {
		return nil, err
	}

	// 3. 画像生成バックエンド（優先順）
	providers := BuildImageProviders(cfg, httpClient)
	if len(providers) == 0 {
		return nil, fmt.Errorf("画像生成バックエンドが1つも設定されていません")
	}

	// 4. プロンプトと合成器
	pb, err := prompts.NewBuilder(cfg.ImageStyle, cfg.MaxBeats)
	if err != nil {
		return nil, fmt.Errorf("プロンプトビルダーの初期化に失敗しました: %w", err)
	}
	compositor := BuildCompositor(cfg, httpClient)

	// 5. パイプラインの構築
	pl := pipeline.NewPipeline(compositor, providers, pipeline.Options{
		Concurrency:    cfg.Concurrency,
		RateInterval:   cfg.RateInterval,
		BackendTimeout: cfg.HTTPTimeout,
		Reporter:       pipeline.MultiReporter{pipeline.SlogReporter{}, metrics.Reporter{}},
		Prompts:        pb,
	})

	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}
	slog.InfoContext(ctx, "AppContext initialized",
		"story_backend", cfg.StoryBackend,
		"image_providers", names,
		"max_beats", cfg.MaxBeats,
		"concurrency", cfg.Concurrency,
	)

	return &AppContext{
		Config:     cfg,
		Comic:      pipeline.NewComic(storyGen, pb, pl, pipeline.ComicOptions{
			MaxBeats:     cfg.MaxBeats,
			StoryTimeout: cfg.HTTPTimeout,
		}),
		Compositor: compositor,
		Providers:  names,
	}, nil
}

// BuildStoryGenerator は設定に応じた物語生成バックエンドを構築します。
func BuildStoryGenerator(ctx context.Context, cfg *config.Config, httpClient backend.Doer) (pipeline.StoryGenerator, error) {
	switch cfg.StoryBackend {
	case config.StoryBackendGemini:
		aiClient, err := backend.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		return backend.NewGeminiStory(aiClient, cfg.GeminiModel), nil
	case config.StoryBackendOpenAI:
		return backend.NewOpenAIStory(httpClient, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIChatModel), nil
	default:
		return nil, fmt.Errorf("サポートされていない物語バックエンド: '%s'", cfg.StoryBackend)
	}
}

// BuildImageProviders は認証情報のある画像バックエンドを優先順（Stability → DALL-E）に並べます。
func BuildImageProviders(cfg *config.Config, httpClient backend.Doer) []pipeline.ImageProvider {
	var providers []pipeline.ImageProvider
	if cfg.StabilityAPIKey != "" {
		providers = append(providers, backend.NewStabilityImage(httpClient, cfg.StabilityURL, cfg.StabilityAPIKey))
	}
	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, backend.NewOpenAIImage(httpClient, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIImageModel))
	}
	return providers
}

// BuildCompositor はフォントとURL画像の取得を備えたパネル合成器を構築します。
func BuildCompositor(cfg *config.Config, httpClient backend.Doer) *layout.Compositor {
	fonts := layout.NewFontLoader(cfg.FontPath)
	fetcher := backend.NewHTTPFetcher(httpClient, backend.DefaultFetchCacheTTL)
	return layout.NewCompositor(fonts, fetcher, layout.DefaultStyle())
}
