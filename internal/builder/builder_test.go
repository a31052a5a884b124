package builder

import (
	"context"
	"strings"
	"testing"

	"github.com/shouni/go-comic-kit/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		StoryBackend:    config.StoryBackendOpenAI,
		OpenAIAPIKey:    "sk-openai",
		StabilityAPIKey: "sk-stability",
		OpenAIBaseURL:   config.DefaultOpenAIBaseURL,
		StabilityURL:    config.DefaultStabilityURL,
		ImageStyle:      config.DefaultImageStyle,
		MaxBeats:        4,
		Concurrency:     1,
		HTTPTimeout:     config.DefaultHTTPTimeout,
	}
}

func TestBuildImageProviders(t *testing.T) {
	t.Run("Stability を優先し DALL-E をフォールバックにすること", func(t *testing.T) {
		providers := BuildImageProviders(testConfig(), nil)
		if len(providers) != 2 || providers[0].Name() != "stability" || providers[1].Name() != "dall-e" {
			t.Errorf("想定外のプロバイダ: %v", providers)
		}
	})

	t.Run("キーのないバックエンドは含めないこと", func(t *testing.T) {
		cfg := testConfig()
		cfg.StabilityAPIKey = ""
		providers := BuildImageProviders(cfg, nil)
		if len(providers) != 1 || providers[0].Name() != "dall-e" {
			t.Errorf("想定外のプロバイダ: %v", providers)
		}
	})
}

func TestBuildAppContext(t *testing.T) {
	ctx := context.Background()

	t.Run("OpenAI 構成で組み立てられること", func(t *testing.T) {
		app, err := BuildAppContext(ctx, testConfig())
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if app.Comic == nil || app.Compositor == nil {
			t.Fatal("依存関係が組み立てられていません")
		}
		if strings.Join(app.Providers, ",") != "stability,dall-e" {
			t.Errorf("想定外のプロバイダ: %v", app.Providers)
		}
	})

	t.Run("画像バックエンドがなければエラーになること", func(t *testing.T) {
		cfg := testConfig()
		cfg.StabilityAPIKey = ""
		cfg.OpenAIAPIKey = ""
		if _, err := BuildAppContext(ctx, cfg); err == nil {
			t.Error("エラーが返されませんでした")
		}
	})

	t.Run("未知の物語バックエンドはエラーになること", func(t *testing.T) {
		cfg := testConfig()
		cfg.StoryBackend = "unknown"
		if _, err := BuildAppContext(ctx, cfg); err == nil {
			t.Error("エラーが返されませんでした")
		}
	})
}
