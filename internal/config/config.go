package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	StoryBackendGemini = "gemini"
	StoryBackendOpenAI = "openai"

	DefaultStoryBackend     = StoryBackendGemini
	DefaultGeminiModel      = "gemini-3-flash-preview"
	DefaultOpenAIBaseURL    = "https://api.openai.com/v1"
	DefaultOpenAIChatModel  = "gpt-4o-mini"
	DefaultOpenAIImageModel = "dall-e-3"
	DefaultStabilityURL     = "https://api.stability.ai/v2beta/stable-image/generate/core"
	DefaultFontPath         = "arial.ttf"
	DefaultMaxBeats         = 4
	DefaultConcurrency      = 1
	DefaultHTTPTimeout      = 60 * time.Second
	DefaultRateInterval     = 0 * time.Second
	DefaultPort             = "8080"
	DefaultOutputDir        = "output"
	// DefaultImageStyle は空なので、画像プロンプトは既定でビート本文そのままなのだ
	DefaultImageStyle = ""
)

// Config はアプリケーション全体の環境設定（APIキーやバックエンド設定）を保持する構造体なのだ。
type Config struct {
	GeminiAPIKey    string
	OpenAIAPIKey    string
	StabilityAPIKey string

	StoryBackend     string
	GeminiModel      string
	OpenAIBaseURL    string
	OpenAIChatModel  string
	OpenAIImageModel string
	StabilityURL     string
	ImageStyle       string

	FontPath     string
	MaxBeats     int
	Concurrency  int
	HTTPTimeout  time.Duration
	RateInterval time.Duration

	Port      string
	OutputDir string
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
// 数値や期間として解釈できない値は既定値に戻します。
func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey:    envutil.GetEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:    envutil.GetEnv("OPENAI_API_KEY", ""),
		StabilityAPIKey: envutil.GetEnv("STABILITY_API_KEY", ""),

		StoryBackend:     strings.ToLower(envutil.GetEnv("STORY_BACKEND", DefaultStoryBackend)),
		GeminiModel:      envutil.GetEnv("GEMINI_MODEL", DefaultGeminiModel),
		OpenAIBaseURL:    envutil.GetEnv("OPENAI_BASE_URL", DefaultOpenAIBaseURL),
		OpenAIChatModel:  envutil.GetEnv("OPENAI_CHAT_MODEL", DefaultOpenAIChatModel),
		OpenAIImageModel: envutil.GetEnv("OPENAI_IMAGE_MODEL", DefaultOpenAIImageModel),
		StabilityURL:     envutil.GetEnv("STABILITY_URL", DefaultStabilityURL),
		ImageStyle:       envutil.GetEnv("IMAGE_STYLE", DefaultImageStyle),

		FontPath:     envutil.GetEnv("FONT_PATH", DefaultFontPath),
		MaxBeats:     atoiOr(envutil.GetEnv("MAX_BEATS", ""), DefaultMaxBeats),
		Concurrency:  atoiOr(envutil.GetEnv("CONCURRENCY", ""), DefaultConcurrency),
		HTTPTimeout:  durationOr(envutil.GetEnv("HTTP_TIMEOUT", ""), DefaultHTTPTimeout),
		RateInterval: durationOr(envutil.GetEnv("RATE_INTERVAL", ""), DefaultRateInterval),

		Port:      envutil.GetEnv("PORT", DefaultPort),
		OutputDir: envutil.GetEnv("OUTPUT_DIR", DefaultOutputDir),
	}
}

// ValidateEssentialConfig は選択されたバックエンドに必要な認証情報が揃っているかを確認するのだ。
// 画像バックエンドは少なくとも1つ使えれば良いので、両方のキーがない場合だけエラーにします。
func ValidateEssentialConfig(cfg *Config) error {
	var errs []error

	switch cfg.StoryBackend {
	case StoryBackendGemini:
		if cfg.GeminiAPIKey == "" {
			errs = append(errs, errors.New("環境変数 GEMINI_API_KEY が設定されていません"))
		}
	case StoryBackendOpenAI:
		if cfg.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("環境変数 OPENAI_API_KEY が設定されていません"))
		}
	default:
		errs = append(errs, fmt.Errorf("サポートされていない STORY_BACKEND: '%s' (gemini, openai)", cfg.StoryBackend))
	}

	if cfg.StabilityAPIKey == "" && cfg.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("画像生成には STABILITY_API_KEY か OPENAI_API_KEY のどちらかが必要です"))
	}
	if cfg.MaxBeats <= 0 {
		errs = append(errs, fmt.Errorf("MAX_BEATS は 1 以上である必要があります: %d", cfg.MaxBeats))
	}

	return errors.Join(errs...)
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func durationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return d
}
