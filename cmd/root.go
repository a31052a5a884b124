package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-comic-kit/internal/config"

	"github.com/spf13/cobra"
)

const appName = "comic-crafter"

var (
	// cfg は環境変数で初期化され、フラグで上書きされるのだ。
	cfg     = config.LoadConfig()
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "アイデアから4コマ漫画のパネルを生成するのだ。",
	Long: `短いアイデアから物語を生成し、ビートごとに画像を作って
枠線・吹き出し・キャプションを合成したパネルを出力するのだ。`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogger,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
// 既定値は環境変数から読み込んだ設定なので、フラグを指定したときだけ上書きされます。
func addAppFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "デバッグログを出力するのだ。")

	// --- 生成結果の出力設定 ---
	rootCmd.PersistentFlags().StringVarP(&cfg.OutputDir, "output-dir", "o", cfg.OutputDir, "パネル画像を保存するディレクトリなのだ。")
	rootCmd.PersistentFlags().StringVar(&cfg.FontPath, "font-path", cfg.FontPath, "キャプションに使う TrueType フォントのパスなのだ。")

	// --- AIモデル・挙動設定 ---
	rootCmd.PersistentFlags().StringVar(&cfg.StoryBackend, "story-backend", cfg.StoryBackend, "物語生成に使うバックエンド（gemini, openai）なのだ。")
	rootCmd.PersistentFlags().StringVar(&cfg.GeminiModel, "model", cfg.GeminiModel, "使用する Gemini モデル名なのだ。")
	rootCmd.PersistentFlags().StringVar(&cfg.ImageStyle, "image-style", cfg.ImageStyle, "画像プロンプトに付け加える画風の指示なのだ。")
	rootCmd.PersistentFlags().IntVarP(&cfg.MaxBeats, "max-beats", "b", cfg.MaxBeats, "生成する漫画パネルの最大数を指定するのだ。")
	rootCmd.PersistentFlags().IntVarP(&cfg.Concurrency, "concurrency", "c", cfg.Concurrency, "同時に処理するビート数なのだ。")
	rootCmd.PersistentFlags().DurationVar(&cfg.HTTPTimeout, "http-timeout", cfg.HTTPTimeout, "バックエンド呼び出しのタイムアウトなのだ。")
	rootCmd.PersistentFlags().DurationVar(&cfg.RateInterval, "rate-interval", cfg.RateInterval, "画像生成リクエストの最小間隔なのだ。")
}

// setupLogger は構造化ログの出力先とレベルを設定するのだ。
func setupLogger(_ *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

// preRunAppE は、コマンド実行前に APIキーなどの必須チェックを行うのだ。
func preRunAppE(_ *cobra.Command, _ []string) error {
	return config.ValidateEssentialConfig(cfg)
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(generateCmd, panelCmd, serveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("Application failed", "error", err)
		stop()
		os.Exit(1)
	}
}
