package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-comic-kit/internal/builder"
	"github.com/shouni/go-comic-kit/internal/config"
	"github.com/shouni/go-comic-kit/internal/metrics"
	"github.com/shouni/go-comic-kit/internal/runner"
	"github.com/shouni/go-comic-kit/pkg/backend"
	"github.com/shouni/go-comic-kit/pkg/publisher"
)

// ErrNoPanels は1枚もパネルを作れなかったことを表すのだ。
var ErrNoPanels = errors.New("no panels were created")

// Execute は、アイデアから漫画を生成し、出力ディレクトリへ保存するまでを一気通貫で実行するのだ。
func Execute(ctx context.Context, cfg *config.Config, prompt string) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveGeneration(start, err) }()

	appCtx, err := builder.BuildAppContext(ctx, cfg)
	if err != nil {
		return err
	}

	// --- Phase 1 & 2: 物語生成とパネル合成 ---
	slog.Info("漫画生成を開始するのだ...", "providers", appCtx.Providers, "max_beats", cfg.MaxBeats)
	res, err := appCtx.Comic.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("漫画の生成に失敗しました: %w", err)
	}

	for _, f := range res.Results.Failures() {
		slog.Warn("Failed to create panel for beat", "beat", f.Beat.Index+1, "text", f.Beat.Text, "error", f.Err)
	}
	if len(res.Panels()) == 0 {
		return ErrNoPanels
	}

	// --- Phase 3: Publish Phase (保存) ---
	pr := runner.NewDefaultPublisherRunner(cfg.OutputDir, publisher.NewComicPublisher(nil))
	out, err := pr.Run(ctx, res)
	if err != nil {
		return fmt.Errorf("パネルの保存に失敗しました: %w", err)
	}

	slog.Info("漫画の保存が完了したのだ！", "panels", len(out.ImagePaths), "markdown", out.MarkdownPath)
	return nil
}

// ExecutePanel は、手元の画像1枚にキャプションを合成して保存するのだ。
func ExecutePanel(ctx context.Context, cfg *config.Config, imagePath, caption, outputPath string) error {
	compositor := builder.BuildCompositor(cfg, backend.NewDoer(cfg.HTTPTimeout))
	return runner.NewPanelRunner(compositor, nil).Run(ctx, imagePath, caption, outputPath)
}
