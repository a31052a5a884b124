package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shouni/go-comic-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// generateCmd は、アイデアから物語とパネル画像の生成を実行するのだ。
var generateCmd = &cobra.Command{
	Use:   "generate [idea]",
	Short: "アイデアから漫画パネルを生成しますなのだ。",
	Long: `アイデアから短い物語を生成し、最大4つのビートに分けてパネル画像を作るのだ。
成功したパネルは panel_1.png から順に保存され、まとめの comic.md も出力されるのだよ。
引数を省略した場合は標準入力からアイデアを読み込むのだ。`,
	PreRunE: preRunAppE,
	RunE:    generateCommand,
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	idea := strings.TrimSpace(strings.Join(args, " "))
	if idea == "" && isStdin() {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("標準入力の読み込みに失敗したのだ: %w", err)
		}
		idea = strings.TrimSpace(string(data))
	}
	if idea == "" {
		return fmt.Errorf("アイデアを引数か標準入力で指定してほしいのだ")
	}

	slog.Info("漫画生成パイプラインを起動するのだ！",
		"story_backend", cfg.StoryBackend,
		"max_beats", cfg.MaxBeats,
		"output", cfg.OutputDir)

	if err := pipeline.Execute(ctx, cfg, idea); err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！")
	return nil
}

func isStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
