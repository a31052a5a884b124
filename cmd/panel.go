package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/shouni/go-comic-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

var panelOutput string

// panelCmd は、手元の画像にキャプションを合成して1コマだけ作るのだ。
var panelCmd = &cobra.Command{
	Use:   "panel <image> <caption>",
	Short: "画像ファイルにキャプションを合成しますなのだ。",
	Long: `画像生成バックエンドを使わずに、指定した画像へ枠線・吹き出し・キャプションを合成するのだ。
APIキーは不要なので、フォントやレイアウトの確認に使えるのだよ。`,
	Args: cobra.ExactArgs(2),
	RunE: panelCommand,
}

func init() {
	panelCmd.Flags().StringVarP(&panelOutput, "out", "f", "", "出力する PNG のパスなのだ（省略時は出力ディレクトリの panel.png）。")
}

func panelCommand(cmd *cobra.Command, args []string) error {
	out := panelOutput
	if out == "" {
		out = filepath.Join(cfg.OutputDir, "panel.png")
	}
	if err := pipeline.ExecutePanel(cmd.Context(), cfg, args[0], args[1], out); err != nil {
		return fmt.Errorf("パネルの合成に失敗したのだ: %w", err)
	}
	return nil
}
