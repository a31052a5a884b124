package cmd

import (
	"fmt"

	"github.com/shouni/go-comic-kit/internal/builder"
	"github.com/shouni/go-comic-kit/internal/server"

	"github.com/spf13/cobra"
)

// serveCmd は、ブラウザから漫画を生成できる Web UI を起動するのだ。
var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Web UI を起動しますなのだ。",
	PreRunE: preRunAppE,
	RunE:    serveCommand,
}

func init() {
	serveCmd.Flags().StringVarP(&cfg.Port, "port", "p", cfg.Port, "待ち受けるポート番号なのだ。")
}

func serveCommand(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	appCtx, err := builder.BuildAppContext(ctx, cfg)
	if err != nil {
		return fmt.Errorf("アプリケーションの構築に失敗したのだ: %w", err)
	}
	return server.Run(ctx, appCtx)
}
