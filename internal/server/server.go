package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shouni/go-comic-kit/internal/builder"
	"github.com/shouni/go-comic-kit/internal/server/handlers"
)

const (
	// デフォルトのシャットダウン猶予時間
	defaultShutdownTimeout = 30 * time.Second
	// 漫画生成は数分かかるので、書き込みタイムアウトは長めにするのだ
	writeTimeout = 6 * time.Minute
)

// Run は、ハンドラとルーターを組み立て、サーバーのライフサイクルを管理します。
func Run(ctx context.Context, appCtx *builder.AppContext) error {
	h, err := handlers.NewHandler(appCtx.Comic, 0)
	if err != nil {
		return fmt.Errorf("failed to build handlers: %w", err)
	}

	port := appCtx.Config.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           NewRouter(h),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
	}

	// --- サーバー起動とシグナル待機 ---
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("🚀 Server starting...", "port", port, "providers", appCtx.Providers)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case <-ctx.Done():
		return shutdownServer(srv)

	case <-shutdown:
		return shutdownServer(srv)
	}

	return nil
}

func shutdownServer(srv *http.Server) error {
	slog.Info("⚠️ Starting graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed, forcing close", "error", err)

		// シャットダウンに失敗した場合は強制的にクローズしてリソースを解放する
		if closeErr := srv.Close(); closeErr != nil {
			return fmt.Errorf("could not stop server: shutdown error: %v, close error: %v", err, closeErr)
		}
		return fmt.Errorf("could not stop server gracefully: %w", err)
	}

	slog.Info("✅ Server stopped cleanly")
	return nil
}
