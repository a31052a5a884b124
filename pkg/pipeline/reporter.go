package pipeline

import (
	"context"
	"log/slog"

	"github.com/shouni/go-comic-kit/pkg/domain"
)

// Reporter はビート単位の進捗と失敗の通知を受け取ります。
// 並列実行時は複数のゴルーチンから呼ばれるので、実装は並行安全である必要があるのだ。
type Reporter interface {
	FallbackUsed(ctx context.Context, beat domain.Beat, provider string, cause error)
	BeatFailed(ctx context.Context, beat domain.Beat, err error)
	PanelReady(ctx context.Context, panel *domain.Panel)
}

// SlogReporter は通知を構造化ログとして出力します。
type SlogReporter struct {
	Logger *slog.Logger
}

func (r SlogReporter) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r SlogReporter) FallbackUsed(ctx context.Context, beat domain.Beat, provider string, cause error) {
	r.logger().WarnContext(ctx, "Falling back to next image provider",
		"beat", beat.Index+1, "provider", provider, "cause", cause)
}

func (r SlogReporter) BeatFailed(ctx context.Context, beat domain.Beat, err error) {
	r.logger().ErrorContext(ctx, "Failed to create panel",
		"beat", beat.Index+1, "text", beat.Text, "error", err)
}

func (r SlogReporter) PanelReady(ctx context.Context, panel *domain.Panel) {
	r.logger().InfoContext(ctx, "Panel ready", "beat", panel.Index+1, "source", panel.Source)
}

// MultiReporter は登録された Reporter すべてに順番に通知します。
type MultiReporter []Reporter

func (m MultiReporter) FallbackUsed(ctx context.Context, beat domain.Beat, provider string, cause error) {
	for _, r := range m {
		r.FallbackUsed(ctx, beat, provider, cause)
	}
}

func (m MultiReporter) BeatFailed(ctx context.Context, beat domain.Beat, err error) {
	for _, r := range m {
		r.BeatFailed(ctx, beat, err)
	}
}

func (m MultiReporter) PanelReady(ctx context.Context, panel *domain.Panel) {
	for _, r := range m {
		r.PanelReady(ctx, panel)
	}
}
