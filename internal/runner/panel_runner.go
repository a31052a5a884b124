package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/shouni/go-comic-kit/pkg/domain"
	"github.com/shouni/go-comic-kit/pkg/pipeline"
	"github.com/shouni/go-comic-kit/pkg/publisher"
)

const localSource = "local"

// PanelRunner は手元の画像1枚にキャプションを合成してパネルを作るのだ。
// 画像バックエンドを使わないので、APIキーなしでレイアウトを確認できます。
type PanelRunner struct {
	compositor pipeline.Compositor
	writer     publisher.Writer
}

// NewPanelRunner は PanelRunner を生成します。writer が nil ならローカルに書き出します。
func NewPanelRunner(compositor pipeline.Compositor, writer publisher.Writer) *PanelRunner {
	if writer == nil {
		writer = publisher.LocalWriter{}
	}
	return &PanelRunner{compositor: compositor, writer: writer}
}

// Run は imagePath の画像を読み込み、caption を合成した PNG を outputPath に保存します。
func (r *PanelRunner) Run(ctx context.Context, imagePath, caption, outputPath string) error {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("画像ファイル '%s' の読み込みに失敗しました: %w", imagePath, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("画像ファイル '%s': %w", imagePath, domain.ErrEmptyInput)
	}

	buf := &domain.ImageBuffer{
		Data:     data,
		MimeType: http.DetectContentType(data),
		Source:   localSource,
	}
	img, err := r.compositor.Compose(ctx, buf, caption)
	if err != nil {
		return err
	}
	if img == nil {
		return domain.ErrCompositingFailed
	}

	panel := &domain.Panel{Caption: caption, Image: img, Source: localSource}
	encoded, err := panel.PNG()
	if err != nil {
		return err
	}
	if err := r.writer.Write(ctx, outputPath, bytes.NewReader(encoded), "image/png"); err != nil {
		return fmt.Errorf("画像の書き込みに失敗しました %s: %w", outputPath, err)
	}

	slog.InfoContext(ctx, "Panel saved", "input", imagePath, "output", outputPath)
	return nil
}
