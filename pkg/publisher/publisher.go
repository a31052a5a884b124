package publisher

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/shouni/go-comic-kit/pkg/pipeline"
)

const defaultMarkdownName = "comic.md"

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir string
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	MarkdownPath string
	ImagePaths   []string // 表示順に並んだパネル画像のパス
}

// ComicPublisher は生成した漫画を PNG と Markdown として書き出すのだ。
type ComicPublisher struct {
	writer Writer
}

// NewComicPublisher は ComicPublisher を生成します。writer が nil ならローカルに書き出します。
func NewComicPublisher(writer Writer) *ComicPublisher {
	if writer == nil {
		writer = LocalWriter{}
	}
	return &ComicPublisher{writer: writer}
}

// Publish はパネル画像を panel_1.png から順に保存し、最後に Markdown を書き出すのだ！
// 失敗したビートには番号を割り当てないので、ファイル名は常に連番になります。
func (p *ComicPublisher) Publish(ctx context.Context, res *pipeline.Result, opts Options) (PublishResult, error) {
	result := PublishResult{}
	if res == nil {
		return result, fmt.Errorf("nothing to publish")
	}

	panels := res.Panels()
	for i, panel := range panels {
		data, err := panel.PNG()
		if err != nil {
			return result, err
		}
		fullPath, err := ResolveOutputPath(opts.OutputDir, PanelFileName(i+1))
		if err != nil {
			return result, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
		}
		if err := p.writer.Write(ctx, fullPath, bytes.NewReader(data), "image/png"); err != nil {
			return result, fmt.Errorf("画像の書き込みに失敗しました %s: %w", fullPath, err)
		}
		result.ImagePaths = append(result.ImagePaths, fullPath)
	}

	relative := make([]string, 0, len(result.ImagePaths))
	for _, fp := range result.ImagePaths {
		relative = append(relative, filepath.Base(fp))
	}

	markdown, err := ResolveOutputPath(opts.OutputDir, defaultMarkdownName)
	if err != nil {
		return result, err
	}
	content := BuildMarkdown(res, relative)
	if err := p.writer.Write(ctx, markdown, strings.NewReader(content), "text/markdown; charset=utf-8"); err != nil {
		return result, fmt.Errorf("markdownファイルの書き込みに失敗しました: %w", err)
	}
	result.MarkdownPath = markdown

	slog.InfoContext(ctx, "Comic published", "dir", opts.OutputDir, "panels", len(panels), "markdown", markdown)
	return result, nil
}
