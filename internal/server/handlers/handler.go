package handlers

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"time"

	"github.com/shouni/go-comic-kit/pkg/pipeline"
)

const (
	titleSuffix = " - Comic Kit"
	layoutName  = "layout.html"

	// defaultGenerateTimeout は1リクエストで漫画生成に使える時間の上限です。
	defaultGenerateTimeout = 5 * time.Minute
)

//go:embed templates/*.html
var templateFS embed.FS

// ComicGenerator はアイデアから漫画を生成します。
type ComicGenerator interface {
	Generate(ctx context.Context, prompt string) (*pipeline.Result, error)
}

// Handler は Web UI のハンドラ群です。
type Handler struct {
	generator     ComicGenerator
	templateCache map[string]*template.Template
	timeout       time.Duration
}

// NewHandler は埋め込みテンプレートをコンパイルし、新しいハンドラーを初期化します。
func NewHandler(generator ComicGenerator, timeout time.Duration) (*Handler, error) {
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}

	pagePaths, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("ページテンプレートの検索に失敗しました: %w", err)
	}

	cache := make(map[string]*template.Template)
	for _, pagePath := range pagePaths {
		pageName := path.Base(pagePath)
		if pageName == layoutName {
			continue
		}

		tmpl, err := template.New(pageName).ParseFS(templateFS, "templates/"+layoutName, pagePath)
		if err != nil {
			return nil, fmt.Errorf("テンプレート %s の解析に失敗しました: %w", pageName, err)
		}
		cache[pageName] = tmpl
	}

	return &Handler{
		generator:     generator,
		templateCache: cache,
		timeout:       timeout,
	}, nil
}
