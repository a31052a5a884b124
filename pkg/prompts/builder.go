package prompts

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/shouni/go-comic-kit/pkg/domain"
)

// Builder は埋め込みテンプレートから物語生成と画像生成のプロンプトを構築します。
type Builder struct {
	templates map[string]*template.Template
	style     string
	maxBeats  int
}

// NewBuilder は Builder を初期化します。style が空なら画像プロンプトはビート本文のみになります。
func NewBuilder(style string, maxBeats int) (*Builder, error) {
	parsed := make(map[string]*template.Template, len(allTemplates))
	for mode, content := range allTemplates {
		if content == "" {
			return nil, fmt.Errorf("プロンプトテンプレート '%s' (go:embed) の読み込みに失敗しました: 内容が空です", mode)
		}
		tmpl, err := template.New(mode).Option("missingkey=error").Parse(content)
		if err != nil {
			return nil, fmt.Errorf("プロンプト '%s' の解析に失敗: %w", mode, err)
		}
		parsed[mode] = tmpl
	}

	return &Builder{
		templates: parsed,
		style:     strings.TrimSpace(style),
		maxBeats:  maxBeats,
	}, nil
}

// Build は指定されたモードのテンプレートを実行します。
func (b *Builder) Build(mode string, data TemplateData) (string, error) {
	tmpl, ok := b.templates[mode]
	if !ok {
		return "", fmt.Errorf("不明なモードです: '%s'", mode)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// BuildStoryPrompt はアイデアを物語生成用の指示文に変換します。
func (b *Builder) BuildStoryPrompt(idea string) (string, error) {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return "", domain.ErrEmptyInput
	}
	return b.Build(ModeStory, TemplateData{InputText: idea, MaxBeats: b.maxBeats})
}

// BuildImagePrompt はビート本文に画風の指定を加えた画像プロンプトを返します。
func (b *Builder) BuildImagePrompt(beat domain.Beat) (string, error) {
	if strings.TrimSpace(beat.Text) == "" {
		return "", domain.ErrEmptyInput
	}
	return b.Build(ModeImage, TemplateData{InputText: beat.Text, Style: b.style})
}
