package prompts

import (
	_ "embed"
)

const (
	ModeStory = "story"
	ModeImage = "image"
)

// TemplateData はプロンプトテンプレートに渡すデータ構造です。
type TemplateData struct {
	InputText string
	MaxBeats  int
	Style     string
}

var (
	//go:embed story.md
	StoryPrompt string
	//go:embed image.md
	ImagePrompt string
)

// allTemplates はモードとテンプレート文字列を紐づけるマップなのだ。
var allTemplates = map[string]string{
	ModeStory: StoryPrompt,
	ModeImage: ImagePrompt,
}
