package pipeline

import (
	"context"
	"image"

	"github.com/shouni/go-comic-kit/pkg/domain"
)

// StoryGenerator はアイデアから短い物語を生成するテキストバックエンドです。
type StoryGenerator interface {
	GenerateStory(ctx context.Context, prompt string) (string, error)
}

// ImageProvider は画像生成バックエンドです。優先順に並べたリストとして扱われます。
type ImageProvider interface {
	Name() string
	GenerateImage(ctx context.Context, prompt string) (*domain.ImageBuffer, error)
}

// Compositor は画像にキャプション付きの装飾を合成します。
type Compositor interface {
	Compose(ctx context.Context, buf *domain.ImageBuffer, caption string) (image.Image, error)
}

// StoryPromptBuilder はユーザーのアイデアを物語生成用の指示文に変換します。
type StoryPromptBuilder interface {
	BuildStoryPrompt(idea string) (string, error)
}

// ImagePromptBuilder はビートを画像生成用のプロンプトに変換します。
type ImagePromptBuilder interface {
	BuildImagePrompt(beat domain.Beat) (string, error)
}
