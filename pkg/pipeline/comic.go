package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/go-comic-kit/pkg/domain"
	"github.com/shouni/go-comic-kit/pkg/story"
)

// Result は1回の漫画生成の成果物です。
type Result struct {
	Prompt  string
	Story   string
	Beats   []domain.Beat
	Results domain.BeatResults
}

// Panels は表示するパネルをビート順に返します。失敗したビートは含まれません。
func (r *Result) Panels() []*domain.Panel {
	if r == nil {
		return nil
	}
	return r.Results.Panels()
}

// ComicOptions は Comic の実行時パラメータです。ゼロ値の項目には既定値が使われます。
type ComicOptions struct {
	MaxBeats     int
	StoryTimeout time.Duration // 物語バックエンド1回あたりの待ち時間の上限
}

// Comic はアイデアから物語を生成し、ビートに分割してパネル化するまでを一気通貫で実行します。
type Comic struct {
	story        StoryGenerator
	prompts      StoryPromptBuilder
	pipeline     *Pipeline
	maxBeats     int
	storyTimeout time.Duration
}

// NewComic は Comic を生成します。prompts が nil の場合、アイデアをそのまま物語生成に渡します。
func NewComic(sg StoryGenerator, prompts StoryPromptBuilder, pl *Pipeline, opts ComicOptions) *Comic {
	c := &Comic{
		story:        sg,
		prompts:      prompts,
		pipeline:     pl,
		maxBeats:     opts.MaxBeats,
		storyTimeout: opts.StoryTimeout,
	}
	if c.maxBeats <= 0 {
		c.maxBeats = story.DefaultMaxBeats
	}
	if c.storyTimeout <= 0 {
		c.storyTimeout = DefaultBackendTimeout
	}
	return c
}

// Generate はアイデアから漫画のパネル群を生成します。
// 物語の生成やビートへの分割に失敗した場合は、それまでに得られた内容を Result に入れたままエラーを返すのだ。
func (c *Comic) Generate(ctx context.Context, prompt string) (*Result, error) {
	prompt = strings.TrimSpace(prompt)
	res := &Result{Prompt: prompt}
	if prompt == "" {
		return res, fmt.Errorf("prompt: %w", domain.ErrEmptyInput)
	}

	storyPrompt := prompt
	if c.prompts != nil {
		p, err := c.prompts.BuildStoryPrompt(prompt)
		if err != nil {
			return res, fmt.Errorf("failed to build story prompt: %w", err)
		}
		storyPrompt = p
	}

	slog.InfoContext(ctx, "Generating story", "prompt", prompt)
	text, err := c.generateStory(ctx, storyPrompt)
	if err != nil {
		return res, fmt.Errorf("failed to generate story: %w", err)
	}
	res.Story = story.Clean(text)
	if res.Story == "" {
		return res, fmt.Errorf("story backend returned empty text: %w", domain.ErrBackendFailure)
	}

	res.Beats = story.Split(res.Story, c.maxBeats)
	if len(res.Beats) == 0 {
		return res, domain.ErrNoBeats
	}

	slog.InfoContext(ctx, "Generating comic panels", "beats", len(res.Beats))
	slog.DebugContext(ctx, "Story split into beats", "texts", story.Texts(res.Beats))
	res.Results = c.pipeline.Run(ctx, res.Beats)
	return res, nil
}

func (c *Comic) generateStory(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.storyTimeout)
	defer cancel()
	return c.story.GenerateStory(callCtx, prompt)
}
