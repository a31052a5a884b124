package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-comic-kit/pkg/domain"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// DefaultConcurrency は同時に処理するビート数です。1 なら完全に逐次実行なのだ。
	DefaultConcurrency = 1
	// DefaultBackendTimeout は画像バックエンド1回あたりの待ち時間の上限です。
	DefaultBackendTimeout = 60 * time.Second
)

// Options は Pipeline の実行時パラメータです。ゼロ値の項目には既定値が使われます。
type Options struct {
	Concurrency    int
	RateInterval   time.Duration // 画像バックエンド呼び出しの最小間隔（0 なら制限なし）
	BackendTimeout time.Duration
	Reporter       Reporter
	Prompts        ImagePromptBuilder // nil ならビート本文をそのままプロンプトにする
}

// Pipeline はビートごとに画像を取得し、キャプション付きのパネルへ合成します。
type Pipeline struct {
	providers   []ImageProvider
	compositor  Compositor
	prompts     ImagePromptBuilder
	reporter    Reporter
	limiter     *rate.Limiter
	concurrency int
	timeout     time.Duration
}

// NewPipeline は優先順に並んだ画像プロバイダと合成器から Pipeline を生成します。
func NewPipeline(compositor Compositor, providers []ImageProvider, opts Options) *Pipeline {
	p := &Pipeline{
		providers:   providers,
		compositor:  compositor,
		prompts:     opts.Prompts,
		reporter:    opts.Reporter,
		concurrency: opts.Concurrency,
		timeout:     opts.BackendTimeout,
	}
	if p.reporter == nil {
		p.reporter = SlogReporter{}
	}
	if p.concurrency <= 0 {
		p.concurrency = DefaultConcurrency
	}
	if p.timeout <= 0 {
		p.timeout = DefaultBackendTimeout
	}
	if opts.RateInterval > 0 {
		p.limiter = rate.NewLimiter(rate.Every(opts.RateInterval), 1)
	}
	return p
}

// Run はすべてのビートを処理し、ビート順に並んだ結果を返します。
// 1つのビートの失敗でバッチ全体が中断されることはありません。
// ctx がキャンセルされた場合、取得済みの結果は保持され、未着手のビートには ctx のエラーが設定されます。
func (p *Pipeline) Run(ctx context.Context, beats []domain.Beat) domain.BeatResults {
	results := make(domain.BeatResults, len(beats))

	// 各ビートの失敗は結果に記録するだけなので、errgroup でキャンセルを伝播させないのだ
	var eg errgroup.Group
	eg.SetLimit(p.concurrency)

	for i, beat := range beats {
		if err := ctx.Err(); err != nil {
			results[i] = domain.BeatResult{Beat: beat, Err: fmt.Errorf("beat %d not started: %w", beat.Index+1, err)}
			p.reporter.BeatFailed(ctx, beat, results[i].Err)
			continue
		}
		eg.Go(func() error {
			results[i] = p.runBeat(ctx, beat)
			return nil
		})
	}
	_ = eg.Wait()

	slog.InfoContext(ctx, "Pipeline finished",
		"beats", len(beats),
		"panels", len(results.Panels()),
		"failures", len(results.Failures()),
	)
	return results
}

func (p *Pipeline) runBeat(ctx context.Context, beat domain.Beat) domain.BeatResult {
	res := domain.BeatResult{Beat: beat}
	fail := func(err error) domain.BeatResult {
		res.Err = fmt.Errorf("beat %d: %w", beat.Index+1, err)
		p.reporter.BeatFailed(ctx, beat, res.Err)
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	prompt, err := p.imagePrompt(beat)
	if err != nil {
		return fail(err)
	}

	buf, fallbacks, err := p.requestImage(ctx, beat, prompt)
	res.Fallbacks = fallbacks
	if err != nil {
		return fail(err)
	}

	img, err := p.compositor.Compose(ctx, buf, beat.Text)
	if err != nil {
		return fail(err)
	}
	if img == nil {
		return fail(domain.ErrCompositingFailed)
	}

	res.Panel = &domain.Panel{
		Index:   beat.Index,
		Caption: beat.Text,
		Image:   img,
		Source:  buf.Source,
	}
	p.reporter.PanelReady(ctx, res.Panel)
	return res
}

func (p *Pipeline) imagePrompt(beat domain.Beat) (string, error) {
	if p.prompts == nil {
		return beat.Text, nil
	}
	prompt, err := p.prompts.BuildImagePrompt(beat)
	if err != nil {
		return "", fmt.Errorf("failed to build image prompt: %w", err)
	}
	return prompt, nil
}

// requestImage はプロバイダを優先順に1回ずつ試し、最初に得られた画像を返します。
// リトライではなく代替なので、同じプロバイダを2回呼ぶことはないのだ。
// 2番目以降に試したプロバイダ名は、成否にかかわらず fallbacks として返します。
func (p *Pipeline) requestImage(ctx context.Context, beat domain.Beat, prompt string) (*domain.ImageBuffer, []string, error) {
	if len(p.providers) == 0 {
		return nil, nil, domain.ErrNoImage
	}

	var (
		errs      []error
		fallbacks []string
	)
	for i, provider := range p.providers {
		if i > 0 {
			p.reporter.FallbackUsed(ctx, beat, provider.Name(), errs[len(errs)-1])
			fallbacks = append(fallbacks, provider.Name())
		}

		buf, err := p.generate(ctx, provider, prompt)
		if err == nil {
			if buf.Source == "" {
				buf.Source = provider.Name()
			}
			return buf, fallbacks, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", provider.Name(), err))

		if ctx.Err() != nil {
			break
		}
	}
	return nil, fallbacks, fmt.Errorf("%w: %w", domain.ErrNoImage, errors.Join(errs...))
}

func (p *Pipeline) generate(ctx context.Context, provider ImageProvider, prompt string) (*domain.ImageBuffer, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	buf, err := provider.GenerateImage(callCtx, prompt)
	if err != nil {
		return nil, err
	}
	if buf.IsEmpty() {
		return nil, domain.ErrNoImage
	}
	slog.DebugContext(ctx, "Image generated", "provider", provider.Name(), "duration", time.Since(start).Round(time.Millisecond))
	return buf, nil
}
