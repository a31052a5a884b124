package runner

import (
	"context"

	"github.com/shouni/go-comic-kit/pkg/pipeline"
	"github.com/shouni/go-comic-kit/pkg/publisher"
)

// PublisherRunner はパブリッシュ処理のインターフェースです。
type PublisherRunner interface {
	Run(ctx context.Context, res *pipeline.Result) (publisher.PublishResult, error)
}

// DefaultPublisherRunner は pkg/publisher を利用した標準実装です。
type DefaultPublisherRunner struct {
	outputDir string
	publisher *publisher.ComicPublisher
}

func NewDefaultPublisherRunner(outputDir string, pub *publisher.ComicPublisher) *DefaultPublisherRunner {
	return &DefaultPublisherRunner{
		outputDir: outputDir,
		publisher: pub,
	}
}

func (pr *DefaultPublisherRunner) Run(ctx context.Context, res *pipeline.Result) (publisher.PublishResult, error) {
	return pr.publisher.Publish(ctx, res, publisher.Options{OutputDir: pr.outputDir})
}
