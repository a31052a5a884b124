// Package metrics は漫画生成パイプラインの Prometheus 指標を提供します。
package metrics

import (
	"context"
	"time"

	"github.com/shouni/go-comic-kit/pkg/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "comic_kit"

var (
	// BeatsTotal はビートの処理結果を outcome（panel / failed）ごとに数えます。
	BeatsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "beats_total",
			Help:      "Total number of processed beats by outcome",
		},
		[]string{"outcome"},
	)

	// FallbacksTotal は次の画像プロバイダへ切り替えた回数です。
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "fallbacks_total",
			Help:      "Total number of fallbacks to a lower priority image provider",
		},
		[]string{"provider"},
	)

	// PanelsTotal は生成されたパネル数を画像の生成元ごとに数えます。
	PanelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "panels_total",
			Help:      "Total number of rendered panels by image source",
		},
		[]string{"source"},
	)

	// GenerationDuration は1本の漫画生成にかかった時間です。
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "comic",
			Name:      "generation_duration_seconds",
			Help:      "Comic generation duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"status"},
	)
)

const (
	outcomePanel  = "panel"
	outcomeFailed = "failed"
)

// Reporter はパイプラインの通知を Prometheus のカウンタに反映します。
type Reporter struct{}

func (Reporter) FallbackUsed(_ context.Context, _ domain.Beat, provider string, _ error) {
	FallbacksTotal.WithLabelValues(provider).Inc()
}

func (Reporter) BeatFailed(_ context.Context, _ domain.Beat, _ error) {
	BeatsTotal.WithLabelValues(outcomeFailed).Inc()
}

func (Reporter) PanelReady(_ context.Context, panel *domain.Panel) {
	BeatsTotal.WithLabelValues(outcomePanel).Inc()
	PanelsTotal.WithLabelValues(panel.Source).Inc()
}

// ObserveGeneration は漫画生成1回分の所要時間を記録します。
func ObserveGeneration(start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	GenerationDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
}
