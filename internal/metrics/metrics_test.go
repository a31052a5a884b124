package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shouni/go-comic-kit/pkg/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestReporter(t *testing.T) {
	ctx := context.Background()
	r := Reporter{}
	beat := domain.Beat{Index: 0, Text: "A cat"}

	t.Run("パネル生成で成功数と生成元が加算されること", func(t *testing.T) {
		beforeBeats := testutil.ToFloat64(BeatsTotal.WithLabelValues(outcomePanel))
		beforeSource := testutil.ToFloat64(PanelsTotal.WithLabelValues("stability"))

		r.PanelReady(ctx, &domain.Panel{Index: 0, Source: "stability"})

		if got := testutil.ToFloat64(BeatsTotal.WithLabelValues(outcomePanel)) - beforeBeats; got != 1 {
			t.Errorf("期待値 1, 実際の値 %v", got)
		}
		if got := testutil.ToFloat64(PanelsTotal.WithLabelValues("stability")) - beforeSource; got != 1 {
			t.Errorf("期待値 1, 実際の値 %v", got)
		}
	})

	t.Run("失敗とフォールバックが加算されること", func(t *testing.T) {
		beforeFailed := testutil.ToFloat64(BeatsTotal.WithLabelValues(outcomeFailed))
		beforeFallback := testutil.ToFloat64(FallbacksTotal.WithLabelValues("dall-e"))

		r.FallbackUsed(ctx, beat, "dall-e", errors.New("boom"))
		r.BeatFailed(ctx, beat, errors.New("boom"))

		if got := testutil.ToFloat64(BeatsTotal.WithLabelValues(outcomeFailed)) - beforeFailed; got != 1 {
			t.Errorf("期待値 1, 実際の値 %v", got)
		}
		if got := testutil.ToFloat64(FallbacksTotal.WithLabelValues("dall-e")) - beforeFallback; got != 1 {
			t.Errorf("期待値 1, 実際の値 %v", got)
		}
	})

	t.Run("生成時間が記録されること", func(t *testing.T) {
		before := testutil.CollectAndCount(GenerationDuration)
		ObserveGeneration(time.Now(), nil)
		ObserveGeneration(time.Now(), errors.New("boom"))
		if got := testutil.CollectAndCount(GenerationDuration); got < before || got < 2 {
			t.Errorf("期待値 2 系列以上, 実際の値 %d", got)
		}
	})
}
