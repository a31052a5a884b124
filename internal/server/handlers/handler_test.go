package handlers

import (
	"context"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shouni/go-comic-kit/pkg/domain"
	"github.com/shouni/go-comic-kit/pkg/pipeline"
)

type fakeGenerator struct {
	res *pipeline.Result
	err error
}

func (f fakeGenerator) Generate(_ context.Context, prompt string) (*pipeline.Result, error) {
	if f.res != nil {
		f.res.Prompt = prompt
	}
	return f.res, f.err
}

func postForm(t *testing.T, h *Handler, prompt string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"prompt": {prompt}}
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)
	return rec
}

func TestHandler(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	res := &pipeline.Result{
		Results: domain.BeatResults{
			{Beat: domain.Beat{Index: 0, Text: "A cat wakes up"}, Panel: &domain.Panel{Index: 0, Caption: "A cat wakes up", Image: img}},
			{Beat: domain.Beat{Index: 1, Text: "It sees smoke"}, Err: domain.ErrNoImage},
			{Beat: domain.Beat{Index: 2, Text: "It saves the city"}, Panel: &domain.Panel{Index: 2, Caption: "It saves the city", Image: img}, Fallbacks: []string{"dall-e"}},
		},
	}

	t.Run("トップページにフォームが表示されること", func(t *testing.T) {
		h, err := NewHandler(fakeGenerator{}, 0)
		if err != nil {
			t.Fatalf("初期化に失敗しました: %v", err)
		}
		rec := httptest.NewRecorder()
		h.Index(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `action="/generate"`) {
			t.Errorf("想定外の応答: %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("成功したパネルが1始まりの連番で表示されること", func(t *testing.T) {
		h, err := NewHandler(fakeGenerator{res: res}, 0)
		if err != nil {
			t.Fatal(err)
		}
		rec := postForm(t, h, "A cat saves a city.")
		body := rec.Body.String()

		if rec.Code != http.StatusOK {
			t.Fatalf("期待値 200, 実際の値 %d", rec.Code)
		}
		if strings.Count(body, "data:image/png;base64,") != 2 {
			t.Errorf("パネル画像は2枚のはずです: %s", body)
		}
		if !strings.Contains(body, "Panel 1") || !strings.Contains(body, "Panel 2") || strings.Contains(body, "Panel 3") {
			t.Errorf("パネル番号が想定外です: %s", body)
		}
		if !strings.Contains(body, "Failed to create panel for: It sees smoke") {
			t.Errorf("失敗したビートが通知されていません: %s", body)
		}
		if !strings.Contains(body, "Falling back to dall-e for: It saves the city") {
			t.Errorf("フォールバックの警告が表示されていません: %s", body)
		}
	})

	t.Run("空のアイデアは警告を表示すること", func(t *testing.T) {
		h, err := NewHandler(fakeGenerator{res: res}, 0)
		if err != nil {
			t.Fatal(err)
		}
		rec := postForm(t, h, "   ")
		if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), msgInvalidPrompt) {
			t.Errorf("想定外の応答: %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("ビートがなければ専用のメッセージを表示すること", func(t *testing.T) {
		h, err := NewHandler(fakeGenerator{res: &pipeline.Result{}, err: domain.ErrNoBeats}, 0)
		if err != nil {
			t.Fatal(err)
		}
		rec := postForm(t, h, "idea")
		if !strings.Contains(rec.Body.String(), msgNoBeats) {
			t.Errorf("メッセージが表示されていません: %s", rec.Body.String())
		}
	})

	t.Run("物語生成の失敗は再試行を促すこと", func(t *testing.T) {
		h, err := NewHandler(fakeGenerator{err: errors.New("boom")}, 0)
		if err != nil {
			t.Fatal(err)
		}
		rec := postForm(t, h, "idea")
		if rec.Code != http.StatusBadGateway || !strings.Contains(rec.Body.String(), msgStoryFailed) {
			t.Errorf("想定外の応答: %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("パネルが1枚もなければエラーを表示すること", func(t *testing.T) {
		empty := &pipeline.Result{Results: domain.BeatResults{{Beat: domain.Beat{Text: "x"}, Err: domain.ErrNoImage}}}
		h, err := NewHandler(fakeGenerator{res: empty}, 0)
		if err != nil {
			t.Fatal(err)
		}
		rec := postForm(t, h, "idea")
		if !strings.Contains(rec.Body.String(), msgNoPanels) {
			t.Errorf("メッセージが表示されていません: %s", rec.Body.String())
		}
	})
}
