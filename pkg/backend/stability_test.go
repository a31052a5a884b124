package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shouni/go-comic-kit/pkg/domain"
)

func TestStabilityImage_GenerateImage(t *testing.T) {
	ctx := context.Background()

	t.Run("マルチパートで要求し画像のバイト列を返すこと", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("期待値 POST, 実際の値 %s", r.Method)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
				t.Errorf("Authorization ヘッダが想定外です: %q", got)
			}
			if got := r.Header.Get("Accept"); got != "image/*" {
				t.Errorf("Accept ヘッダが想定外です: %q", got)
			}
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("マルチパートの解析に失敗しました: %v", err)
				return
			}
			for key, want := range map[string]string{"prompt": "a brave cat", "output_format": "png", "aspect_ratio": "1:1"} {
				if got := r.FormValue(key); got != want {
					t.Errorf("%s: 期待値 %q, 実際の値 %q", key, want, got)
				}
			}
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte("PNGDATA"))
		}))
		defer srv.Close()

		s := NewStabilityImage(srv.Client(), srv.URL, "sk-test")
		buf, err := s.GenerateImage(ctx, "a brave cat")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if string(buf.Data) != "PNGDATA" || buf.MimeType != "image/png" || buf.Source != "stability" {
			t.Errorf("想定外の結果: %+v", buf)
		}
		if buf.IsRemote() {
			t.Error("バイト列の結果がURL参照と判定されています")
		}
	})

	t.Run("2xx 以外は ErrBackendFailure になること", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, strings.Repeat("bad request ", 100), http.StatusBadRequest)
		}))
		defer srv.Close()

		_, err := NewStabilityImage(srv.Client(), srv.URL, "sk-test").GenerateImage(ctx, "a cat")
		if !errors.Is(err, domain.ErrBackendFailure) {
			t.Fatalf("期待値 ErrBackendFailure, 実際の値 %v", err)
		}
		if !strings.Contains(err.Error(), "400") {
			t.Errorf("ステータスコードが含まれていません: %v", err)
		}
		if len(err.Error()) > maxErrorExcerpt+200 {
			t.Errorf("エラー本文が切り詰められていません: %d 文字", len(err.Error()))
		}
	})

	t.Run("空のプロンプトは送信せず ErrEmptyInput になること", func(t *testing.T) {
		called := false
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
		defer srv.Close()

		_, err := NewStabilityImage(srv.Client(), srv.URL, "sk-test").GenerateImage(ctx, "  ")
		if !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("期待値 ErrEmptyInput, 実際の値 %v", err)
		}
		if called {
			t.Error("空のプロンプトでリクエストが送信されました")
		}
	})

	t.Run("API キー未設定は ErrBackendFailure になること", func(t *testing.T) {
		_, err := NewStabilityImage(http.DefaultClient, "", "").GenerateImage(ctx, "a cat")
		if !errors.Is(err, domain.ErrBackendFailure) {
			t.Errorf("期待値 ErrBackendFailure, 実際の値 %v", err)
		}
	})

	t.Run("タイムアウトは失敗として扱われること", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		defer srv.Close()

		tctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err := NewStabilityImage(srv.Client(), srv.URL, "sk-test").GenerateImage(tctx, "a cat")
		if !errors.Is(err, domain.ErrBackendFailure) || !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("期待値 ErrBackendFailure かつ DeadlineExceeded, 実際の値 %v", err)
		}
	})
}
