package prompts

import (
	"errors"
	"strings"
	"testing"

	"github.com/shouni/go-comic-kit/pkg/domain"
)

const comicStyle = "comic book panel, bold ink outlines"

func TestBuilder(t *testing.T) {
	b, err := NewBuilder(comicStyle, 4)
	if err != nil {
		t.Fatalf("初期化に失敗しました: %v", err)
	}

	t.Run("物語プロンプトにアイデアとコマ数が埋め込まれること", func(t *testing.T) {
		got, err := b.BuildStoryPrompt("  A cat saves a city.  ")
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if !strings.Contains(got, "Idea: A cat saves a city.") {
			t.Errorf("アイデアが含まれていません: %q", got)
		}
		if !strings.Contains(got, "exactly 4 short sentences") {
			t.Errorf("コマ数が含まれていません: %q", got)
		}
	})

	t.Run("画風を指定すると本文の後ろに付け加えること", func(t *testing.T) {
		got, err := b.BuildImagePrompt(domain.Beat{Text: "A cat jumps"})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}
		if got != "A cat jumps, "+comicStyle {
			t.Errorf("想定外のプロンプト: %q", got)
		}
	})

	t.Run("画風が空なら本文だけになること", func(t *testing.T) {
		plain, err := NewBuilder("", 4)
		if err != nil {
			t.Fatal(err)
		}
		got, err := plain.BuildImagePrompt(domain.Beat{Text: "A cat jumps"})
		if err != nil || got != "A cat jumps" {
			t.Errorf("期待値 %q, 実際の値 %q (err=%v)", "A cat jumps", got, err)
		}
	})

	t.Run("空の入力は ErrEmptyInput になること", func(t *testing.T) {
		if _, err := b.BuildStoryPrompt(" "); !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("期待値 ErrEmptyInput, 実際の値 %v", err)
		}
		if _, err := b.BuildImagePrompt(domain.Beat{}); !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("期待値 ErrEmptyInput, 実際の値 %v", err)
		}
	})

	t.Run("不明なモードはエラーになること", func(t *testing.T) {
		if _, err := b.Build("unknown", TemplateData{}); err == nil {
			t.Error("エラーが返されませんでした")
		}
	})
}
