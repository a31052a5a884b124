package layout

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestFontLoader(t *testing.T) {
	t.Run("パス未指定なら埋め込みフォントを使うこと", func(t *testing.T) {
		l := NewFontLoader("")
		if got := l.Source(); got != fontSourceFallback {
			t.Errorf("期待値 %q, 実際の値 %q", fontSourceFallback, got)
		}
	})

	t.Run("存在しないフォントでも失敗せずフォールバックすること", func(t *testing.T) {
		l := NewFontLoader(filepath.Join(t.TempDir(), "missing.ttf"))
		face := l.NewFace(DefaultFontSize)
		if face == nil {
			t.Fatal("Face が nil です")
		}
		if got := l.Source(); got != fontSourceFallback {
			t.Errorf("期待値 %q, 実際の値 %q", fontSourceFallback, got)
		}
	})

	t.Run("壊れたフォントファイルもフォールバックすること", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "broken.ttf")
		if err := os.WriteFile(p, []byte("not a font"), 0o644); err != nil {
			t.Fatal(err)
		}
		if got := NewFontLoader(p).Source(); got != fontSourceFallback {
			t.Errorf("期待値 %q, 実際の値 %q", fontSourceFallback, got)
		}
	})

	t.Run("指定したフォントファイルを読み込むこと", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "regular.ttf")
		if err := os.WriteFile(p, goregular.TTF, 0o644); err != nil {
			t.Fatal(err)
		}
		if got := NewFontLoader(p).Source(); got != p {
			t.Errorf("期待値 %q, 実際の値 %q", p, got)
		}
	})

	t.Run("サイズに応じて行の高さが変わること", func(t *testing.T) {
		l := NewFontLoader("")
		small := l.NewFace(12).Metrics().Height
		large := l.NewFace(40).Metrics().Height
		if large <= small {
			t.Errorf("大きいサイズの方が行の高さが大きいはずです: small=%v large=%v", small, large)
		}
	})
}
