package layout

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	// DefaultFontFile は優先して読み込むフォントファイルです。
	DefaultFontFile = "arial.ttf"
	// DefaultFontSize はキャプション描画に使うフォントサイズです。
	DefaultFontSize = 40.0

	fontSourceFallback = "goregular"
	fontSourceBitmap   = "basicfont"
)

// システムフォントの探索先なのだ。
var fontSearchDirs = []string{
	"/usr/share/fonts/truetype/msttcorefonts",
	"/usr/share/fonts/TTF",
	"/Library/Fonts",
	"/System/Library/Fonts/Supplemental",
	`C:\Windows\Fonts`,
}

// FontLoader は優先フォントを一度だけ読み込み、パース済みのフォントを共有します。
// 読み込みに失敗した場合は埋め込みの Go Regular、最後に basicfont へ決定論的にフォールバックします。
// パース後は読み取り専用なので、複数のゴルーチンから同時に使えます。
type FontLoader struct {
	path string

	once   sync.Once
	font   *truetype.Font
	source string
}

// NewFontLoader は FontLoader を生成します。path が空ならフォールバックフォントを使います。
func NewFontLoader(path string) *FontLoader {
	return &FontLoader{path: path}
}

// NewFace は指定サイズの font.Face を毎回新しく生成します。
// truetype の Face はグリフキャッシュを内部に持ち、並行利用できないためです。
func (l *FontLoader) NewFace(size float64) font.Face {
	l.once.Do(l.load)
	if l.font == nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(l.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Source は実際に使われたフォントの出所（ファイルパスまたはフォールバック名）を返します。
func (l *FontLoader) Source() string {
	l.once.Do(l.load)
	return l.source
}

func (l *FontLoader) load() {
	if l.path != "" {
		f, resolved, err := parseFontFile(l.path)
		if err == nil {
			l.font, l.source = f, resolved
			slog.Debug("Font loaded", "path", resolved)
			return
		}
		slog.Warn("優先フォントが読み込めないため、フォールバックフォントを使うのだ", "path", l.path, "error", err)
	}

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		slog.Error("埋め込みフォントのパースに失敗しました。ビットマップフォントを使います", "error", err)
		l.source = fontSourceBitmap
		return
	}
	l.font, l.source = f, fontSourceFallback
}

// parseFontFile はパスそのもの、次にシステムフォントのディレクトリを順に探してパースします。
func parseFontFile(name string) (*truetype.Font, string, error) {
	candidates := []string{name}
	if !filepath.IsAbs(name) {
		for _, dir := range fontSearchDirs {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	var lastErr error
	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err != nil {
			lastErr = err
			continue
		}
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, "", fmt.Errorf("failed to parse font %s: %w", p, err)
		}
		return f, p, nil
	}
	return nil, "", fmt.Errorf("font %q not found: %w", name, lastErr)
}
