package layout

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"

	"github.com/shouni/go-comic-kit/pkg/domain"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	_ "golang.org/x/image/webp"
)

// Fetcher はURL参照の画像を同期的に取得します。
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Style はパネル装飾の寸法をまとめたものです。単位はピクセルなのだ。
type Style struct {
	ContrastFactor float64 // コントラスト倍率（1.0 で無変換）

	BorderPadding float64 // 画像の端から枠線までの距離
	BorderWidth   float64

	BubbleMargin  float64 // 吹き出しの左右の余白
	BubbleHeight  float64
	BubbleRadius  float64
	BubbleStroke  float64
	BubblePadding float64 // 吹き出し内側の余白

	FontSize    float64
	LineSpacing float64 // 行の高さに加える間隔
}

// DefaultStyle は標準のパネル装飾を返します。
func DefaultStyle() Style {
	return Style{
		ContrastFactor: 1.5,
		BorderPadding:  10,
		BorderWidth:    5,
		BubbleMargin:   10,
		BubbleHeight:   100,
		BubbleRadius:   20,
		BubbleStroke:   4,
		BubblePadding:  20,
		FontSize:       DefaultFontSize,
		LineSpacing:    4,
	}
}

// Rect は浮動小数点の矩形です。
type Rect struct {
	X, Y, W, H float64
}

// BubbleRect は幅 w・高さ h の画像に対する吹き出し領域を返します。
// 吹き出しは画像の下端から枠線の余白分だけ上に配置されます。
func (s Style) BubbleRect(w, h int) Rect {
	return Rect{
		X: s.BubbleMargin,
		Y: float64(h) - s.BorderPadding - s.BubbleHeight,
		W: float64(w) - s.BubbleMargin*2,
		H: s.BubbleHeight,
	}
}

// BorderRect は線幅を考慮して画像内に完全に収まる枠線のパスを返します。
// 画像が小さすぎる場合は幅・高さが 0 に丸められるだけでエラーにはなりません。
func (s Style) BorderRect(w, h int) Rect {
	inset := s.BorderPadding + s.BorderWidth/2
	return Rect{
		X: inset,
		Y: inset,
		W: math.Max(0, float64(w)-inset*2),
		H: math.Max(0, float64(h)-inset*2),
	}
}

// TextWidth は吹き出し内で折り返しに使える横幅です。
func (s Style) TextWidth(w int) float64 {
	return s.BubbleRect(w, 0).W - s.BubblePadding*2
}

// Compositor は画像とキャプションから1コマを合成します。
type Compositor struct {
	fonts   *FontLoader
	fetcher Fetcher
	style   Style
}

// NewCompositor は Compositor を生成します。fetcher が nil の場合、URL参照の画像はデコード失敗になります。
func NewCompositor(fonts *FontLoader, fetcher Fetcher, style Style) *Compositor {
	if fonts == nil {
		fonts = NewFontLoader("")
	}
	return &Compositor{
		fonts:   fonts,
		fetcher: fetcher,
		style:   style,
	}
}

// Compose は画像をデコードし、コントラスト補正、枠線、吹き出し、折り返したキャプションを描画して返します。
// buf が nil の場合は何もせず (nil, nil) を返すのだ。
// デコード失敗は domain.ErrDecodeFailed、描画中の panic は domain.ErrCompositingFailed として返します。
func (c *Compositor) Compose(ctx context.Context, buf *domain.ImageBuffer, caption string) (img image.Image, err error) {
	if buf == nil {
		return nil, nil
	}

	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("%w: %v", domain.ErrCompositingFailed, r)
		}
	}()

	src, err := c.decode(ctx, buf)
	if err != nil {
		return nil, err
	}
	return c.render(src, caption), nil
}

func (c *Compositor) decode(ctx context.Context, buf *domain.ImageBuffer) (image.Image, error) {
	data := buf.Data
	if buf.IsRemote() {
		if c.fetcher == nil {
			return nil, fmt.Errorf("%w: no fetcher configured for %s", domain.ErrDecodeFailed, buf.URL)
		}
		fetched, err := c.fetcher.Fetch(ctx, buf.URL)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch %s: %v", domain.ErrDecodeFailed, buf.URL, err)
		}
		data = fetched
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecodeFailed, err)
	}
	return img, nil
}

func (c *Compositor) render(src image.Image, caption string) image.Image {
	s := c.style
	enhanced := imaging.AdjustContrast(src, contrastPercentage(s.ContrastFactor))

	bounds := enhanced.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	dc := gg.NewContextForImage(enhanced)

	border := s.BorderRect(w, h)
	dc.DrawRectangle(border.X, border.Y, border.W, border.H)
	dc.SetColor(color.Black)
	dc.SetLineWidth(s.BorderWidth)
	dc.Stroke()

	bubble := s.BubbleRect(w, h)
	radius := math.Min(s.BubbleRadius, math.Min(math.Abs(bubble.W), math.Abs(bubble.H))/2)
	dc.DrawRoundedRectangle(bubble.X, bubble.Y, bubble.W, bubble.H, radius)
	dc.SetColor(color.White)
	dc.FillPreserve()
	dc.SetColor(color.Black)
	dc.SetLineWidth(s.BubbleStroke)
	dc.Stroke()

	if strings.TrimSpace(caption) == "" {
		return dc.Image()
	}

	face := c.fonts.NewFace(s.FontSize)
	dc.SetFontFace(face)
	wrapped := WrapText(caption, FaceMeasurer{Face: face}, s.TextWidth(w))

	x := bubble.X + s.BubblePadding
	y := bubble.Y + s.BubblePadding
	advance := dc.FontHeight() + s.LineSpacing
	for i, line := range strings.Split(wrapped, "\n") {
		dc.DrawStringAnchored(line, x, y+float64(i)*advance, 0, 1)
	}
	return dc.Image()
}

// contrastPercentage は倍率を imaging.AdjustContrast の百分率に換算します。
// imaging は正の百分率 p を傾き 1/(1-p/100) として扱うので、倍率 f > 1 には (1-1/f)*100 を渡すのだ。
func contrastPercentage(factor float64) float64 {
	switch {
	case factor <= 0:
		return -100
	case factor <= 1:
		return (factor - 1) * 100
	default:
		return (1 - 1/factor) * 100
	}
}
