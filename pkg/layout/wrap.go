package layout

import (
	"strings"

	"golang.org/x/image/font"
)

// Measurer は文字列を描画したときの横幅（ピクセル）を返します。
type Measurer interface {
	Measure(s string) float64
}

// FaceMeasurer は font.Face の字送り幅で文字列を計測する Measurer です。
// 描画に使うものと同じ Face を渡さないと、折り返しと描画結果がずれるのだ。
type FaceMeasurer struct {
	Face font.Face
}

// Measure implements Measurer.
func (m FaceMeasurer) Measure(s string) float64 {
	return float64(font.MeasureString(m.Face, s)) / 64
}

// WrapLines は空白区切りの単語を貪欲に詰め込み、maxWidth に収まる行へ分割します。
// 1単語だけで maxWidth を超える場合も単語の途中では切らず、その単語だけの行になります。
func WrapLines(text string, m Measurer, maxWidth float64) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if m.Measure(candidate) <= maxWidth {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// WrapText は WrapLines の結果を改行で連結して返します。空文字列なら空文字列を返します。
func WrapText(text string, m Measurer, maxWidth float64) string {
	return strings.Join(WrapLines(text, m, maxWidth), "\n")
}
