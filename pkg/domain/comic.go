package domain

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// Beat は物語から切り出された1コマ分の文章なのだ。
// Index は元の物語内での順番（0始まり）を保持します。
type Beat struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ImageBuffer は画像生成バックエンドが返した1枚分の画像です。
// Data（エンコード済みバイト列）か URL（取得可能な参照）のどちらか一方だけが設定されます。
type ImageBuffer struct {
	Data     []byte
	URL      string
	MimeType string
	Source   string // 生成したバックエンド名
}

// IsRemote は画像がURL参照であるかを返します。
func (b *ImageBuffer) IsRemote() bool {
	return b != nil && len(b.Data) == 0 && b.URL != ""
}

// IsEmpty は利用可能な画像を保持していない場合に true を返します。
func (b *ImageBuffer) IsEmpty() bool {
	return b == nil || (len(b.Data) == 0 && b.URL == "")
}

// Panel は枠線・吹き出し・キャプションを合成し終えた1コマなのだ。
type Panel struct {
	Index   int
	Caption string
	Image   image.Image
	Source  string
}

// PNG はパネル画像を PNG にエンコードして返します。
func (p *Panel) PNG() ([]byte, error) {
	if p == nil || p.Image == nil {
		return nil, fmt.Errorf("panel has no image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, p.Image); err != nil {
		return nil, fmt.Errorf("failed to encode panel %d: %w", p.Index+1, err)
	}
	return buf.Bytes(), nil
}
