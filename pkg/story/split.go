package story

import (
	"strings"

	"github.com/shouni/go-comic-kit/pkg/domain"
)

// DefaultMaxBeats は1本の漫画に含めるコマ数の上限です。
const DefaultMaxBeats = 4

// sentenceTerminator で物語をビートに区切るのだ。
const sentenceTerminator = "."

// Split は物語を "." で区切り、前後の空白を除いた空でない断片を先頭から最大 maxParts 個返します。
// maxParts が 0 以下なら DefaultMaxBeats を使います。
// 結果が空の場合は空のスライスを返すので、呼び出し側は「描画するビートなし」として扱ってください。
func Split(story string, maxParts int) []domain.Beat {
	if maxParts <= 0 {
		maxParts = DefaultMaxBeats
	}

	beats := make([]domain.Beat, 0, maxParts)
	for _, fragment := range strings.Split(story, sentenceTerminator) {
		text := strings.TrimSpace(fragment)
		if text == "" {
			continue
		}
		beats = append(beats, domain.Beat{Index: len(beats), Text: text})
		if len(beats) == maxParts {
			break
		}
	}
	return beats
}

// Texts はビートの本文だけを順番どおりに取り出します。
func Texts(beats []domain.Beat) []string {
	texts := make([]string, len(beats))
	for i, b := range beats {
		texts[i] = b.Text
	}
	return texts
}
