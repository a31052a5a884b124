package story

import (
	"regexp"
	"strings"
)

var (
	// headingRegex は "# タイトル" 形式の見出し行にマッチします。
	headingRegex = regexp.MustCompile(`^#{1,6}\s+`)
	// bulletRegex は "- " や "1. " などのリスト記号をキャプチャします。
	bulletRegex = regexp.MustCompile(`^(?:[-*+]|\d+[.)])\s+`)
	// emphasisRegex は太字・斜体・インラインコードの記号です。
	emphasisRegex = regexp.MustCompile("\\*\\*|__|`")
)

// Clean はテキスト生成モデルが返しがちな Markdown の装飾を取り除き、物語を1段落の平文にします。
// 見出し行とコードフェンスは本文ではないので捨てるのだ。
func Clean(raw string) string {
	var parts []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") || headingRegex.MatchString(line) {
			continue
		}
		line = bulletRegex.ReplaceAllString(line, "")
		line = emphasisRegex.ReplaceAllString(line, "")
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}
