package publisher

import (
	"fmt"
	"strings"

	"github.com/shouni/go-comic-kit/pkg/pipeline"
)

const defaultTitle = "Untitled Comic"

// BuildMarkdown は、プロンプト・物語・パネル画像のパスを1つの Markdown にまとめます。
// imagePaths は表示するパネルと同じ順序で並んでいる必要があるのだ。
func BuildMarkdown(res *pipeline.Result, imagePaths []string) string {
	var sb strings.Builder

	title := strings.TrimSpace(res.Prompt)
	if title == "" {
		title = defaultTitle
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if res.Story != "" {
		fmt.Fprintf(&sb, "> %s\n\n", res.Story)
	}

	for i, panel := range res.Panels() {
		img := PanelFileName(i + 1)
		if i < len(imagePaths) {
			img = imagePaths[i]
		}
		fmt.Fprintf(&sb, "## Panel %d: %s\n", i+1, img)
		fmt.Fprintf(&sb, "- text: %s\n", strings.TrimSpace(panel.Caption))
		if panel.Source != "" {
			fmt.Fprintf(&sb, "- source: %s\n", panel.Source)
		}
		sb.WriteString("\n")
	}

	failures := res.Results.Failures()
	if len(failures) > 0 {
		sb.WriteString("## Failed beats\n")
		for _, f := range failures {
			fmt.Fprintf(&sb, "- %s\n", f.Beat.Text)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
