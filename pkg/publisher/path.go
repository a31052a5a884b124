package publisher

import (
	"fmt"
	"strings"

	"github.com/shouni/go-utils/urlpath"
)

const panelFilePattern = "panel_%d.png"

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	if strings.TrimSpace(fileName) == "" {
		return "", fmt.Errorf("file name is empty")
	}
	if strings.Contains(baseDir, "://") {
		return "", fmt.Errorf("unsupported output location: %s", baseDir)
	}
	if baseDir == "" {
		baseDir = "."
	}
	return urlpath.ResolvePath(baseDir, fileName)
}

// PanelFileName は表示順（1始まり）に対応するパネルのファイル名を返すのだ。
func PanelFileName(number int) string {
	return fmt.Sprintf(panelFilePattern, number)
}
