package builder

import (
	"github.com/shouni/go-comic-kit/internal/config"
	"github.com/shouni/go-comic-kit/pkg/layout"
	"github.com/shouni/go-comic-kit/pkg/pipeline"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各コマンドやハンドラに渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config     *config.Config     // Configは、環境変数とフラグから組み立てた設定です。
	Comic      *pipeline.Comic    // Comicは、物語生成からパネル合成までを担う司令塔です。
	Compositor *layout.Compositor // Compositorは、単体のパネル合成（panel コマンド）にも使います。
	Providers  []string           // Providersは、優先順に並んだ画像バックエンド名です。
}
