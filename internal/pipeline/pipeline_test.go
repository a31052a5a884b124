package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/shouni/go-comic-kit/internal/config"
)

func TestExecutePanel(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.png")

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 200, 200))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(input, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{FontPath: filepath.Join(dir, "missing.ttf"), HTTPTimeout: config.DefaultHTTPTimeout}
	output := filepath.Join(dir, "out", "panel.png")
	if err := ExecutePanel(context.Background(), cfg, input, "A cat wakes up", output); err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if info, err := os.Stat(output); err != nil || info.Size() == 0 {
		t.Errorf("パネルが保存されていません: %v", err)
	}
}

func TestExecute(t *testing.T) {
	t.Run("画像バックエンドがなければ何も書き出さずにエラーになること", func(t *testing.T) {
		dir := t.TempDir()
		cfg := &config.Config{
			StoryBackend: config.StoryBackendOpenAI,
			OpenAIAPIKey: "",
			MaxBeats:     config.DefaultMaxBeats,
			HTTPTimeout:  config.DefaultHTTPTimeout,
			OutputDir:    dir,
		}
		if err := Execute(context.Background(), cfg, "A cat saves a city."); err == nil {
			t.Fatal("エラーが返されませんでした")
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("出力ディレクトリにファイルが作成されています: %v", entries)
		}
	})
}
