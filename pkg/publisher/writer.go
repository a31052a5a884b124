package publisher

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Writer は成果物を書き出す先を抽象化します。
type Writer interface {
	Write(ctx context.Context, path string, r io.Reader, contentType string) error
}

// LocalWriter はローカルファイルシステムへ書き出す Writer です。
type LocalWriter struct{}

// Write は必要なディレクトリを作成してからファイルを書き込むのだ。
func (LocalWriter) Write(ctx context.Context, path string, r io.Reader, _ string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
