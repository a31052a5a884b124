package backend

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/go-comic-kit/pkg/domain"

	"github.com/shouni/go-http-kit/httpkit"
)

const (
	// maxImageBytes は1枚の画像として読み込むレスポンスの上限です。
	maxImageBytes = 32 << 20
	// maxErrorExcerpt はエラーメッセージに含めるレスポンス本文の長さなのだ。
	maxErrorExcerpt = 256
)

// Doer は HTTP リクエストを送信するクライアントの最小インターフェースです。
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewDoer は共通の HTTP クライアントを生成します。
func NewDoer(timeout time.Duration) Doer {
	return httpkit.New(timeout)
}

// send はリクエストを送信し、2xx 以外の応答を ErrBackendFailure として返します。
// 成功時はレスポンスを閉じるのは呼び出し側の責任なのだ。
func send(doer Doer, backend string, req *http.Request) (*http.Response, error) {
	resp, err := doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s request failed: %w", domain.ErrBackendFailure, backend, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorExcerpt+1))
		return nil, fmt.Errorf("%w: %s returned status %d: %s",
			domain.ErrBackendFailure, backend, resp.StatusCode, excerpt(string(body)))
	}
	return resp, nil
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxErrorExcerpt {
		return s[:maxErrorExcerpt] + "..."
	}
	return s
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", maxImageBytes)
	}
	return data, nil
}

func requirePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt: %w", domain.ErrEmptyInput)
	}
	return nil
}
