package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/shouni/go-comic-kit/pkg/domain"
)

const (
	// DefaultStabilityEndpoint は Stable Image Core の生成エンドポイントです。
	DefaultStabilityEndpoint = "https://api.stability.ai/v2beta/stable-image/generate/core"

	stabilityName         = "stability"
	stabilityOutputFormat = "png"
	stabilityAspectRatio  = "1:1"
)

// StabilityImage は Stability AI で画像を生成し、エンコード済みのバイト列を返すプロバイダです。
type StabilityImage struct {
	doer     Doer
	endpoint string
	apiKey   string
}

// NewStabilityImage は StabilityImage を生成します。endpoint が空なら既定のエンドポイントを使います。
func NewStabilityImage(doer Doer, endpoint, apiKey string) *StabilityImage {
	if endpoint == "" {
		endpoint = DefaultStabilityEndpoint
	}
	return &StabilityImage{
		doer:     doer,
		endpoint: endpoint,
		apiKey:   apiKey,
	}
}

func (s *StabilityImage) Name() string { return stabilityName }

// GenerateImage はプロンプトから正方形の PNG 画像を生成します。
func (s *StabilityImage) GenerateImage(ctx context.Context, prompt string) (*domain.ImageBuffer, error) {
	if err := requirePrompt(prompt); err != nil {
		return nil, err
	}
	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: %s api key is not configured", domain.ErrBackendFailure, stabilityName)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := [][2]string{
		{"prompt", prompt},
		{"output_format", stabilityOutputFormat},
		{"aspect_ratio", stabilityAspectRatio},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", f[0], err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build stability request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "image/*")
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := send(s.doer, stabilityName, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := readLimited(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read stability image: %w", domain.ErrBackendFailure, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: stability returned an empty body", domain.ErrNoImage)
	}

	mimeType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/" + stabilityOutputFormat
	}
	return &domain.ImageBuffer{
		Data:     data,
		MimeType: mimeType,
		Source:   stabilityName,
	}, nil
}
