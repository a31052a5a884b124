package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shouni/go-comic-kit/pkg/domain"
)

const (
	// DefaultOpenAIBaseURL は OpenAI 互換 API のベースURLです。
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultOpenAIChatModel は物語生成に使うチャットモデルなのだ。
	DefaultOpenAIChatModel = "gpt-4o-mini"
	// DefaultOpenAIImageModel は画像生成に使うモデルです。
	DefaultOpenAIImageModel = "dall-e-3"

	openAIImageName = "dall-e"
	openAIStoryName = "openai"
)

// openAIClient は OpenAI 互換 API への JSON リクエストを共通化します。
type openAIClient struct {
	doer    Doer
	baseURL string
	apiKey  string
}

func newOpenAIClient(doer Doer, baseURL, apiKey string) openAIClient {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	return openAIClient{
		doer:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (c openAIClient) postJSON(ctx context.Context, backend, path string, in, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: %s api key is not configured", domain.ErrBackendFailure, backend)
	}

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", backend, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := send(c.doer, backend, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %w", domain.ErrBackendFailure, backend, err)
	}
	return nil
}

type imageGenerationRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	N       int    `json:"n"`
}

type imageGenerationResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// OpenAIImage は DALL-E で画像を生成し、取得可能なURLを返すプロバイダです。
type OpenAIImage struct {
	client openAIClient
	model  string
}

// NewOpenAIImage は OpenAIImage を生成します。
func NewOpenAIImage(doer Doer, baseURL, apiKey, model string) *OpenAIImage {
	if model == "" {
		model = DefaultOpenAIImageModel
	}
	return &OpenAIImage{
		client: newOpenAIClient(doer, baseURL, apiKey),
		model:  model,
	}
}

func (o *OpenAIImage) Name() string { return openAIImageName }

// GenerateImage は 1024x1024 の画像を1枚生成します。
// 応答がURLでなくbase64の場合は、デコードしてバイト列として返すのだ。
func (o *OpenAIImage) GenerateImage(ctx context.Context, prompt string) (*domain.ImageBuffer, error) {
	if err := requirePrompt(prompt); err != nil {
		return nil, err
	}

	in := imageGenerationRequest{
		Model:   o.model,
		Prompt:  prompt,
		Size:    "1024x1024",
		Quality: "standard",
		N:       1,
	}
	var out imageGenerationResponse
	if err := o.client.postJSON(ctx, openAIImageName, "/images/generations", in, &out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 {
		return nil, fmt.Errorf("%w: %s returned no data", domain.ErrNoImage, openAIImageName)
	}

	item := out.Data[0]
	switch {
	case item.URL != "":
		return &domain.ImageBuffer{URL: item.URL, Source: openAIImageName}, nil
	case item.B64JSON != "":
		data, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid b64_json: %w", domain.ErrBackendFailure, err)
		}
		return &domain.ImageBuffer{Data: data, MimeType: "image/png", Source: openAIImageName}, nil
	default:
		return nil, fmt.Errorf("%w: %s returned an empty image", domain.ErrNoImage, openAIImageName)
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenAIStory は Chat Completions API で物語を生成します。
type OpenAIStory struct {
	client openAIClient
	model  string
}

// NewOpenAIStory は OpenAIStory を生成します。
func NewOpenAIStory(doer Doer, baseURL, apiKey, model string) *OpenAIStory {
	if model == "" {
		model = DefaultOpenAIChatModel
	}
	return &OpenAIStory{
		client: newOpenAIClient(doer, baseURL, apiKey),
		model:  model,
	}
}

// GenerateStory はプロンプトをユーザーメッセージとして送り、応答本文を返します。
func (o *OpenAIStory) GenerateStory(ctx context.Context, prompt string) (string, error) {
	if err := requirePrompt(prompt); err != nil {
		return "", err
	}

	in := chatCompletionsRequest{
		Model:    o.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	var out chatCompletionsResponse
	if err := o.client.postJSON(ctx, openAIStoryName, "/chat/completions", in, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: %s returned no choices", domain.ErrBackendFailure, openAIStoryName)
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
