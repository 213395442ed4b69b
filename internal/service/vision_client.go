package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrVisionNotConfigured 在未配置视觉模型 API Key 时返回，
// 属于配置错误，与上游临时故障区分开
var ErrVisionNotConfigured = errors.New("vision service not configured")

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type visionImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type visionContentBlock struct {
	Type   string             `json:"type"`
	Text   string             `json:"text,omitempty"`
	Source *visionImageSource `json:"source,omitempty"`
}

type visionMessage struct {
	Role    string               `json:"role"`
	Content []visionContentBlock `json:"content"`
}

type visionMessagesRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	Messages    []visionMessage `json:"messages"`
}

type visionMessagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// VisionClient 封装对视觉模型 messages 接口的调用
// 不做重试：调用失败由上层转换为兜底载荷
type VisionClient struct {
	http    httpDoer
	apiKey  string
	baseURL string
	model   string
}

// NewVisionClient 构造 VisionClient，base/model 为空时使用默认值
func NewVisionClient(apiKey, baseURL, model string) *VisionClient {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = "https://api.anthropic.com/v1"
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = "claude-sonnet-4-5-20250929"
	}

	return &VisionClient{
		http:    &http.Client{Timeout: 120 * time.Second},
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: base,
		model:   model,
	}
}

// SetHTTPClient 替换底层 HTTP 客户端，测试注入用
func (c *VisionClient) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 20 * time.Second}
		return
	}
	c.http = client
}

// Configured 报告是否具备调用条件
func (c *VisionClient) Configured() bool {
	return c.apiKey != ""
}

// Analyze 发送一张 base64 图片与提示词，返回模型的文本输出
func (c *VisionClient) Analyze(ctx context.Context, imageBase64, mediaType, prompt string) (string, error) {
	if !c.Configured() {
		return "", ErrVisionNotConfigured
	}

	if strings.TrimSpace(mediaType) == "" {
		mediaType = "image/jpeg"
	}

	payload := visionMessagesRequest{
		Model:       c.model,
		MaxTokens:   2048,
		Temperature: 0,
		Messages: []visionMessage{
			{
				Role: "user",
				Content: []visionContentBlock{
					{
						Type: "image",
						Source: &visionImageSource{
							Type:      "base64",
							MediaType: mediaType,
							Data:      imageBase64,
						},
					},
					{Type: "text", Text: prompt},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("构造视觉请求失败: %w", err)
	}

	endpoint := c.baseURL + "/messages"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("创建视觉请求失败: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "plantlog-vision/1.0")

	client := c.http
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("请求视觉接口失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("读取视觉响应失败: %w", err)
	}

	var completion visionMessagesResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("解析视觉响应失败: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		errMsg := strings.TrimSpace(completion.Error.Message)
		if errMsg == "" {
			errMsg = strings.TrimSpace(string(respBody))
		}
		if errMsg == "" {
			errMsg = resp.Status
		}
		return "", fmt.Errorf("视觉接口返回错误：%s", errMsg)
	}

	for _, block := range completion.Content {
		if block.Type == "text" && strings.TrimSpace(block.Text) != "" {
			return strings.TrimSpace(block.Text), nil
		}
	}

	return "", fmt.Errorf("视觉接口未返回文本结果")
}

// stripMarkdownFences 剥离模型偶尔包裹在 JSON 外层的代码围栏
func stripMarkdownFences(raw string) string {
	trimmed := strings.TrimSpace(raw)

	if idx := strings.Index(trimmed, "```json"); idx >= 0 {
		trimmed = trimmed[idx+len("```json"):]
		if end := strings.Index(trimmed, "```"); end >= 0 {
			trimmed = trimmed[:end]
		}
		return strings.TrimSpace(trimmed)
	}

	if idx := strings.Index(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[idx+len("```"):]
		if end := strings.Index(trimmed, "```"); end >= 0 {
			trimmed = trimmed[:end]
		}
		return strings.TrimSpace(trimmed)
	}

	return trimmed
}
