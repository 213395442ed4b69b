package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotConfigured 在未配置对象存储地址或密钥时返回，
// 属于配置错误，与上游临时故障区分开
var ErrNotConfigured = errors.New("object storage not configured")

// 按用途划分的存储桶
const (
	BucketAvatars         = "user-avatars"
	BucketPlantImages     = "plant-images"
	BucketDiagnosisImages = "diagnosis-images"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client 封装对象存储的 REST 上传接口
// 文件按用户 ID 分目录存放，文件名带随机后缀避免覆盖
type Client struct {
	http    httpDoer
	baseURL string
	key     string
}

// NewClient 构造存储客户端；baseURL/key 允许为空，调用时返回 ErrNotConfigured
func NewClient(baseURL, key string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		key:     strings.TrimSpace(key),
	}
}

// SetHTTPClient 替换底层 HTTP 客户端，测试注入用
func (c *Client) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
		return
	}
	c.http = client
}

// Configured 报告是否具备上传条件
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.key != ""
}

// UploadAvatar 上传用户头像，返回公开访问地址
func (c *Client) UploadAvatar(ctx context.Context, userID uint, content []byte, ext string) (string, error) {
	key := fmt.Sprintf("%d/avatar_%s.%s", userID, uuid.New().String(), normalizeExt(ext))
	return c.upload(ctx, BucketAvatars, key, content, ext)
}

// UploadPlantImage 上传植物照片，返回公开访问地址
func (c *Client) UploadPlantImage(ctx context.Context, userID, plantID uint, content []byte, ext string) (string, error) {
	key := fmt.Sprintf("%d/plant_%d_%s.%s", userID, plantID, uuid.New().String(), normalizeExt(ext))
	return c.upload(ctx, BucketPlantImages, key, content, ext)
}

// UploadDiagnosisImage 上传诊断照片（诊断记录可能尚未创建），返回公开访问地址
func (c *Client) UploadDiagnosisImage(ctx context.Context, userID uint, content []byte, ext string) (string, error) {
	key := fmt.Sprintf("%d/diagnosis_%s.%s", userID, uuid.New().String(), normalizeExt(ext))
	return c.upload(ctx, BucketDiagnosisImages, key, content, ext)
}

func (c *Client) upload(ctx context.Context, bucket, key string, content []byte, ext string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, bucket, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", ContentTypeForExt(ext))

	client := c.http
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload to bucket %s: %w", bucket, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("upload to bucket %s failed: %s: %s", bucket, resp.Status, strings.TrimSpace(string(body)))
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, bucket, key), nil
}

// ContentTypeForExt 根据扩展名推断 Content-Type
func ContentTypeForExt(ext string) string {
	switch normalizeExt(ext) {
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func normalizeExt(ext string) string {
	cleaned := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if cleaned == "jpeg" {
		return "jpg"
	}
	if cleaned == "" {
		return "jpg"
	}
	return cleaned
}
