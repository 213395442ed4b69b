package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabasePath      string
	GinMode           string
	TokenSecret       string
	TokenTTL          time.Duration
	SuperRootUserName string
	SuperRootPassword string
	AllowedOrigins    []string

	// 视觉模型配置，缺失 API Key 时识别/诊断功能降级为未配置错误
	VisionAPIKey  string
	VisionBaseURL string
	VisionModel   string

	// 对象存储配置，缺失时上传接口返回配置错误
	StorageURL string
	StorageKey string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "plantlog.db"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))
	if ginMode == "" {
		ginMode = "release"
	}

	tokenSecret := strings.TrimSpace(os.Getenv("TOKEN_SECRET"))
	if tokenSecret == "" {
		tokenSecret = "plantlog-dev-secret"
	}

	tokenTTL := 24 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("TOKEN_TTL_MINUTES")); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			tokenTTL = time.Duration(minutes) * time.Minute
		}
	}

	visionBaseURL := strings.TrimSpace(os.Getenv("VISION_BASE_URL"))
	if visionBaseURL == "" {
		visionBaseURL = "https://api.anthropic.com/v1"
	}

	visionModel := strings.TrimSpace(os.Getenv("VISION_MODEL"))
	if visionModel == "" {
		visionModel = "claude-sonnet-4-5-20250929"
	}

	var origins []string
	for _, raw := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}

	return AppConfig{
		ListenAddr:        listenAddr,
		Port:              port,
		DatabasePath:      databasePath,
		GinMode:           ginMode,
		TokenSecret:       tokenSecret,
		TokenTTL:          tokenTTL,
		SuperRootUserName: strings.TrimSpace(os.Getenv("SUPER_ROOT_USER_NAME")),
		SuperRootPassword: strings.TrimSpace(os.Getenv("SUPER_ROOT_PASSWORD")),
		AllowedOrigins:    origins,
		VisionAPIKey:      strings.TrimSpace(os.Getenv("VISION_API_KEY")),
		VisionBaseURL:     visionBaseURL,
		VisionModel:       visionModel,
		StorageURL:        strings.TrimSpace(os.Getenv("STORAGE_URL")),
		StorageKey:        strings.TrimSpace(os.Getenv("STORAGE_KEY")),
	}
}
