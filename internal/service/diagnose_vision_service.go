package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const diagnosePrompt = `You are an expert plant pathologist and botanist specializing in plant health diagnosis.

Analyze this plant image and provide a complete health diagnosis in JSON format:

REQUIRED FIELDS (ALL MUST BE PROVIDED):
- issue_detected: The name of the disease/issue OR "No Issues Detected" if healthy (e.g., "Leaf Spot Disease", "Root Rot", "Spider Mites Infestation", "No Issues Detected")
- confidence_score: Your confidence as a decimal 0.0-1.0 (e.g., 0.87 for 87%)
- severity: MUST be one of: "Healthy", "Low Severity", "Medium Severity", "High Severity"
- recommendation: Comprehensive recommendation (2-4 sentences explaining what to do or continue doing)
- recovery_watering: ALWAYS provide watering guidance (e.g., "Water when top inch is dry, every 5-7 days")
- recovery_sunlight: ALWAYS provide light requirements (e.g., "Bright indirect light, 6-8 hours")
- recovery_air_circulation: ALWAYS provide air flow guidance (e.g., "Good room ventilation is sufficient")
- recovery_temperature: ALWAYS provide temperature range (e.g., "Keep between 18-24°C")

CRITICAL REQUIREMENTS:
- ALL 8 fields must be present, even for healthy plants
- For healthy plants, provide MAINTENANCE care tips (not recovery tips)
- Be specific about the disease/pest name if sick
- Confidence score must be realistic (0.7-0.95 for clear issues, 0.95+ for healthy plants)
- Severity must match the issue (healthy plants = "Healthy")
- Recommendations must be actionable and detailed
- NEVER leave recovery fields empty or null

Return ONLY valid JSON, no markdown formatting.`

// VisionDiagnosis 是视觉模型诊断结果的结构化载荷
type VisionDiagnosis struct {
	IssueDetected   string  `json:"issue_detected"`
	ConfidenceScore float64 `json:"confidence_score"`
	Severity        string  `json:"severity"`
	Recommendation  string  `json:"recommendation"`

	RecoveryWatering       string `json:"recovery_watering"`
	RecoverySunlight       string `json:"recovery_sunlight"`
	RecoveryAirCirculation string `json:"recovery_air_circulation"`
	RecoveryTemperature    string `json:"recovery_temperature"`
}

// DiagnosisVisionService 负责从图片生成健康诊断
// 不做重试：模型失败降级为文档化的"无法诊断"兜底载荷，但失败本身必须留痕
type DiagnosisVisionService struct {
	vision *VisionClient
}

// NewDiagnosisVisionService 构造 DiagnosisVisionService
func NewDiagnosisVisionService(vision *VisionClient) *DiagnosisVisionService {
	return &DiagnosisVisionService{vision: vision}
}

// Diagnose 从图片生成诊断；locationHint 可选，用于补充植物摆放环境
func (s *DiagnosisVisionService) Diagnose(ctx context.Context, imageBase64, mediaType, locationHint string) (*VisionDiagnosis, error) {
	if !s.vision.Configured() {
		return nil, ErrVisionNotConfigured
	}

	prompt := diagnosePrompt
	if hint := strings.TrimSpace(locationHint); hint != "" {
		prompt += fmt.Sprintf("\n\nAdditional context: the plant is kept at %q.", hint)
	}

	raw, err := s.vision.Analyze(ctx, imageBase64, mediaType, prompt)
	if err != nil {
		logVisionExchange("diagnose", "call failed, using fallback", err.Error())
		return fallbackDiagnosis(), nil
	}
	logVisionExchange("diagnose", "response", raw)

	info, err := parseVisionDiagnosis(raw)
	if err != nil {
		logVisionExchange("diagnose", "parse failed, using fallback", err.Error())
		return fallbackDiagnosis(), nil
	}
	return info, nil
}

func parseVisionDiagnosis(raw string) (*VisionDiagnosis, error) {
	cleaned := stripMarkdownFences(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("unmarshal diagnosis: %w", err)
	}
	required := []string{
		"issue_detected", "confidence_score", "severity", "recommendation",
		"recovery_watering", "recovery_sunlight", "recovery_air_circulation", "recovery_temperature",
	}
	for _, field := range required {
		if _, ok := fields[field]; !ok {
			return nil, fmt.Errorf("diagnosis response missing field %s", field)
		}
	}

	var info VisionDiagnosis
	if err := json.Unmarshal([]byte(cleaned), &info); err != nil {
		return nil, fmt.Errorf("unmarshal diagnosis: %w", err)
	}

	if strings.TrimSpace(info.IssueDetected) == "" || strings.TrimSpace(info.Severity) == "" {
		return nil, fmt.Errorf("diagnosis response has empty issue or severity")
	}

	info.ConfidenceScore = clampConfidence(info.ConfidenceScore)
	return &info, nil
}

// fallbackDiagnosis 返回文档化的"无法诊断"兜底载荷
func fallbackDiagnosis() *VisionDiagnosis {
	return &VisionDiagnosis{
		IssueDetected:   "Unable to Diagnose",
		ConfidenceScore: 0.0,
		Severity:        "Unknown",
		Recommendation: "Could not analyze plant health from image. " +
			"Please try again with a clearer photo showing the plant's leaves and any visible issues.",
		RecoveryWatering:       "Water when top 1-2 inches of soil are dry",
		RecoverySunlight:       "Provide bright indirect light, 6-8 hours daily",
		RecoveryAirCirculation: "Ensure good room ventilation",
		RecoveryTemperature:    "Maintain temperature between 18-24°C",
	}
}
