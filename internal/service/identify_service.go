package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const identifyPrompt = `You are a professional botanist and plant taxonomist specializing in plant identification.

Analyze this plant image and provide complete botanical information in JSON format:

REQUIRED FIELDS (use exact format specified):
- scientific_name: The EXACT binomial nomenclature (Genus species). Use accepted name, NOT synonyms. Examples: "Epipremnum aureum", "Monstera deliciosa"
- common_name: Most widely used common name. Examples: "Golden Pothos", "Snake Plant", "Peace Lily"
- watering_frequency_days: Integer number of days between watering (e.g., 7, 14, 21)
- sunlight_hours_needed: Integer hours of light needed per day (e.g., 4, 6, 8)
- sunlight_type: MUST be one of: "indirect", "low to bright indirect", "bright indirect", "low to medium indirect", "bright direct"
- humidity_preference: MUST be one of: "low", "medium", "high"
- temperature_min: Integer minimum temperature in Celsius (e.g., 10, 15, 18)
- care_difficulty: MUST be one of: "easy", "medium", "hard"

CRITICAL REQUIREMENTS:
- Scientific names: binomial nomenclature, capitalize Genus, lowercase species (e.g., "Spathiphyllum wallisii")
- Numbers must be integers (no strings, no decimals)
- Enums must match exactly (case-sensitive)
- Always use the SAME scientific name for the same species (prevents duplicates)

Return ONLY valid JSON, no markdown formatting.`

// PlantIdentification 是视觉模型识别结果的结构化载荷
type PlantIdentification struct {
	ScientificName        string  `json:"scientific_name"`
	CommonName            string  `json:"common_name"`
	WateringFrequencyDays int     `json:"watering_frequency_days"`
	SunlightHoursNeeded   float64 `json:"sunlight_hours_needed"`
	SunlightType          string  `json:"sunlight_type"`
	HumidityPreference    string  `json:"humidity_preference"`
	TemperatureMin        float64 `json:"temperature_min"`
	CareDifficulty        string  `json:"care_difficulty"`
}

// IdentificationResult 在识别载荷上附带已解析/新建的物种主键
type IdentificationResult struct {
	PlantIdentification
	SpeciesID uint
}

// IdentificationService 串联视觉识别与物种库：
// 先按学名查找，再退回常用名，都未命中时走 AutoCreate（不校验常用名唯一性）
type IdentificationService struct {
	species *SpeciesService
	vision  *VisionClient
}

// NewIdentificationService 构造 IdentificationService
func NewIdentificationService(species *SpeciesService, vision *VisionClient) *IdentificationService {
	return &IdentificationService{species: species, vision: vision}
}

// Identify 从图片识别物种并确保其在物种库中存在
// 模型调用或解析失败时记录日志并降级为兜底的未知物种载荷，不向上抛出原始错误
func (s *IdentificationService) Identify(ctx context.Context, imageBase64, mediaType string) (*IdentificationResult, error) {
	if !s.vision.Configured() {
		return nil, ErrVisionNotConfigured
	}

	info := s.identifyWithFallback(ctx, imageBase64, mediaType)

	species, err := s.species.GetByScientificName(info.ScientificName)
	if err != nil {
		if !errors.Is(err, ErrSpeciesNotFound) {
			return nil, err
		}
		species, err = s.species.GetByCommonName(info.CommonName)
	}
	if err != nil {
		if !errors.Is(err, ErrSpeciesNotFound) {
			return nil, err
		}

		scientific := info.ScientificName
		watering := info.WateringFrequencyDays
		sunlight := info.SunlightHoursNeeded
		tempMin := info.TemperatureMin
		species, err = s.species.AutoCreate(SpeciesInput{
			CommonName:            info.CommonName,
			ScientificName:        &scientific,
			WateringFrequencyDays: &watering,
			SunlightHoursNeeded:   &sunlight,
			SunlightType:          info.SunlightType,
			HumidityPreference:    info.HumidityPreference,
			TemperatureMin:        &tempMin,
			CareDifficulty:        info.CareDifficulty,
		})
		if err != nil {
			return nil, err
		}
	}

	return &IdentificationResult{PlantIdentification: *info, SpeciesID: species.ID}, nil
}

// identifyWithFallback 调用模型并解析；任何失败都降级为兜底载荷
func (s *IdentificationService) identifyWithFallback(ctx context.Context, imageBase64, mediaType string) *PlantIdentification {
	raw, err := s.vision.Analyze(ctx, imageBase64, mediaType, identifyPrompt)
	if err != nil {
		logVisionExchange("identify", "call failed, using fallback", err.Error())
		return fallbackIdentification()
	}
	logVisionExchange("identify", "response", raw)

	info, err := parseIdentification(raw)
	if err != nil {
		logVisionExchange("identify", "parse failed, using fallback", err.Error())
		return fallbackIdentification()
	}
	return info
}

func parseIdentification(raw string) (*PlantIdentification, error) {
	cleaned := stripMarkdownFences(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("unmarshal identification: %w", err)
	}
	required := []string{
		"scientific_name", "common_name", "watering_frequency_days",
		"sunlight_hours_needed", "sunlight_type", "humidity_preference",
		"temperature_min", "care_difficulty",
	}
	for _, field := range required {
		if _, ok := fields[field]; !ok {
			return nil, fmt.Errorf("identification response missing field %s", field)
		}
	}

	var info PlantIdentification
	if err := json.Unmarshal([]byte(cleaned), &info); err != nil {
		return nil, fmt.Errorf("unmarshal identification: %w", err)
	}

	info.ScientificName = normalizeScientificName(info.ScientificName)
	info.CommonName = strings.TrimSpace(info.CommonName)
	if info.ScientificName == "" || info.CommonName == "" {
		return nil, fmt.Errorf("identification response has empty names")
	}

	return &info, nil
}

// normalizeScientificName 统一为"属名首字母大写 + 种加词小写"的二名法格式，
// 避免同一物种因大小写差异被重复建档
func normalizeScientificName(name string) string {
	parts := strings.Fields(strings.TrimSpace(name))
	if len(parts) < 2 {
		return strings.TrimSpace(name)
	}

	genus := strings.ToLower(parts[0])
	if first, size := utf8.DecodeRuneInString(genus); first != utf8.RuneError {
		genus = string(unicode.ToUpper(first)) + genus[size:]
	}
	return genus + " " + strings.ToLower(parts[1])
}

// fallbackIdentification 返回文档化的未知物种兜底载荷
func fallbackIdentification() *PlantIdentification {
	return &PlantIdentification{
		ScientificName:        "Unknown species",
		CommonName:            "Unknown Plant",
		WateringFrequencyDays: 7,
		SunlightHoursNeeded:   6,
		SunlightType:          "bright indirect",
		HumidityPreference:    "medium",
		TemperatureMin:        15,
		CareDifficulty:        "medium",
	}
}
