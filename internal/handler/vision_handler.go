package handler

import (
	"encoding/base64"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/plantlog/internal/service"
	"github.com/plantlog/internal/storage"
)

type identifyResponse struct {
	SpeciesID             uint    `json:"species_id"`
	ScientificName        string  `json:"scientific_name"`
	CommonName            string  `json:"common_name"`
	WateringFrequencyDays int     `json:"watering_frequency_days"`
	SunlightHoursNeeded   float64 `json:"sunlight_hours_needed"`
	SunlightType          string  `json:"sunlight_type"`
	HumidityPreference    string  `json:"humidity_preference"`
	TemperatureMin        float64 `json:"temperature_min"`
	CareDifficulty        string  `json:"care_difficulty"`
}

// IdentifyPlant 从照片识别物种并确保其进入物种库
func (a *API) IdentifyPlant(c *gin.Context) {
	content, ext, ok := readImageUpload(c, maxPlantImageBytes)
	if !ok {
		return
	}

	encoded := base64.StdEncoding.EncodeToString(content)
	result, err := a.identifier.Identify(c.Request.Context(), encoded, storage.ContentTypeForExt(ext))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, identifyResponse{
		SpeciesID:             result.SpeciesID,
		ScientificName:        result.ScientificName,
		CommonName:            result.CommonName,
		WateringFrequencyDays: result.WateringFrequencyDays,
		SunlightHoursNeeded:   result.SunlightHoursNeeded,
		SunlightType:          result.SunlightType,
		HumidityPreference:    result.HumidityPreference,
		TemperatureMin:        result.TemperatureMin,
		CareDifficulty:        result.CareDifficulty,
	})
}

// DiagnosePlant 从照片生成健康诊断并落库
// 可选表单字段：plant_id 关联到某株植物，location 作为环境提示词
// 照片上传是尽力而为：存储失败只记录日志，不阻断诊断流程
func (a *API) DiagnosePlant(c *gin.Context) {
	content, ext, ok := readImageUpload(c, maxPlantImageBytes)
	if !ok {
		return
	}

	actor := currentActor(c)

	var plantID *uint
	locationHint := c.PostForm("location")
	if raw := c.PostForm("plant_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, http.StatusUnprocessableEntity, "invalid plant_id")
			return
		}
		id := uint(parsed)

		plant, err := a.plants.Get(actor, id)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		plantID = &plant.ID
		if locationHint == "" {
			locationHint = plant.Location
		}
	}

	encoded := base64.StdEncoding.EncodeToString(content)
	result, err := a.diagnoser.Diagnose(c.Request.Context(), encoded, storage.ContentTypeForExt(ext), locationHint)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	imageURL := ""
	if a.storage.Configured() {
		url, err := a.storage.UploadDiagnosisImage(c.Request.Context(), actor.ID, content, ext)
		if err != nil {
			log.Printf("diagnosis image upload failed, continuing without image: %v", err)
		} else {
			imageURL = url
		}
	}

	diagnosis, err := a.diagnoses.Create(actor, service.DiagnosisInput{
		PlantID:         plantID,
		IssueDetected:   result.IssueDetected,
		ConfidenceScore: result.ConfidenceScore,
		Severity:        result.Severity,
		Recommendation:  result.Recommendation,
		ImageURL:        imageURL,

		RecoveryWatering:       result.RecoveryWatering,
		RecoverySunlight:       result.RecoverySunlight,
		RecoveryAirCirculation: result.RecoveryAirCirculation,
		RecoveryTemperature:    result.RecoveryTemperature,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newDiagnosisResponse(*diagnosis))
}
