package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plantlog/internal/service"
)

type diagnosisCreateRequest struct {
	PlantID         *uint   `json:"plant_id"`
	IssueDetected   string  `json:"issue_detected" binding:"required"`
	ConfidenceScore float64 `json:"confidence_score"`
	Severity        string  `json:"severity" binding:"required"`
	Recommendation  string  `json:"recommendation"`
	ImageURL        string  `json:"image_url"`

	RecoveryWatering       string `json:"recovery_watering"`
	RecoverySunlight       string `json:"recovery_sunlight"`
	RecoveryAirCirculation string `json:"recovery_air_circulation"`
	RecoveryTemperature    string `json:"recovery_temperature"`
}

type diagnosisUpdateRequest struct {
	IssueDetected   *string  `json:"issue_detected"`
	ConfidenceScore *float64 `json:"confidence_score"`
	Severity        *string  `json:"severity"`
	Recommendation  *string  `json:"recommendation"`
	ImageURL        *string  `json:"image_url"`

	RecoveryWatering       *string `json:"recovery_watering"`
	RecoverySunlight       *string `json:"recovery_sunlight"`
	RecoveryAirCirculation *string `json:"recovery_air_circulation"`
	RecoveryTemperature    *string `json:"recovery_temperature"`
}

// CreateDiagnosis 手工录入一条诊断记录
func (a *API) CreateDiagnosis(c *gin.Context) {
	var req diagnosisCreateRequest
	if !bindJSON(c, &req, "invalid diagnosis payload") {
		return
	}

	diagnosis, err := a.diagnoses.Create(currentActor(c), service.DiagnosisInput{
		PlantID:         req.PlantID,
		IssueDetected:   req.IssueDetected,
		ConfidenceScore: req.ConfidenceScore,
		Severity:        req.Severity,
		Recommendation:  req.Recommendation,
		ImageURL:        req.ImageURL,

		RecoveryWatering:       req.RecoveryWatering,
		RecoverySunlight:       req.RecoverySunlight,
		RecoveryAirCirculation: req.RecoveryAirCirculation,
		RecoveryTemperature:    req.RecoveryTemperature,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newDiagnosisResponse(*diagnosis))
}

// ListDiagnoses 返回当前用户的诊断；超级管理员可用 ?all=1 查看全部
func (a *API) ListDiagnoses(c *gin.Context) {
	skip, limit := parsePagination(c)
	actor := currentActor(c)

	if c.Query("all") == "1" {
		diagnoses, err := a.diagnoses.ListAll(actor, skip, limit)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, newDiagnosisResponses(diagnoses))
		return
	}

	diagnoses, err := a.diagnoses.ListByUser(actor.ID, skip, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDiagnosisResponses(diagnoses))
}

// GetDiagnosis 返回单条诊断
func (a *API) GetDiagnosis(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	diagnosis, err := a.diagnoses.Get(currentActor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDiagnosisResponse(*diagnosis))
}

// UpdateDiagnosis 局部更新诊断
func (a *API) UpdateDiagnosis(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req diagnosisUpdateRequest
	if !bindJSON(c, &req, "invalid diagnosis payload") {
		return
	}

	diagnosis, err := a.diagnoses.Update(currentActor(c), id, service.DiagnosisUpdateInput{
		IssueDetected:   req.IssueDetected,
		ConfidenceScore: req.ConfidenceScore,
		Severity:        req.Severity,
		Recommendation:  req.Recommendation,
		ImageURL:        req.ImageURL,

		RecoveryWatering:       req.RecoveryWatering,
		RecoverySunlight:       req.RecoverySunlight,
		RecoveryAirCirculation: req.RecoveryAirCirculation,
		RecoveryTemperature:    req.RecoveryTemperature,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newDiagnosisResponse(*diagnosis))
}

// DeleteDiagnosis 删除诊断
func (a *API) DeleteDiagnosis(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.diagnoses.Delete(currentActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
