package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plantlog/internal/service"
)

type speciesCreateRequest struct {
	CommonName            string   `json:"common_name" binding:"required"`
	ScientificName        *string  `json:"scientific_name"`
	WateringFrequencyDays *int     `json:"watering_frequency_days"`
	SunlightHoursNeeded   *float64 `json:"sunlight_hours_needed"`
	SunlightType          string   `json:"sunlight_type"`
	HumidityPreference    string   `json:"humidity_preference"`
	TemperatureMin        *float64 `json:"temperature_min"`
	CareDifficulty        string   `json:"care_difficulty"`
}

type speciesUpdateRequest struct {
	CommonName            *string  `json:"common_name"`
	ScientificName        *string  `json:"scientific_name"`
	WateringFrequencyDays *int     `json:"watering_frequency_days"`
	SunlightHoursNeeded   *float64 `json:"sunlight_hours_needed"`
	SunlightType          *string  `json:"sunlight_type"`
	HumidityPreference    *string  `json:"humidity_preference"`
	TemperatureMin        *float64 `json:"temperature_min"`
	CareDifficulty        *string  `json:"care_difficulty"`
}

// CreateSpecies 新建物种，常用名重复时返回 409
func (a *API) CreateSpecies(c *gin.Context) {
	var req speciesCreateRequest
	if !bindJSON(c, &req, "invalid species payload") {
		return
	}

	species, err := a.species.Create(service.SpeciesInput{
		CommonName:            req.CommonName,
		ScientificName:        req.ScientificName,
		WateringFrequencyDays: req.WateringFrequencyDays,
		SunlightHoursNeeded:   req.SunlightHoursNeeded,
		SunlightType:          req.SunlightType,
		HumidityPreference:    req.HumidityPreference,
		TemperatureMin:        req.TemperatureMin,
		CareDifficulty:        req.CareDifficulty,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newSpeciesResponse(*species))
}

// ListSpecies 按常用名字母序分页返回物种
func (a *API) ListSpecies(c *gin.Context) {
	skip, limit := parsePagination(c)
	species, err := a.species.List(skip, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	responses := make([]SpeciesResponse, 0, len(species))
	for _, item := range species {
		responses = append(responses, newSpeciesResponse(item))
	}
	c.JSON(http.StatusOK, responses)
}

// GetSpecies 返回单个物种
func (a *API) GetSpecies(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	species, err := a.species.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSpeciesResponse(*species))
}

// UpdateSpecies 局部更新物种
func (a *API) UpdateSpecies(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req speciesUpdateRequest
	if !bindJSON(c, &req, "invalid species payload") {
		return
	}

	species, err := a.species.Update(id, service.SpeciesUpdateInput{
		CommonName:            req.CommonName,
		ScientificName:        req.ScientificName,
		WateringFrequencyDays: req.WateringFrequencyDays,
		SunlightHoursNeeded:   req.SunlightHoursNeeded,
		SunlightType:          req.SunlightType,
		HumidityPreference:    req.HumidityPreference,
		TemperatureMin:        req.TemperatureMin,
		CareDifficulty:        req.CareDifficulty,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newSpeciesResponse(*species))
}

// DeleteSpecies 删除物种；仍被植物引用时返回 409
func (a *API) DeleteSpecies(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.species.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
