package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plantlog/internal/service"
)

type plantCreateRequest struct {
	SpeciesID   uint       `json:"species_id" binding:"required"`
	PlantName   string     `json:"plant_name" binding:"required"`
	Location    string     `json:"location"`
	LastWatered *time.Time `json:"last_watered"`
	AcquiredAt  *time.Time `json:"acquired_at"`
	ImageURL    string     `json:"image_url"`
}

type plantUpdateRequest struct {
	SpeciesID  *uint      `json:"species_id"`
	PlantName  *string    `json:"plant_name"`
	Location   *string    `json:"location"`
	AcquiredAt *time.Time `json:"acquired_at"`
	ImageURL   *string    `json:"image_url"`
}

// CreatePlant 为当前用户新建植物
func (a *API) CreatePlant(c *gin.Context) {
	var req plantCreateRequest
	if !bindJSON(c, &req, "invalid plant payload") {
		return
	}

	plant, err := a.plants.Create(currentActor(c), service.PlantInput{
		SpeciesID:   req.SpeciesID,
		PlantName:   req.PlantName,
		Location:    req.Location,
		LastWatered: req.LastWatered,
		AcquiredAt:  req.AcquiredAt,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newPlantResponse(*plant))
}

// ListPlants 分页返回当前用户的植物，最近创建的在前
func (a *API) ListPlants(c *gin.Context) {
	skip, limit := parsePagination(c)
	plants, err := a.plants.ListForUser(currentUser(c).ID, skip, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlantResponses(plants))
}

// GetPlant 返回单株植物；他人的植物返回 403
func (a *API) GetPlant(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	plant, err := a.plants.Get(currentActor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlantResponse(*plant))
}

// UpdatePlant 局部更新植物
func (a *API) UpdatePlant(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var req plantUpdateRequest
	if !bindJSON(c, &req, "invalid plant payload") {
		return
	}

	plant, err := a.plants.Update(currentActor(c), id, service.PlantUpdateInput{
		SpeciesID:  req.SpeciesID,
		PlantName:  req.PlantName,
		Location:   req.Location,
		AcquiredAt: req.AcquiredAt,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newPlantResponse(*plant))
}

// DeletePlant 删除植物及其诊断记录
func (a *API) DeletePlant(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.plants.Delete(currentActor(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// WaterPlant 将植物标记为刚浇过水
func (a *API) WaterPlant(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	plant, err := a.plants.Water(currentActor(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlantResponse(*plant))
}

// UploadPlantImage 上传植物照片并把公开地址写回植物记录
func (a *API) UploadPlantImage(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	actor := currentActor(c)
	plant, err := a.plants.Get(actor, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	content, ext, ok := readImageUpload(c, maxPlantImageBytes)
	if !ok {
		return
	}

	url, err := a.storage.UploadPlantImage(c.Request.Context(), plant.UserID, plant.ID, content, ext)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	updated, err := a.plants.SetImageURL(actor, plant.ID, url)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPlantResponse(*updated))
}

// ListPlantDiagnoses 返回某株植物的诊断历史
func (a *API) ListPlantDiagnoses(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	skip, limit := parsePagination(c)
	diagnoses, err := a.diagnoses.ListByPlant(currentActor(c), id, skip, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDiagnosisResponses(diagnoses))
}
