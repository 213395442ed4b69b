package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plantlog/internal/service"
)

type profileRequest struct {
	FullName        *string    `json:"full_name"`
	Tagline         *string    `json:"tagline"`
	Age             *int       `json:"age"`
	LivingSituation *string    `json:"living_situation"`
	ExperienceLevel *string    `json:"experience_level"`
	ExperienceSince *time.Time `json:"experience_since"`
	City            *string    `json:"city"`
	Country         *string    `json:"country"`
}

func (r profileRequest) toInput() service.ProfileInput {
	return service.ProfileInput{
		FullName:        r.FullName,
		Tagline:         r.Tagline,
		Age:             r.Age,
		LivingSituation: r.LivingSituation,
		ExperienceLevel: r.ExperienceLevel,
		ExperienceSince: r.ExperienceSince,
		City:            r.City,
		Country:         r.Country,
	}
}

// GetMyProfile 返回当前用户的资料；plant_count 读取时校正，care_rate 现算
func (a *API) GetMyProfile(c *gin.Context) {
	view, err := a.profiles.GetByUserID(currentUser(c).ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(*view))
}

// CreateMyProfile 为当前用户创建资料，重复创建返回 409
func (a *API) CreateMyProfile(c *gin.Context) {
	var req profileRequest
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}

	view, err := a.profiles.Create(currentUser(c).ID, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newProfileResponse(*view))
}

// UpdateMyProfile 局部更新当前用户的资料
func (a *API) UpdateMyProfile(c *gin.Context) {
	var req profileRequest
	if !bindJSON(c, &req, "invalid profile payload") {
		return
	}

	view, err := a.profiles.Update(currentActor(c), currentUser(c).ID, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(*view))
}
