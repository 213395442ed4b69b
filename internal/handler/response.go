package handler

import (
	"time"

	"github.com/plantlog/internal/db"
	"github.com/plantlog/internal/service"
)

// 响应结构在这里显式组装：持久化实体不直接外露，
// 派生字段（养护率、建议 HTML 等）只存在于响应对象上

// UserResponse 不携带密码哈希
type UserResponse struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SpeciesResponse 返回物种参考数据
type SpeciesResponse struct {
	ID                    uint     `json:"id"`
	CommonName            string   `json:"common_name"`
	ScientificName        *string  `json:"scientific_name"`
	WateringFrequencyDays *int     `json:"watering_frequency_days"`
	SunlightHoursNeeded   *float64 `json:"sunlight_hours_needed"`
	SunlightType          string   `json:"sunlight_type,omitempty"`
	HumidityPreference    string   `json:"humidity_preference,omitempty"`
	TemperatureMin        *float64 `json:"temperature_min"`
	CareDifficulty        string   `json:"care_difficulty,omitempty"`
}

// PlantResponse 总是内嵌已解析的物种信息
type PlantResponse struct {
	ID          uint            `json:"id"`
	PlantName   string          `json:"plant_name"`
	Location    string          `json:"location,omitempty"`
	LastWatered *time.Time      `json:"last_watered"`
	AcquiredAt  *time.Time      `json:"acquired_at"`
	ImageURL    string          `json:"image_url,omitempty"`
	Species     SpeciesResponse `json:"species"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DiagnosisResponse 只携带 plant_id，不内嵌植物对象
type DiagnosisResponse struct {
	ID                 uint      `json:"id"`
	PlantID            *uint     `json:"plant_id"`
	IssueDetected      string    `json:"issue_detected"`
	ConfidenceScore    float64   `json:"confidence_score"`
	Severity           string    `json:"severity"`
	Recommendation     string    `json:"recommendation,omitempty"`
	RecommendationHTML string    `json:"recommendation_html,omitempty"`
	ImageURL           string    `json:"image_url,omitempty"`
	RecoveryWatering   string    `json:"recovery_watering,omitempty"`
	RecoverySunlight   string    `json:"recovery_sunlight,omitempty"`
	RecoveryAir        string    `json:"recovery_air_circulation,omitempty"`
	RecoveryTemp       string    `json:"recovery_temperature,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// ActivityResponse 返回活动流条目
type ActivityResponse struct {
	ID          uint      `json:"id"`
	PlantID     *uint     `json:"plant_id"`
	DiagnosisID *uint     `json:"diagnosis_id"`
	Kind        string    `json:"activity_type"`
	Title       string    `json:"title"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProfileResponse 携带校正后的 plant_count 与现算的 care_rate
type ProfileResponse struct {
	ID              uint       `json:"id"`
	UserID          uint       `json:"user_id"`
	FullName        string     `json:"full_name,omitempty"`
	Tagline         string     `json:"tagline,omitempty"`
	Age             *int       `json:"age"`
	LivingSituation string     `json:"living_situation,omitempty"`
	ExperienceLevel string     `json:"experience_level,omitempty"`
	ExperienceSince *time.Time `json:"experience_since"`
	City            string     `json:"city,omitempty"`
	Country         string     `json:"country,omitempty"`
	PlantCount      int        `json:"plant_count"`
	CareRate        int        `json:"care_rate"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func newUserResponse(user db.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Username:    user.Username,
		FullName:    user.FullName,
		IsActive:    user.IsActive,
		IsSuperuser: user.IsSuperuser,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func newSpeciesResponse(species db.PlantSpecies) SpeciesResponse {
	return SpeciesResponse{
		ID:                    species.ID,
		CommonName:            species.CommonName,
		ScientificName:        species.ScientificName,
		WateringFrequencyDays: species.WateringFrequencyDays,
		SunlightHoursNeeded:   species.SunlightHoursNeeded,
		SunlightType:          species.SunlightType,
		HumidityPreference:    species.HumidityPreference,
		TemperatureMin:        species.TemperatureMin,
		CareDifficulty:        species.CareDifficulty,
	}
}

func newPlantResponse(plant db.Plant) PlantResponse {
	return PlantResponse{
		ID:          plant.ID,
		PlantName:   plant.PlantName,
		Location:    plant.Location,
		LastWatered: plant.LastWatered,
		AcquiredAt:  plant.AcquiredAt,
		ImageURL:    plant.ImageURL,
		Species:     newSpeciesResponse(plant.Species),
		CreatedAt:   plant.CreatedAt,
		UpdatedAt:   plant.UpdatedAt,
	}
}

func newPlantResponses(plants []db.Plant) []PlantResponse {
	responses := make([]PlantResponse, 0, len(plants))
	for _, plant := range plants {
		responses = append(responses, newPlantResponse(plant))
	}
	return responses
}

func newDiagnosisResponse(diagnosis db.Diagnosis) DiagnosisResponse {
	return DiagnosisResponse{
		ID:                 diagnosis.ID,
		PlantID:            diagnosis.PlantID,
		IssueDetected:      diagnosis.IssueDetected,
		ConfidenceScore:    diagnosis.ConfidenceScore,
		Severity:           diagnosis.Severity,
		Recommendation:     diagnosis.Recommendation,
		RecommendationHTML: service.RenderRecommendationHTML(diagnosis.Recommendation),
		ImageURL:           diagnosis.ImageURL,
		RecoveryWatering:   diagnosis.RecoveryWatering,
		RecoverySunlight:   diagnosis.RecoverySunlight,
		RecoveryAir:        diagnosis.RecoveryAirCirculation,
		RecoveryTemp:       diagnosis.RecoveryTemperature,
		CreatedAt:          diagnosis.CreatedAt,
	}
}

func newDiagnosisResponses(diagnoses []db.Diagnosis) []DiagnosisResponse {
	responses := make([]DiagnosisResponse, 0, len(diagnoses))
	for _, diagnosis := range diagnoses {
		responses = append(responses, newDiagnosisResponse(diagnosis))
	}
	return responses
}

func newActivityResponse(activity db.Activity) ActivityResponse {
	return ActivityResponse{
		ID:          activity.ID,
		PlantID:     activity.PlantID,
		DiagnosisID: activity.DiagnosisID,
		Kind:        activity.Kind,
		Title:       activity.Title,
		CreatedAt:   activity.CreatedAt,
	}
}

func newProfileResponse(view service.ProfileView) ProfileResponse {
	profile := view.Profile
	return ProfileResponse{
		ID:              profile.ID,
		UserID:          profile.UserID,
		FullName:        profile.FullName,
		Tagline:         profile.Tagline,
		Age:             profile.Age,
		LivingSituation: profile.LivingSituation,
		ExperienceLevel: profile.ExperienceLevel,
		ExperienceSince: profile.ExperienceSince,
		City:            profile.City,
		Country:         profile.Country,
		PlantCount:      profile.PlantCount,
		CareRate:        view.CareRate,
		CreatedAt:       profile.CreatedAt,
		UpdatedAt:       profile.UpdatedAt,
	}
}
