package handler

import (
	"github.com/plantlog/internal/auth"
	"github.com/plantlog/internal/config"
	"github.com/plantlog/internal/service"
	"github.com/plantlog/internal/storage"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	tokens     *auth.TokenIssuer
	users      *service.UserService
	plants     *service.PlantService
	species    *service.SpeciesService
	diagnoses  *service.DiagnosisService
	activities *service.ActivityService
	profiles   *service.ProfileService
	identifier *service.IdentificationService
	diagnoser  *service.DiagnosisVisionService
	storage    *storage.Client
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig) *API {
	speciesService := service.NewSpeciesService(gdb)
	visionClient := service.NewVisionClient(cfg.VisionAPIKey, cfg.VisionBaseURL, cfg.VisionModel)

	return &API{
		db:         gdb,
		tokens:     auth.NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL),
		users:      service.NewUserService(gdb),
		plants:     service.NewPlantService(gdb),
		species:    speciesService,
		diagnoses:  service.NewDiagnosisService(gdb),
		activities: service.NewActivityService(gdb),
		profiles:   service.NewProfileService(gdb),
		identifier: service.NewIdentificationService(speciesService, visionClient),
		diagnoser:  service.NewDiagnosisVisionService(visionClient),
		storage:    storage.NewClient(cfg.StorageURL, cfg.StorageKey),
	}
}

// DB exposes the underlying gorm instance for bootstrap paths.
func (a *API) DB() *gorm.DB {
	return a.db
}
