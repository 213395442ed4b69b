package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/plantlog/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", api.Register)
			auth.POST("/login", api.Login)
		}

		// 需要认证的业务路由
		protected := v1.Group("")
		protected.Use(api.AuthRequired())
		{
			users := protected.Group("/users")
			{
				users.GET("", api.ListUsers)
				users.GET("/me", api.GetCurrentUser)
				users.GET("/:id", api.GetUser)
				users.PUT("/:id", api.UpdateUser)
				users.DELETE("/:id", api.DeleteUser)
			}

			species := protected.Group("/species")
			{
				species.GET("", api.ListSpecies)
				species.POST("", api.CreateSpecies)
				species.GET("/:id", api.GetSpecies)
				species.PUT("/:id", api.UpdateSpecies)
				species.DELETE("/:id", api.DeleteSpecies)
			}

			plants := protected.Group("/plants")
			{
				plants.GET("", api.ListPlants)
				plants.POST("", api.CreatePlant)
				plants.GET("/:id", api.GetPlant)
				plants.PUT("/:id", api.UpdatePlant)
				plants.DELETE("/:id", api.DeletePlant)
				plants.POST("/:id/water", api.WaterPlant)
				plants.POST("/:id/image", api.UploadPlantImage)
				plants.GET("/:id/diagnoses", api.ListPlantDiagnoses)
			}

			diagnoses := protected.Group("/diagnoses")
			{
				diagnoses.GET("", api.ListDiagnoses)
				diagnoses.POST("", api.CreateDiagnosis)
				diagnoses.GET("/:id", api.GetDiagnosis)
				diagnoses.PUT("/:id", api.UpdateDiagnosis)
				diagnoses.DELETE("/:id", api.DeleteDiagnosis)
			}

			protected.GET("/activities", api.ListActivities)

			profiles := protected.Group("/profiles")
			{
				profiles.GET("/me", api.GetMyProfile)
				profiles.POST("/me", api.CreateMyProfile)
				profiles.PUT("/me", api.UpdateMyProfile)
			}

			uploads := protected.Group("/uploads")
			{
				uploads.POST("/avatar", api.UploadAvatar)
				uploads.POST("/diagnosis-image", api.UploadDiagnosisImage)
			}

			ai := protected.Group("/ai")
			{
				ai.POST("/identify", api.IdentifyPlant)
				ai.POST("/diagnose", api.DiagnosePlant)
			}
		}
	}

	return r
}
