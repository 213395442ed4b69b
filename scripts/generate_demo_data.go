package main

import (
	"fmt"
	"log"
	"time"

	"github.com/plantlog/internal/config"
	"github.com/plantlog/internal/db"
	"golang.org/x/crypto/bcrypt"
)

// 演示数据生成器
func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")

	// 创建演示用户
	createDemoUsers()

	// 创建物种参考数据
	createDemoSpecies()

	// 创建演示植物、活动与诊断
	createDemoPlants()

	// 创建演示资料
	createDemoProfiles()

	fmt.Println("演示数据生成完成！")
	fmt.Println("用户: demo (密码: demo123)")
	fmt.Println("物种: 6 种常见室内植物")
}

// 创建演示用户
func createDemoUsers() {
	// 检查是否已存在用户
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	demo := db.User{
		Email:    "demo@plantlog.local",
		Username: "demo",
		Password: string(hashedPassword),
		FullName: "Demo Gardener",
		IsActive: true,
	}
	db.DB.Create(&demo)

	hashedPassword2, _ := bcrypt.GenerateFromPassword([]byte("garden123"), bcrypt.DefaultCost)
	gardener := db.User{
		Email:    "gardener@plantlog.local",
		Username: "gardener",
		Password: string(hashedPassword2),
		FullName: "Casual Gardener",
		IsActive: true,
	}
	db.DB.Create(&gardener)

	fmt.Println("✅ 演示用户创建完成")
}

// 创建物种参考数据
func createDemoSpecies() {
	// 检查是否已存在物种
	var count int64
	db.DB.Model(&db.PlantSpecies{}).Count(&count)
	if count > 0 {
		fmt.Println("物种已存在，跳过创建")
		return
	}

	species := []db.PlantSpecies{
		{
			CommonName:            "Golden Pothos",
			ScientificName:        strPtr("Epipremnum aureum"),
			WateringFrequencyDays: intPtr(7),
			SunlightHoursNeeded:   floatPtr(6),
			SunlightType:          "low to bright indirect",
			HumidityPreference:    "medium",
			TemperatureMin:        floatPtr(15),
			CareDifficulty:        "easy",
		},
		{
			CommonName:            "Snake Plant",
			ScientificName:        strPtr("Dracaena trifasciata"),
			WateringFrequencyDays: intPtr(14),
			SunlightHoursNeeded:   floatPtr(5),
			SunlightType:          "low to medium indirect",
			HumidityPreference:    "low",
			TemperatureMin:        floatPtr(10),
			CareDifficulty:        "easy",
		},
		{
			CommonName:            "Monstera",
			ScientificName:        strPtr("Monstera deliciosa"),
			WateringFrequencyDays: intPtr(10),
			SunlightHoursNeeded:   floatPtr(6),
			SunlightType:          "bright indirect",
			HumidityPreference:    "high",
			TemperatureMin:        floatPtr(18),
			CareDifficulty:        "medium",
		},
		{
			CommonName:            "Peace Lily",
			ScientificName:        strPtr("Spathiphyllum wallisii"),
			WateringFrequencyDays: intPtr(5),
			SunlightHoursNeeded:   floatPtr(4),
			SunlightType:          "indirect",
			HumidityPreference:    "high",
			TemperatureMin:        floatPtr(16),
			CareDifficulty:        "medium",
		},
		{
			CommonName:            "Fiddle Leaf Fig",
			ScientificName:        strPtr("Ficus lyrata"),
			WateringFrequencyDays: intPtr(7),
			SunlightHoursNeeded:   floatPtr(8),
			SunlightType:          "bright indirect",
			HumidityPreference:    "medium",
			TemperatureMin:        floatPtr(18),
			CareDifficulty:        "hard",
		},
		{
			CommonName:            "Spider Plant",
			ScientificName:        strPtr("Chlorophytum comosum"),
			WateringFrequencyDays: intPtr(7),
			SunlightHoursNeeded:   floatPtr(6),
			SunlightType:          "bright indirect",
			HumidityPreference:    "medium",
			TemperatureMin:        floatPtr(12),
			CareDifficulty:        "easy",
		},
	}

	for i := range species {
		db.DB.Create(&species[i])
	}

	fmt.Println("✅ 物种参考数据创建完成")
}

// 创建演示植物、活动与诊断
func createDemoPlants() {
	// 清理旧数据及关联
	db.DB.Exec("DELETE FROM activities")
	db.DB.Exec("DELETE FROM diagnoses")
	db.DB.Exec("DELETE FROM plants")

	var demo db.User
	db.DB.Where("username = ?", "demo").First(&demo)

	var allSpecies []db.PlantSpecies
	db.DB.Order("id ASC").Find(&allSpecies)
	if len(allSpecies) == 0 {
		fmt.Println("没有可用物种，跳过植物创建")
		return
	}

	speciesByName := make(map[string]db.PlantSpecies)
	for _, item := range allSpecies {
		speciesByName[item.CommonName] = item
	}

	now := time.Now().UTC()
	plants := []struct {
		name        string
		species     string
		location    string
		wateredDays int // -1 表示从未浇过水
	}{
		{name: "Goldie", species: "Golden Pothos", location: "living room shelf", wateredDays: 2},
		{name: "Sword", species: "Snake Plant", location: "bedroom corner", wateredDays: 20},
		{name: "Monty", species: "Monstera", location: "by the window", wateredDays: 3},
		{name: "Lily", species: "Peace Lily", location: "bathroom", wateredDays: -1},
		{name: "Fiddles", species: "Fiddle Leaf Fig", location: "office desk", wateredDays: 9},
	}

	for _, data := range plants {
		species, ok := speciesByName[data.species]
		if !ok {
			species = allSpecies[0]
		}

		plant := db.Plant{
			UserID:    demo.ID,
			SpeciesID: species.ID,
			PlantName: data.name,
			Location:  data.location,
		}
		if data.wateredDays >= 0 {
			watered := now.Add(-time.Duration(data.wateredDays) * 24 * time.Hour)
			plant.LastWatered = &watered
		}

		if err := db.DB.Create(&plant).Error; err != nil {
			log.Printf("创建植物失败: %v", err)
			continue
		}

		added := db.Activity{
			UserID:  demo.ID,
			PlantID: &plant.ID,
			Kind:    db.ActivityPlantAdded,
			Title:   "Added new plant to collection",
		}
		if err := db.DB.Create(&added).Error; err != nil {
			log.Printf("创建活动失败: %v", err)
		}

		if plant.LastWatered != nil {
			watered := db.Activity{
				UserID:  demo.ID,
				PlantID: &plant.ID,
				Kind:    db.ActivityWatered,
				Title:   fmt.Sprintf("Watered %s", plant.PlantName),
			}
			if err := db.DB.Create(&watered).Error; err != nil {
				log.Printf("创建活动失败: %v", err)
			}
		}

		// 给其中一株补一条健康诊断
		if data.name == "Fiddles" {
			diagnosis := db.Diagnosis{
				PlantID:         &plant.ID,
				UserID:          demo.ID,
				IssueDetected:   "Leaf Spot Disease",
				ConfidenceScore: 0.82,
				Severity:        "Medium Severity",
				Recommendation: "Remove affected leaves and avoid wetting the foliage when watering. " +
					"Improve air circulation around the plant and keep it out of cold drafts.",
				RecoveryWatering:       "Water when top inch of soil is dry, roughly every 7 days",
				RecoverySunlight:       "Bright indirect light, 6-8 hours daily",
				RecoveryAirCirculation: "Keep away from walls, ensure steady airflow",
				RecoveryTemperature:    "Maintain between 18-24°C",
			}
			if err := db.DB.Create(&diagnosis).Error; err != nil {
				log.Printf("创建诊断失败: %v", err)
				continue
			}

			checked := db.Activity{
				UserID:      demo.ID,
				PlantID:     &plant.ID,
				DiagnosisID: &diagnosis.ID,
				Kind:        db.ActivityDiagnosis,
				Title:       "Completed a plant health check",
			}
			if err := db.DB.Create(&checked).Error; err != nil {
				log.Printf("创建活动失败: %v", err)
			}
		}
	}

	fmt.Println("✅ 演示植物创建完成")
}

// 创建演示资料
func createDemoProfiles() {
	var demo db.User
	db.DB.Where("username = ?", "demo").First(&demo)
	if demo.ID == 0 {
		fmt.Println("演示用户不存在，跳过资料创建")
		return
	}

	var count int64
	db.DB.Model(&db.Profile{}).Where("user_id = ?", demo.ID).Count(&count)
	if count > 0 {
		fmt.Println("资料已存在，跳过创建")
		return
	}

	var plantCount int64
	db.DB.Model(&db.Plant{}).Where("user_id = ?", demo.ID).Count(&plantCount)

	since := time.Now().UTC().Add(-2 * 365 * 24 * time.Hour)
	profile := db.Profile{
		UserID:          demo.ID,
		FullName:        "Demo Gardener",
		Tagline:         "Slowly turning the flat into a jungle",
		Age:             intPtr(29),
		LivingSituation: "apartment",
		ExperienceLevel: "intermediate",
		ExperienceSince: &since,
		City:            "Berlin",
		Country:         "Germany",
		PlantCount:      int(plantCount),
	}

	if err := db.DB.Create(&profile).Error; err != nil {
		log.Printf("创建资料失败: %v", err)
		return
	}

	fmt.Println("✅ 演示资料创建完成")
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }
