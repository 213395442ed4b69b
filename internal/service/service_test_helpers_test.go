package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/plantlog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB 打开独立命名的内存库并完成迁移
func openTestDB(t *testing.T, name string) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func createTestUser(t *testing.T, gdb *gorm.DB, username string, superuser bool) db.User {
	t.Helper()

	user := db.User{
		Email:       username + "@example.com",
		Username:    username,
		Password:    "not-a-real-hash",
		IsActive:    true,
		IsSuperuser: superuser,
	}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestSpecies(t *testing.T, gdb *gorm.DB, commonName string, wateringDays *int) db.PlantSpecies {
	t.Helper()

	species := db.PlantSpecies{
		CommonName:            commonName,
		WateringFrequencyDays: wateringDays,
	}
	if err := gdb.Create(&species).Error; err != nil {
		t.Fatalf("failed to create test species: %v", err)
	}
	return species
}

func createTestPlant(t *testing.T, gdb *gorm.DB, userID, speciesID uint, name string, lastWatered *time.Time) db.Plant {
	t.Helper()

	plant := db.Plant{
		UserID:      userID,
		SpeciesID:   speciesID,
		PlantName:   name,
		LastWatered: lastWatered,
	}
	if err := gdb.Create(&plant).Error; err != nil {
		t.Fatalf("failed to create test plant: %v", err)
	}
	return plant
}

func actorFor(user db.User) Actor {
	return Actor{ID: user.ID, Superuser: user.IsSuperuser}
}

func intRef(i int) *int { return &i }

func timeRef(tm time.Time) *time.Time { return &tm }
