package service

import (
	"errors"
	"testing"
	"time"

	"github.com/plantlog/internal/db"
)

func TestPlantServiceCreateRecordsActivity(t *testing.T) {
	gdb, cleanup := openTestDB(t, "plant-create")
	defer cleanup()

	svc := NewPlantService(gdb)
	owner := createTestUser(t, gdb, "grower", false)
	species := createTestSpecies(t, gdb, "Golden Pothos", intRef(7))

	plant, err := svc.Create(actorFor(owner), PlantInput{
		SpeciesID: species.ID,
		PlantName: "Goldie",
		Location:  "living room",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if plant.Species.ID != species.ID {
		t.Fatal("expected species to be preloaded")
	}

	var activities []db.Activity
	if err := gdb.Where("user_id = ?", owner.ID).Find(&activities).Error; err != nil {
		t.Fatalf("failed to list activities: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("expected 1 activity, got %d", len(activities))
	}
	if activities[0].Kind != db.ActivityPlantAdded {
		t.Fatalf("unexpected activity kind: %s", activities[0].Kind)
	}
	if activities[0].Title != "Added new plant to collection" {
		t.Fatalf("unexpected activity title: %s", activities[0].Title)
	}

	// 未知物种
	if _, err := svc.Create(actorFor(owner), PlantInput{SpeciesID: 999, PlantName: "Ghost"}); !errors.Is(err, ErrSpeciesNotFound) {
		t.Fatalf("expected ErrSpeciesNotFound, got %v", err)
	}
	// 缺名字
	if _, err := svc.Create(actorFor(owner), PlantInput{SpeciesID: species.ID, PlantName: "  "}); !errors.Is(err, ErrPlantInvalidInput) {
		t.Fatalf("expected ErrPlantInvalidInput, got %v", err)
	}
}

func TestPlantServiceOwnership(t *testing.T) {
	gdb, cleanup := openTestDB(t, "plant-ownership")
	defer cleanup()

	svc := NewPlantService(gdb)
	owner := createTestUser(t, gdb, "owner", false)
	other := createTestUser(t, gdb, "other", false)
	admin := createTestUser(t, gdb, "admin", true)
	species := createTestSpecies(t, gdb, "Snake Plant", intRef(14))
	plant := createTestPlant(t, gdb, owner.ID, species.ID, "Sword", nil)

	// 存在但属于他人 → 403 而不是 404
	if _, err := svc.Get(actorFor(other), plant.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// 超级管理员可以越过所有权
	if _, err := svc.Get(actorFor(admin), plant.ID); err != nil {
		t.Fatalf("expected superuser access, got %v", err)
	}
	// 不存在 → 404
	if _, err := svc.Get(actorFor(owner), 999); !errors.Is(err, ErrPlantNotFound) {
		t.Fatalf("expected ErrPlantNotFound, got %v", err)
	}
}

func TestPlantServiceWater(t *testing.T) {
	gdb, cleanup := openTestDB(t, "plant-water")
	defer cleanup()

	svc := NewPlantService(gdb)
	owner := createTestUser(t, gdb, "waterer", false)
	species := createTestSpecies(t, gdb, "Monstera", intRef(10))
	plant := createTestPlant(t, gdb, owner.ID, species.ID, "Monty", nil)

	before := time.Now().UTC()
	watered, err := svc.Water(actorFor(owner), plant.ID)
	if err != nil {
		t.Fatalf("Water returned error: %v", err)
	}

	if watered.LastWatered == nil {
		t.Fatal("expected last_watered to be set")
	}
	diff := watered.LastWatered.Sub(before)
	if diff < 0 {
		diff = -diff
	}
	if diff > time.Second {
		t.Fatalf("expected last_watered within 1s of now, diff=%v", diff)
	}

	var activity db.Activity
	if err := gdb.Where("kind = ?", db.ActivityWatered).First(&activity).Error; err != nil {
		t.Fatalf("expected watered activity: %v", err)
	}
	if activity.Title != "Watered Monty" {
		t.Fatalf("unexpected activity title: %s", activity.Title)
	}
	if activity.PlantID == nil || *activity.PlantID != plant.ID {
		t.Fatal("expected activity to reference the plant")
	}
}

func TestPlantServiceDeleteKeepsActivities(t *testing.T) {
	gdb, cleanup := openTestDB(t, "plant-delete")
	defer cleanup()

	svc := NewPlantService(gdb)
	owner := createTestUser(t, gdb, "pruner", false)
	species := createTestSpecies(t, gdb, "Peace Lily", intRef(5))

	plant, err := svc.Create(actorFor(owner), PlantInput{SpeciesID: species.ID, PlantName: "Lily"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := gdb.Create(&db.Diagnosis{UserID: owner.ID, PlantID: &plant.ID, IssueDetected: "Leaf Spot", Severity: "Low Severity"}).Error; err != nil {
		t.Fatalf("failed to seed diagnosis: %v", err)
	}

	if err := svc.Delete(actorFor(owner), plant.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, err := svc.Get(actorFor(owner), plant.ID); !errors.Is(err, ErrPlantNotFound) {
		t.Fatalf("expected ErrPlantNotFound after delete, got %v", err)
	}

	var diagCount int64
	if err := gdb.Model(&db.Diagnosis{}).Where("plant_id = ?", plant.ID).Count(&diagCount).Error; err != nil {
		t.Fatalf("failed to count diagnoses: %v", err)
	}
	if diagCount != 0 {
		t.Fatalf("expected plant diagnoses removed, got %d", diagCount)
	}

	// 活动流保留作为历史
	var activityCount int64
	if err := gdb.Model(&db.Activity{}).Where("user_id = ?", owner.ID).Count(&activityCount).Error; err != nil {
		t.Fatalf("failed to count activities: %v", err)
	}
	if activityCount == 0 {
		t.Fatal("expected activity history to survive plant deletion")
	}
}

func TestPlantServiceUpdate(t *testing.T) {
	gdb, cleanup := openTestDB(t, "plant-update")
	defer cleanup()

	svc := NewPlantService(gdb)
	owner := createTestUser(t, gdb, "updater", false)
	species := createTestSpecies(t, gdb, "Spider Plant", intRef(7))
	otherSpecies := createTestSpecies(t, gdb, "Pothos", intRef(7))
	plant := createTestPlant(t, gdb, owner.ID, species.ID, "Spidey", nil)

	name := "Charlotte"
	location := "kitchen window"
	updated, err := svc.Update(actorFor(owner), plant.ID, PlantUpdateInput{
		SpeciesID: &otherSpecies.ID,
		PlantName: &name,
		Location:  &location,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.PlantName != "Charlotte" || updated.Location != "kitchen window" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.SpeciesID != otherSpecies.ID {
		t.Fatalf("expected species %d, got %d", otherSpecies.ID, updated.SpeciesID)
	}
	if updated.Species.CommonName != "Pothos" {
		t.Fatalf("expected preloaded species Pothos, got %q", updated.Species.CommonName)
	}

	// 直接读库确认物种变更确实落库，而不是只改了返回值
	var stored db.Plant
	if err := gdb.First(&stored, plant.ID).Error; err != nil {
		t.Fatalf("reload plant: %v", err)
	}
	if stored.SpeciesID != otherSpecies.ID {
		t.Fatalf("expected persisted species %d, got %d", otherSpecies.ID, stored.SpeciesID)
	}

	badSpecies := uint(999)
	if _, err := svc.Update(actorFor(owner), plant.ID, PlantUpdateInput{SpeciesID: &badSpecies}); !errors.Is(err, ErrSpeciesNotFound) {
		t.Fatalf("expected ErrSpeciesNotFound, got %v", err)
	}
}
