package service

import (
	"errors"
	"testing"
	"time"

	"github.com/plantlog/internal/db"
)

func TestProfileServiceCreateAndDuplicate(t *testing.T) {
	gdb, cleanup := openTestDB(t, "profile-create")
	defer cleanup()

	svc := NewProfileService(gdb)
	owner := createTestUser(t, gdb, "profiled", false)

	tagline := "Jungle in progress"
	view, err := svc.Create(owner.ID, ProfileInput{Tagline: &tagline})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if view.Profile.Tagline != "Jungle in progress" {
		t.Fatalf("unexpected tagline: %s", view.Profile.Tagline)
	}

	if _, err := svc.Create(owner.ID, ProfileInput{}); !errors.Is(err, ErrProfileExists) {
		t.Fatalf("expected ErrProfileExists, got %v", err)
	}
	if _, err := svc.Create(999, ProfileInput{}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProfileServiceCareRateNoPlants(t *testing.T) {
	gdb, cleanup := openTestDB(t, "profile-carerate-empty")
	defer cleanup()

	svc := NewProfileService(gdb)
	owner := createTestUser(t, gdb, "empty", false)

	view, err := svc.Create(owner.ID, ProfileInput{})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	// 没有可计数的植物时定义为 100
	if view.CareRate != 100 {
		t.Fatalf("expected care rate 100 with no plants, got %d", view.CareRate)
	}
}

func TestProfileServiceCareRateExcludesNeverWatered(t *testing.T) {
	gdb, cleanup := openTestDB(t, "profile-carerate-never")
	defer cleanup()

	svc := NewProfileService(gdb)
	owner := createTestUser(t, gdb, "forgetful", false)
	species := createTestSpecies(t, gdb, "Pothos", intRef(7))

	// 两株从未浇过水的植物不进分母
	createTestPlant(t, gdb, owner.ID, species.ID, "Dry One", nil)
	createTestPlant(t, gdb, owner.ID, species.ID, "Dry Two", nil)

	view, err := svc.Create(owner.ID, ProfileInput{})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if view.CareRate != 100 {
		t.Fatalf("expected care rate 100 when all plants are never watered, got %d", view.CareRate)
	}
}

func TestProfileServiceCareRateMix(t *testing.T) {
	gdb, cleanup := openTestDB(t, "profile-carerate-mix")
	defer cleanup()

	svc := NewProfileService(gdb)
	owner := createTestUser(t, gdb, "mixed", false)
	weekly := createTestSpecies(t, gdb, "Weekly", intRef(7))
	noInterval := createTestSpecies(t, gdb, "Unscheduled", nil)

	now := time.Now().UTC()

	// 2 天前浇过，间隔 7 天 → 按时
	createTestPlant(t, gdb, owner.ID, weekly.ID, "Fresh", timeRef(now.Add(-2*24*time.Hour)))
	// 10 天前浇过，间隔 7 天 → 逾期
	createTestPlant(t, gdb, owner.ID, weekly.ID, "Overdue", timeRef(now.Add(-10*24*time.Hour)))
	// 浇过水但物种没有间隔 → 进分母，不进分子
	createTestPlant(t, gdb, owner.ID, noInterval.ID, "Freeform", timeRef(now.Add(-1*24*time.Hour)))
	// 从未浇过水 → 不计入
	createTestPlant(t, gdb, owner.ID, weekly.ID, "Ignored", nil)

	view, err := svc.Create(owner.ID, ProfileInput{})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// 1 / 3，向下取整
	if view.CareRate != 33 {
		t.Fatalf("expected care rate 33, got %d", view.CareRate)
	}
}

func TestProfileServiceCareRateBoundaryDay(t *testing.T) {
	gdb, cleanup := openTestDB(t, "profile-carerate-boundary")
	defer cleanup()

	svc := NewProfileService(gdb)
	owner := createTestUser(t, gdb, "boundary", false)
	weekly := createTestSpecies(t, gdb, "Weekly", intRef(7))

	// 恰好满 7 个整天：daysSince == interval，严格小于判定 → 不按时
	now := time.Now().UTC()
	createTestPlant(t, gdb, owner.ID, weekly.ID, "Edge", timeRef(now.Add(-7*24*time.Hour-time.Minute)))

	view, err := svc.Create(owner.ID, ProfileInput{})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if view.CareRate != 0 {
		t.Fatalf("expected care rate 0 at the interval boundary, got %d", view.CareRate)
	}
}

func TestProfileServicePlantCountReconciliation(t *testing.T) {
	gdb, cleanup := openTestDB(t, "profile-reconcile")
	defer cleanup()

	svc := NewProfileService(gdb)
	owner := createTestUser(t, gdb, "counter", false)
	species := createTestSpecies(t, gdb, "Pothos", intRef(7))

	if _, err := svc.Create(owner.ID, ProfileInput{}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// 绕过服务直接加两株植物，让冗余计数过期
	createTestPlant(t, gdb, owner.ID, species.ID, "One", nil)
	createTestPlant(t, gdb, owner.ID, species.ID, "Two", nil)

	view, err := svc.GetByUserID(owner.ID)
	if err != nil {
		t.Fatalf("GetByUserID returned error: %v", err)
	}
	if view.Profile.PlantCount != 2 {
		t.Fatalf("expected reconciled plant count 2, got %d", view.Profile.PlantCount)
	}

	// 校正结果已写回，再次读取保持稳定
	var stored db.Profile
	if err := gdb.Where("user_id = ?", owner.ID).First(&stored).Error; err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	if stored.PlantCount != 2 {
		t.Fatalf("expected persisted plant count 2, got %d", stored.PlantCount)
	}

	again, err := svc.GetByUserID(owner.ID)
	if err != nil {
		t.Fatalf("GetByUserID returned error: %v", err)
	}
	if again.Profile.PlantCount != 2 {
		t.Fatalf("expected stable plant count 2, got %d", again.Profile.PlantCount)
	}
}

func TestProfileServiceUpdateOwnership(t *testing.T) {
	gdb, cleanup := openTestDB(t, "profile-update")
	defer cleanup()

	svc := NewProfileService(gdb)
	owner := createTestUser(t, gdb, "owner", false)
	other := createTestUser(t, gdb, "other", false)

	if _, err := svc.Create(owner.ID, ProfileInput{}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	city := "Lisbon"
	if _, err := svc.Update(actorFor(other), owner.ID, ProfileInput{City: &city}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	view, err := svc.Update(actorFor(owner), owner.ID, ProfileInput{City: &city})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if view.Profile.City != "Lisbon" {
		t.Fatalf("unexpected city: %s", view.Profile.City)
	}
}
