package service

import (
	"errors"
	"testing"

	"github.com/plantlog/internal/db"
)

func TestSpeciesServiceCreateAndConflict(t *testing.T) {
	gdb, cleanup := openTestDB(t, "species-create")
	defer cleanup()

	svc := NewSpeciesService(gdb)

	sci := "Epipremnum aureum"
	species, err := svc.Create(SpeciesInput{
		CommonName:            "Golden Pothos",
		ScientificName:        &sci,
		WateringFrequencyDays: intRef(7),
		SunlightType:          "bright indirect",
		CareDifficulty:        "easy",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if species.ID == 0 {
		t.Fatal("expected species to have ID")
	}

	// 常用名精确重复被拒绝
	if _, err := svc.Create(SpeciesInput{CommonName: "Golden Pothos"}); !errors.Is(err, ErrSpeciesConflict) {
		t.Fatalf("expected ErrSpeciesConflict, got %v", err)
	}

	// 大小写不同不算重复
	if _, err := svc.Create(SpeciesInput{CommonName: "golden pothos"}); err != nil {
		t.Fatalf("expected case-different name to be allowed, got %v", err)
	}

	if _, err := svc.Create(SpeciesInput{CommonName: "   "}); !errors.Is(err, ErrSpeciesInvalidInput) {
		t.Fatalf("expected ErrSpeciesInvalidInput, got %v", err)
	}
}

func TestSpeciesServiceAutoCreateSkipsUniqueness(t *testing.T) {
	gdb, cleanup := openTestDB(t, "species-autocreate")
	defer cleanup()

	svc := NewSpeciesService(gdb)

	if _, err := svc.Create(SpeciesInput{CommonName: "Snake Plant"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// 识别路径允许重复常用名
	duplicate, err := svc.AutoCreate(SpeciesInput{CommonName: "Snake Plant"})
	if err != nil {
		t.Fatalf("AutoCreate returned error: %v", err)
	}
	if duplicate.ID == 0 {
		t.Fatal("expected auto-created species to have ID")
	}

	species, err := svc.List(0, 100)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(species) != 2 {
		t.Fatalf("expected 2 species, got %d", len(species))
	}
}

func TestSpeciesServiceLookupByName(t *testing.T) {
	gdb, cleanup := openTestDB(t, "species-lookup")
	defer cleanup()

	svc := NewSpeciesService(gdb)

	sci := "Monstera deliciosa"
	created, err := svc.Create(SpeciesInput{CommonName: "Monstera", ScientificName: &sci})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	byScientific, err := svc.GetByScientificName("Monstera deliciosa")
	if err != nil {
		t.Fatalf("GetByScientificName returned error: %v", err)
	}
	if byScientific.ID != created.ID {
		t.Fatalf("expected species %d, got %d", created.ID, byScientific.ID)
	}

	byCommon, err := svc.GetByCommonName("Monstera")
	if err != nil {
		t.Fatalf("GetByCommonName returned error: %v", err)
	}
	if byCommon.ID != created.ID {
		t.Fatalf("expected species %d, got %d", created.ID, byCommon.ID)
	}

	if _, err := svc.GetByCommonName("Unknown"); !errors.Is(err, ErrSpeciesNotFound) {
		t.Fatalf("expected ErrSpeciesNotFound, got %v", err)
	}
}

func TestSpeciesServiceUpdateRenameConflict(t *testing.T) {
	gdb, cleanup := openTestDB(t, "species-rename")
	defer cleanup()

	svc := NewSpeciesService(gdb)

	first, err := svc.Create(SpeciesInput{CommonName: "Peace Lily"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.Create(SpeciesInput{CommonName: "Spider Plant"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	taken := "Spider Plant"
	if _, err := svc.Update(first.ID, SpeciesUpdateInput{CommonName: &taken}); !errors.Is(err, ErrSpeciesConflict) {
		t.Fatalf("expected ErrSpeciesConflict, got %v", err)
	}

	// 改回自己的名字不算冲突
	same := "Peace Lily"
	if _, err := svc.Update(first.ID, SpeciesUpdateInput{CommonName: &same}); err != nil {
		t.Fatalf("expected self-rename to succeed, got %v", err)
	}
}

func TestSpeciesServiceDeleteInUse(t *testing.T) {
	gdb, cleanup := openTestDB(t, "species-delete")
	defer cleanup()

	svc := NewSpeciesService(gdb)
	owner := createTestUser(t, gdb, "grower", false)

	species, err := svc.Create(SpeciesInput{CommonName: "Fiddle Leaf Fig"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	createTestPlant(t, gdb, owner.ID, species.ID, "Fiddles", nil)

	if err := svc.Delete(species.ID); !errors.Is(err, ErrSpeciesInUse) {
		t.Fatalf("expected ErrSpeciesInUse, got %v", err)
	}

	// 移除引用后可以删除
	if err := gdb.Where("species_id = ?", species.ID).Delete(&db.Plant{}).Error; err != nil {
		t.Fatalf("failed to delete plants: %v", err)
	}
	if err := svc.Delete(species.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.Get(species.ID); !errors.Is(err, ErrSpeciesNotFound) {
		t.Fatalf("expected ErrSpeciesNotFound after delete, got %v", err)
	}
}
