package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/plantlog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrPlantNotFound 在指定植物不存在时返回
	ErrPlantNotFound = errors.New("plant not found")
	// ErrPlantInvalidInput 在植物数据不完整时返回
	ErrPlantInvalidInput = errors.New("invalid plant input")
)

// PlantService 负责用户名下植物的增删改查与浇水动作
// Create 与 Water 会在同一事务内追加活动记录，保证两者要么同时落库要么同时回滚
type PlantService struct {
	db *gorm.DB
}

// NewPlantService 构造 PlantService
func NewPlantService(gdb *gorm.DB) *PlantService {
	return &PlantService{db: gdb}
}

// PlantInput 定义创建植物时可设置的字段
type PlantInput struct {
	SpeciesID   uint
	PlantName   string
	Location    string
	LastWatered *time.Time
	AcquiredAt  *time.Time
	ImageURL    string
}

// PlantUpdateInput 定义局部更新时可选择性传入的字段
type PlantUpdateInput struct {
	SpeciesID  *uint
	PlantName  *string
	Location   *string
	AcquiredAt *time.Time
	ImageURL   *string
}

// Create 为指定用户新建植物，同时追加 plant_added 活动
func (s *PlantService) Create(actor Actor, input PlantInput) (*db.Plant, error) {
	name := strings.TrimSpace(input.PlantName)
	if name == "" {
		return nil, fmt.Errorf("%w: plant name is required", ErrPlantInvalidInput)
	}

	var species db.PlantSpecies
	if err := s.db.First(&species, input.SpeciesID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpeciesNotFound
		}
		return nil, fmt.Errorf("find species: %w", err)
	}

	plant := db.Plant{
		UserID:      actor.ID,
		SpeciesID:   species.ID,
		PlantName:   name,
		Location:    strings.TrimSpace(input.Location),
		LastWatered: input.LastWatered,
		AcquiredAt:  input.AcquiredAt,
		ImageURL:    strings.TrimSpace(input.ImageURL),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&plant).Error; err != nil {
			return fmt.Errorf("create plant: %w", err)
		}

		activity := db.Activity{
			UserID:  actor.ID,
			PlantID: &plant.ID,
			Kind:    db.ActivityPlantAdded,
			Title:   "Added new plant to collection",
		}
		if err := tx.Create(&activity).Error; err != nil {
			return fmt.Errorf("record plant_added activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("created plant %q (id=%d) for user %d", plant.PlantName, plant.ID, actor.ID)
	return s.reload(plant.ID)
}

// Get 获取单株植物（总是带出物种）；存在但不属于主体时返回 ErrForbidden
func (s *PlantService) Get(actor Actor, id uint) (*db.Plant, error) {
	plant, err := s.reload(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(plant.UserID) {
		return nil, ErrForbidden
	}
	return plant, nil
}

// ListForUser 分页返回用户的植物，最近创建的在前
func (s *PlantService) ListForUser(userID uint, skip, limit int) ([]db.Plant, error) {
	var plants []db.Plant
	if err := s.db.Preload("Species").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(skip).Limit(normalizeLimit(limit)).
		Find(&plants).Error; err != nil {
		return nil, fmt.Errorf("list plants: %w", err)
	}
	return plants, nil
}

// CountForUser 返回用户当前的植物数量
func (s *PlantService) CountForUser(userID uint) (int, error) {
	var count int64
	if err := s.db.Model(&db.Plant{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count plants: %w", err)
	}
	return int(count), nil
}

// Update 局部更新植物；物种变更时校验目标物种存在
func (s *PlantService) Update(actor Actor, id uint, input PlantUpdateInput) (*db.Plant, error) {
	plant, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	if input.SpeciesID != nil && *input.SpeciesID != plant.SpeciesID {
		var species db.PlantSpecies
		if err := s.db.First(&species, *input.SpeciesID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrSpeciesNotFound
			}
			return nil, fmt.Errorf("find species: %w", err)
		}
		plant.SpeciesID = species.ID
	}

	if input.PlantName != nil {
		name := strings.TrimSpace(*input.PlantName)
		if name == "" {
			return nil, fmt.Errorf("%w: plant name must not be empty", ErrPlantInvalidInput)
		}
		plant.PlantName = name
	}
	if input.Location != nil {
		plant.Location = strings.TrimSpace(*input.Location)
	}
	if input.AcquiredAt != nil {
		plant.AcquiredAt = input.AcquiredAt
	}
	if input.ImageURL != nil {
		plant.ImageURL = strings.TrimSpace(*input.ImageURL)
	}

	// 预加载出来的 Species 关联仍指向旧物种，保存时必须排除，
	// 否则 gorm 会按关联把外键写回旧值
	if err := s.db.Omit("Species").Save(plant).Error; err != nil {
		return nil, fmt.Errorf("update plant: %w", err)
	}
	return s.reload(plant.ID)
}

// SetImageURL 在图片上传完成后写回公开访问地址
func (s *PlantService) SetImageURL(actor Actor, id uint, url string) (*db.Plant, error) {
	trimmed := strings.TrimSpace(url)
	return s.Update(actor, id, PlantUpdateInput{ImageURL: &trimmed})
}

// Delete 删除植物及其诊断记录；活动流保留作为历史
func (s *PlantService) Delete(actor Actor, id uint) error {
	plant, err := s.Get(actor, id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plant_id = ?", plant.ID).Delete(&db.Diagnosis{}).Error; err != nil {
			return fmt.Errorf("delete plant diagnoses: %w", err)
		}
		if err := tx.Delete(&db.Plant{}, plant.ID).Error; err != nil {
			return fmt.Errorf("delete plant: %w", err)
		}
		return nil
	})
}

// Water 将植物标记为刚浇过水，并在同一事务里追加 watered 活动
func (s *PlantService) Water(actor Actor, id uint) (*db.Plant, error) {
	plant, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Plant{}).Where("id = ?", plant.ID).
			Update("last_watered", now).Error; err != nil {
			return fmt.Errorf("water plant: %w", err)
		}

		activity := db.Activity{
			UserID:  plant.UserID,
			PlantID: &plant.ID,
			Kind:    db.ActivityWatered,
			Title:   fmt.Sprintf("Watered %s", plant.PlantName),
		}
		if err := tx.Create(&activity).Error; err != nil {
			return fmt.Errorf("record watered activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.reload(plant.ID)
}

func (s *PlantService) reload(id uint) (*db.Plant, error) {
	var plant db.Plant
	if err := s.db.Preload("Species").First(&plant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlantNotFound
		}
		return nil, fmt.Errorf("get plant: %w", err)
	}
	return &plant, nil
}
