package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plantlog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrSpeciesNotFound 在指定物种不存在时返回
	ErrSpeciesNotFound = errors.New("plant species not found")
	// ErrSpeciesConflict 在常用名已存在时返回
	ErrSpeciesConflict = errors.New("species common name already exists")
	// ErrSpeciesInUse 在物种仍被植物引用、禁止删除时返回
	ErrSpeciesInUse = errors.New("species is referenced by existing plants")
	// ErrSpeciesInvalidInput 在物种数据不完整时返回
	ErrSpeciesInvalidInput = errors.New("invalid species input")
)

// SpeciesService 维护共享的物种参考数据
// Create 与 AutoCreate 的唯一性约束不同：手工创建要求常用名唯一，
// AI 识别路径允许写入措辞/大小写略有差异的重复常用名，避免阻断识别流程
type SpeciesService struct {
	db *gorm.DB
}

// NewSpeciesService 构造 SpeciesService
func NewSpeciesService(gdb *gorm.DB) *SpeciesService {
	return &SpeciesService{db: gdb}
}

// SpeciesInput 定义创建物种时可设置的字段
type SpeciesInput struct {
	CommonName            string
	ScientificName        *string
	WateringFrequencyDays *int
	SunlightHoursNeeded   *float64
	SunlightType          string
	HumidityPreference    string
	TemperatureMin        *float64
	CareDifficulty        string
}

// SpeciesUpdateInput 定义更新物种时可选择性传入的字段
type SpeciesUpdateInput struct {
	CommonName            *string
	ScientificName        *string
	WateringFrequencyDays *int
	SunlightHoursNeeded   *float64
	SunlightType          *string
	HumidityPreference    *string
	TemperatureMin        *float64
	CareDifficulty        *string
}

// Create 新建物种，常用名重复（精确匹配，区分大小写）时拒绝
func (s *SpeciesService) Create(input SpeciesInput) (*db.PlantSpecies, error) {
	commonName := strings.TrimSpace(input.CommonName)
	if commonName == "" {
		return nil, fmt.Errorf("%w: common name is required", ErrSpeciesInvalidInput)
	}

	if _, err := s.GetByCommonName(commonName); err == nil {
		return nil, ErrSpeciesConflict
	} else if !errors.Is(err, ErrSpeciesNotFound) {
		return nil, err
	}

	return s.insert(commonName, input)
}

// AutoCreate 由 AI 识别流程调用，不做常用名唯一性检查
func (s *SpeciesService) AutoCreate(input SpeciesInput) (*db.PlantSpecies, error) {
	commonName := strings.TrimSpace(input.CommonName)
	if commonName == "" {
		return nil, fmt.Errorf("%w: common name is required", ErrSpeciesInvalidInput)
	}

	return s.insert(commonName, input)
}

func (s *SpeciesService) insert(commonName string, input SpeciesInput) (*db.PlantSpecies, error) {
	species := db.PlantSpecies{
		CommonName:            commonName,
		WateringFrequencyDays: input.WateringFrequencyDays,
		SunlightHoursNeeded:   input.SunlightHoursNeeded,
		SunlightType:          strings.TrimSpace(input.SunlightType),
		HumidityPreference:    strings.TrimSpace(input.HumidityPreference),
		TemperatureMin:        input.TemperatureMin,
		CareDifficulty:        strings.TrimSpace(input.CareDifficulty),
	}
	if input.ScientificName != nil {
		trimmed := strings.TrimSpace(*input.ScientificName)
		if trimmed != "" {
			species.ScientificName = &trimmed
		}
	}

	if err := s.db.Create(&species).Error; err != nil {
		return nil, fmt.Errorf("create species: %w", err)
	}
	return &species, nil
}

// Get 根据主键获取物种
func (s *SpeciesService) Get(id uint) (*db.PlantSpecies, error) {
	var species db.PlantSpecies
	if err := s.db.First(&species, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpeciesNotFound
		}
		return nil, fmt.Errorf("get species: %w", err)
	}
	return &species, nil
}

// GetByScientificName 按学名精确查找，供 AI 识别流程优先使用
func (s *SpeciesService) GetByScientificName(name string) (*db.PlantSpecies, error) {
	var species db.PlantSpecies
	if err := s.db.Where("scientific_name = ?", strings.TrimSpace(name)).First(&species).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpeciesNotFound
		}
		return nil, fmt.Errorf("get species by scientific name: %w", err)
	}
	return &species, nil
}

// GetByCommonName 按常用名精确查找
func (s *SpeciesService) GetByCommonName(name string) (*db.PlantSpecies, error) {
	var species db.PlantSpecies
	if err := s.db.Where("common_name = ?", strings.TrimSpace(name)).First(&species).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSpeciesNotFound
		}
		return nil, fmt.Errorf("get species by common name: %w", err)
	}
	return &species, nil
}

// List 按常用名字母序分页返回物种
func (s *SpeciesService) List(skip, limit int) ([]db.PlantSpecies, error) {
	var species []db.PlantSpecies
	if err := s.db.Order("common_name ASC").Offset(skip).Limit(normalizeLimit(limit)).Find(&species).Error; err != nil {
		return nil, fmt.Errorf("list species: %w", err)
	}
	return species, nil
}

// Update 局部更新物种；常用名变更时重新校验唯一性
func (s *SpeciesService) Update(id uint, input SpeciesUpdateInput) (*db.PlantSpecies, error) {
	species, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if input.CommonName != nil {
		commonName := strings.TrimSpace(*input.CommonName)
		if commonName == "" {
			return nil, fmt.Errorf("%w: common name must not be empty", ErrSpeciesInvalidInput)
		}
		if commonName != species.CommonName {
			if _, err := s.GetByCommonName(commonName); err == nil {
				return nil, ErrSpeciesConflict
			} else if !errors.Is(err, ErrSpeciesNotFound) {
				return nil, err
			}
			species.CommonName = commonName
		}
	}

	if input.ScientificName != nil {
		trimmed := strings.TrimSpace(*input.ScientificName)
		if trimmed == "" {
			species.ScientificName = nil
		} else {
			species.ScientificName = &trimmed
		}
	}
	if input.WateringFrequencyDays != nil {
		species.WateringFrequencyDays = input.WateringFrequencyDays
	}
	if input.SunlightHoursNeeded != nil {
		species.SunlightHoursNeeded = input.SunlightHoursNeeded
	}
	if input.SunlightType != nil {
		species.SunlightType = strings.TrimSpace(*input.SunlightType)
	}
	if input.HumidityPreference != nil {
		species.HumidityPreference = strings.TrimSpace(*input.HumidityPreference)
	}
	if input.TemperatureMin != nil {
		species.TemperatureMin = input.TemperatureMin
	}
	if input.CareDifficulty != nil {
		species.CareDifficulty = strings.TrimSpace(*input.CareDifficulty)
	}

	if err := s.db.Save(species).Error; err != nil {
		return nil, fmt.Errorf("update species: %w", err)
	}
	return species, nil
}

// Delete 删除物种；仍被任何植物引用时返回 ErrSpeciesInUse
func (s *SpeciesService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	var count int64
	if err := s.db.Model(&db.Plant{}).Where("species_id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("count species references: %w", err)
	}
	if count > 0 {
		return ErrSpeciesInUse
	}

	if err := s.db.Delete(&db.PlantSpecies{}, id).Error; err != nil {
		return fmt.Errorf("delete species: %w", err)
	}
	return nil
}
