package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/plantlog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrProfileNotFound 在指定用户没有资料时返回
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileExists 在重复创建资料时返回
	ErrProfileExists = errors.New("profile already exists for this user")
)

// ProfileService 维护用户补充资料与派生指标
// PlantCount 是冗余计数：每次读取/更新都会对照植物表校正，读取时发现偏差会顺带写回
// CareRate 是临时计算值，从不落库
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService 构造 ProfileService
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb}
}

// ProfileInput 定义创建/更新资料时可选择性传入的字段
type ProfileInput struct {
	FullName        *string
	Tagline         *string
	Age             *int
	LivingSituation *string
	ExperienceLevel *string
	ExperienceSince *time.Time
	City            *string
	Country         *string
}

// ProfileView 将资料记录与派生指标打包返回，避免把临时字段塞进持久化实体
type ProfileView struct {
	Profile  db.Profile
	CareRate int
}

// GetByUserID 返回用户资料；PlantCount 偏差会被校正并写回，CareRate 现算现用
func (s *ProfileService) GetByUserID(userID uint) (*ProfileView, error) {
	var profile db.Profile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	liveCount, err := s.countPlants(userID)
	if err != nil {
		return nil, err
	}
	if profile.PlantCount != liveCount {
		if err := s.db.Model(&db.Profile{}).Where("id = ?", profile.ID).
			Update("plant_count", liveCount).Error; err != nil {
			return nil, fmt.Errorf("reconcile plant count: %w", err)
		}
		profile.PlantCount = liveCount
	}

	careRate, err := s.careRate(userID)
	if err != nil {
		return nil, err
	}

	return &ProfileView{Profile: profile, CareRate: careRate}, nil
}

// Create 为用户创建资料；用户不存在或资料已存在时失败
func (s *ProfileService) Create(userID uint, input ProfileInput) (*ProfileView, error) {
	var user db.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	var count int64
	if err := s.db.Model(&db.Profile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check profile: %w", err)
	}
	if count > 0 {
		return nil, ErrProfileExists
	}

	liveCount, err := s.countPlants(userID)
	if err != nil {
		return nil, err
	}

	profile := db.Profile{UserID: userID, PlantCount: liveCount}
	applyProfileInput(&profile, input)

	if err := s.db.Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	return s.GetByUserID(userID)
}

// Update 局部更新资料；每次调用都会重算 PlantCount，即便调用方没有改动它
func (s *ProfileService) Update(actor Actor, userID uint, input ProfileInput) (*ProfileView, error) {
	if !actor.CanAccess(userID) {
		return nil, ErrForbidden
	}

	var profile db.Profile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	liveCount, err := s.countPlants(userID)
	if err != nil {
		return nil, err
	}

	applyProfileInput(&profile, input)
	profile.PlantCount = liveCount

	if err := s.db.Save(&profile).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return s.GetByUserID(userID)
}

// careRate 计算养护率：从未浇过水的植物不计入分子也不计入分母；
// 只有物种定义了浇水间隔、且自上次浇水起的整天数严格小于间隔才算按时；
// 没有可计数的植物时定义为 100
func (s *ProfileService) careRate(userID uint) (int, error) {
	var plants []db.Plant
	if err := s.db.Preload("Species").Where("user_id = ?", userID).Find(&plants).Error; err != nil {
		return 0, fmt.Errorf("list plants for care rate: %w", err)
	}

	now := time.Now().UTC()
	eligible := 0
	onTime := 0

	for _, plant := range plants {
		if plant.LastWatered == nil {
			continue
		}
		eligible++

		daysSince := int(now.Sub(plant.LastWatered.UTC()).Hours() / 24)
		interval := plant.Species.WateringFrequencyDays
		if interval != nil && daysSince < *interval {
			onTime++
		}
	}

	if eligible == 0 {
		return 100, nil
	}
	return onTime * 100 / eligible, nil
}

func (s *ProfileService) countPlants(userID uint) (int, error) {
	var count int64
	if err := s.db.Model(&db.Plant{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count plants: %w", err)
	}
	return int(count), nil
}

func applyProfileInput(profile *db.Profile, input ProfileInput) {
	if input.FullName != nil {
		profile.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Tagline != nil {
		profile.Tagline = strings.TrimSpace(*input.Tagline)
	}
	if input.Age != nil {
		profile.Age = input.Age
	}
	if input.LivingSituation != nil {
		profile.LivingSituation = strings.TrimSpace(*input.LivingSituation)
	}
	if input.ExperienceLevel != nil {
		profile.ExperienceLevel = strings.TrimSpace(*input.ExperienceLevel)
	}
	if input.ExperienceSince != nil {
		profile.ExperienceSince = input.ExperienceSince
	}
	if input.City != nil {
		profile.City = strings.TrimSpace(*input.City)
	}
	if input.Country != nil {
		profile.Country = strings.TrimSpace(*input.Country)
	}
}
