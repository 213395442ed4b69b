package db

import (
	"time"

	"gorm.io/gorm"
)

// Profile 是与用户一对一的补充资料
// PlantCount 为冗余计数，读取与更新时会对照植物表校正
type Profile struct {
	gorm.Model
	UserID          uint `gorm:"uniqueIndex;not null"`
	User            User `gorm:"constraint:OnDelete:CASCADE"`
	FullName        string
	Tagline         string
	Age             *int
	LivingSituation string
	ExperienceLevel string
	ExperienceSince *time.Time
	City            string
	Country         string
	PlantCount      int `gorm:"default:0"`
}
