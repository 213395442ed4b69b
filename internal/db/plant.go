package db

import (
	"time"

	"gorm.io/gorm"
)

// Plant 表示某个用户名下的一株植物
// 删除用户时级联删除其植物；物种被植物引用期间禁止删除
// LastWatered 为空表示从未浇过水，参与养护率计算时会被排除
type Plant struct {
	gorm.Model
	UserID      uint         `gorm:"index;not null"`
	User        User         `gorm:"constraint:OnDelete:CASCADE"`
	SpeciesID   uint         `gorm:"index;not null"`
	Species     PlantSpecies `gorm:"constraint:OnDelete:RESTRICT"`
	PlantName   string       `gorm:"not null"`
	Location    string
	LastWatered *time.Time
	AcquiredAt  *time.Time
	ImageURL    string
}
