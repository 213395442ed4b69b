package db

import "gorm.io/gorm"

// 活动类型枚举，写入后不再变更
const (
	ActivityPlantAdded = "plant_added"
	ActivityWatered    = "watered"
	ActivityDiagnosis  = "diagnosis"
)

// Activity 是面向用户的只追加事件流
// 正常业务路径只会创建记录，不做更新或删除
type Activity struct {
	gorm.Model
	UserID      uint  `gorm:"index;not null"`
	User        User  `gorm:"constraint:OnDelete:CASCADE"`
	PlantID     *uint `gorm:"index"`
	DiagnosisID *uint
	Kind        string `gorm:"not null"`
	Title       string
}
