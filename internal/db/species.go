package db

import "gorm.io/gorm"

// PlantSpecies 是共享的物种参考数据，由手工录入或 AI 识别流程自动创建
// CommonName 的唯一性只在手工创建路径上校验，识别路径允许重复，
// 因此这里不加数据库级唯一约束；ScientificName 允许为空但非空时唯一
// 养护参数均为可选，缺失时相关派生计算（如按时浇水判定）会跳过该物种
type PlantSpecies struct {
	gorm.Model
	CommonName            string  `gorm:"index;not null"`
	ScientificName        *string `gorm:"unique"`
	WateringFrequencyDays *int
	SunlightHoursNeeded   *float64
	SunlightType          string
	HumidityPreference    string
	TemperatureMin        *float64
	CareDifficulty        string
}
