package db

import "gorm.io/gorm"

// Diagnosis 记录一次 AI 健康诊断结果
// PlantID 可为空：独立诊断不挂接任何已登记的植物，仅通过 UserID 归属
// ConfidenceScore 在落库前必须被钳制到 [0.0, 1.0]
type Diagnosis struct {
	gorm.Model
	PlantID *uint  `gorm:"index"`
	Plant   *Plant `gorm:"constraint:OnDelete:CASCADE"`
	UserID  uint   `gorm:"index;not null"`
	User    User   `gorm:"constraint:OnDelete:CASCADE"`

	IssueDetected   string  `gorm:"not null"`
	ConfidenceScore float64 `gorm:"not null"`
	Severity        string  `gorm:"not null"`
	Recommendation  string
	ImageURL        string

	// 恢复养护建议，由 AI 返回，允许为空
	RecoveryWatering       string
	RecoverySunlight       string
	RecoveryAirCirculation string
	RecoveryTemperature    string
}
