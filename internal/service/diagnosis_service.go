package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/plantlog/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrDiagnosisNotFound 在指定诊断不存在时返回
	ErrDiagnosisNotFound = errors.New("diagnosis not found")
	// ErrDiagnosisInvalidInput 在诊断数据不完整时返回
	ErrDiagnosisInvalidInput = errors.New("invalid diagnosis input")
)

// DiagnosisService 负责诊断记录的增删改查
// PlantID 为空的"独立诊断"仅通过 UserID 归属；
// ListByUser 沿用经由植物所有权的联表查询，因此独立诊断不会出现在结果里
type DiagnosisService struct {
	db *gorm.DB
}

// NewDiagnosisService 构造 DiagnosisService
func NewDiagnosisService(gdb *gorm.DB) *DiagnosisService {
	return &DiagnosisService{db: gdb}
}

// DiagnosisInput 定义创建诊断时可设置的字段
// PlantID 为 nil 时创建独立诊断，跳过植物所有权校验
type DiagnosisInput struct {
	PlantID         *uint
	IssueDetected   string
	ConfidenceScore float64
	Severity        string
	Recommendation  string
	ImageURL        string

	RecoveryWatering       string
	RecoverySunlight       string
	RecoveryAirCirculation string
	RecoveryTemperature    string
}

// DiagnosisUpdateInput 定义局部更新时可选择性传入的字段
type DiagnosisUpdateInput struct {
	IssueDetected   *string
	ConfidenceScore *float64
	Severity        *string
	Recommendation  *string
	ImageURL        *string

	RecoveryWatering       *string
	RecoverySunlight       *string
	RecoveryAirCirculation *string
	RecoveryTemperature    *string
}

// clampConfidence 将置信度钳制到 [0.0, 1.0]，越界值不允许落库
func clampConfidence(score float64) float64 {
	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}

// Create 新建诊断并在同一事务里追加 diagnosis 活动
// 关联植物时要求该植物属于主体
func (s *DiagnosisService) Create(actor Actor, input DiagnosisInput) (*db.Diagnosis, error) {
	issue := strings.TrimSpace(input.IssueDetected)
	severity := strings.TrimSpace(input.Severity)
	if issue == "" || severity == "" {
		return nil, fmt.Errorf("%w: issue and severity are required", ErrDiagnosisInvalidInput)
	}

	if input.PlantID != nil {
		var plant db.Plant
		if err := s.db.First(&plant, *input.PlantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPlantNotFound
			}
			return nil, fmt.Errorf("find plant: %w", err)
		}
		if !actor.CanAccess(plant.UserID) {
			return nil, ErrForbidden
		}
	}

	diagnosis := db.Diagnosis{
		PlantID:         input.PlantID,
		UserID:          actor.ID,
		IssueDetected:   issue,
		ConfidenceScore: clampConfidence(input.ConfidenceScore),
		Severity:        severity,
		Recommendation:  input.Recommendation,
		ImageURL:        strings.TrimSpace(input.ImageURL),

		RecoveryWatering:       strings.TrimSpace(input.RecoveryWatering),
		RecoverySunlight:       strings.TrimSpace(input.RecoverySunlight),
		RecoveryAirCirculation: strings.TrimSpace(input.RecoveryAirCirculation),
		RecoveryTemperature:    strings.TrimSpace(input.RecoveryTemperature),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&diagnosis).Error; err != nil {
			return fmt.Errorf("create diagnosis: %w", err)
		}

		activity := db.Activity{
			UserID:      actor.ID,
			PlantID:     input.PlantID,
			DiagnosisID: &diagnosis.ID,
			Kind:        db.ActivityDiagnosis,
			Title:       "Completed a plant health check",
		}
		if err := tx.Create(&activity).Error; err != nil {
			return fmt.Errorf("record diagnosis activity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("created diagnosis %d (%s) for user %d", diagnosis.ID, diagnosis.IssueDetected, actor.ID)
	return &diagnosis, nil
}

// Get 获取单条诊断；归属校验走关联植物，独立诊断则直接比对 UserID。
// 存在但无权访问时刻意返回 ErrForbidden 而不是"不存在"。
func (s *DiagnosisService) Get(actor Actor, id uint) (*db.Diagnosis, error) {
	var diagnosis db.Diagnosis
	if err := s.db.First(&diagnosis, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiagnosisNotFound
		}
		return nil, fmt.Errorf("get diagnosis: %w", err)
	}

	ownerID, err := s.ownerOf(&diagnosis)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(ownerID) {
		return nil, ErrForbidden
	}

	return &diagnosis, nil
}

// ListByPlant 返回某株植物的诊断历史，最近的在前
func (s *DiagnosisService) ListByPlant(actor Actor, plantID uint, skip, limit int) ([]db.Diagnosis, error) {
	var plant db.Plant
	if err := s.db.First(&plant, plantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlantNotFound
		}
		return nil, fmt.Errorf("find plant: %w", err)
	}
	if !actor.CanAccess(plant.UserID) {
		return nil, ErrForbidden
	}

	var diagnoses []db.Diagnosis
	if err := s.db.Where("plant_id = ?", plantID).
		Order("created_at DESC").
		Offset(skip).Limit(normalizeLimit(limit)).
		Find(&diagnoses).Error; err != nil {
		return nil, fmt.Errorf("list diagnoses by plant: %w", err)
	}
	return diagnoses, nil
}

// ListByUser 通过植物所有权联表返回用户的诊断。
// 独立诊断（plant_id 为空）不在此查询路径内，这是沿用下来的已知空档。
func (s *DiagnosisService) ListByUser(userID uint, skip, limit int) ([]db.Diagnosis, error) {
	var diagnoses []db.Diagnosis
	if err := s.db.
		Joins("JOIN plants ON plants.id = diagnoses.plant_id").
		Where("plants.user_id = ? AND plants.deleted_at IS NULL", userID).
		Order("diagnoses.created_at DESC").
		Offset(skip).Limit(normalizeLimit(limit)).
		Find(&diagnoses).Error; err != nil {
		return nil, fmt.Errorf("list diagnoses by user: %w", err)
	}
	return diagnoses, nil
}

// ListAll 分页返回全部诊断，仅供超级管理员使用
func (s *DiagnosisService) ListAll(actor Actor, skip, limit int) ([]db.Diagnosis, error) {
	if !actor.Superuser {
		return nil, ErrForbidden
	}

	var diagnoses []db.Diagnosis
	if err := s.db.Order("created_at DESC").
		Offset(skip).Limit(normalizeLimit(limit)).
		Find(&diagnoses).Error; err != nil {
		return nil, fmt.Errorf("list diagnoses: %w", err)
	}
	return diagnoses, nil
}

// Update 局部更新诊断，置信度重新钳制后落库
func (s *DiagnosisService) Update(actor Actor, id uint, input DiagnosisUpdateInput) (*db.Diagnosis, error) {
	diagnosis, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}

	if input.IssueDetected != nil {
		issue := strings.TrimSpace(*input.IssueDetected)
		if issue == "" {
			return nil, fmt.Errorf("%w: issue must not be empty", ErrDiagnosisInvalidInput)
		}
		diagnosis.IssueDetected = issue
	}
	if input.ConfidenceScore != nil {
		diagnosis.ConfidenceScore = clampConfidence(*input.ConfidenceScore)
	}
	if input.Severity != nil {
		severity := strings.TrimSpace(*input.Severity)
		if severity == "" {
			return nil, fmt.Errorf("%w: severity must not be empty", ErrDiagnosisInvalidInput)
		}
		diagnosis.Severity = severity
	}
	if input.Recommendation != nil {
		diagnosis.Recommendation = *input.Recommendation
	}
	if input.ImageURL != nil {
		diagnosis.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.RecoveryWatering != nil {
		diagnosis.RecoveryWatering = strings.TrimSpace(*input.RecoveryWatering)
	}
	if input.RecoverySunlight != nil {
		diagnosis.RecoverySunlight = strings.TrimSpace(*input.RecoverySunlight)
	}
	if input.RecoveryAirCirculation != nil {
		diagnosis.RecoveryAirCirculation = strings.TrimSpace(*input.RecoveryAirCirculation)
	}
	if input.RecoveryTemperature != nil {
		diagnosis.RecoveryTemperature = strings.TrimSpace(*input.RecoveryTemperature)
	}

	if err := s.db.Save(diagnosis).Error; err != nil {
		return nil, fmt.Errorf("update diagnosis: %w", err)
	}
	return diagnosis, nil
}

// Delete 删除诊断，归属校验与 Get 一致
func (s *DiagnosisService) Delete(actor Actor, id uint) error {
	diagnosis, err := s.Get(actor, id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(&db.Diagnosis{}, diagnosis.ID).Error; err != nil {
		return fmt.Errorf("delete diagnosis: %w", err)
	}
	return nil
}

// ownerOf 解析诊断的归属用户：有关联植物时以植物主人为准
func (s *DiagnosisService) ownerOf(diagnosis *db.Diagnosis) (uint, error) {
	if diagnosis.PlantID == nil {
		return diagnosis.UserID, nil
	}

	var plant db.Plant
	if err := s.db.First(&plant, *diagnosis.PlantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 植物已被删除时退回诊断自身的归属
			return diagnosis.UserID, nil
		}
		return 0, fmt.Errorf("find plant for diagnosis: %w", err)
	}
	return plant.UserID, nil
}
