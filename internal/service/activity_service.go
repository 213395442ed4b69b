package service

import (
	"fmt"

	"github.com/plantlog/internal/db"
	"gorm.io/gorm"
)

// ActivityService 提供活动流的读取能力
// 写入由植物/诊断服务在各自事务内完成，这里不提供更新或删除
type ActivityService struct {
	db *gorm.DB
}

// NewActivityService 构造 ActivityService
func NewActivityService(gdb *gorm.DB) *ActivityService {
	return &ActivityService{db: gdb}
}

// ListForUser 按时间倒序分页返回用户的活动流
func (s *ActivityService) ListForUser(userID uint, skip, limit int) ([]db.Activity, error) {
	var activities []db.Activity
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(skip).Limit(normalizeLimit(limit)).
		Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}
