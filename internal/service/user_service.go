package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plantlog/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound 在指定用户不存在时返回
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken 在邮箱已被注册时返回
	ErrEmailTaken = errors.New("email already registered")
	// ErrUsernameTaken 在用户名已被占用时返回
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials 在用户名或密码错误时返回
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrUserInactive 在账号被停用时返回
	ErrUserInactive = errors.New("user account is inactive")
	// ErrUserInvalidInput 在注册/更新数据不完整时返回
	ErrUserInvalidInput = errors.New("invalid user input")
)

// UserService 负责用户账号的注册、认证与管理
type UserService struct {
	db *gorm.DB
}

// NewUserService 构造 UserService
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// RegisterInput 定义注册时必须提供的字段
type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName string
}

// UserUpdateInput 定义更新用户时可选择性传入的字段
// IsActive/IsSuperuser 仅超级管理员可修改
type UserUpdateInput struct {
	Email       *string
	Username    *string
	Password    *string
	FullName    *string
	IsActive    *bool
	IsSuperuser *bool
}

// Register 创建新用户，邮箱与用户名都必须唯一
func (s *UserService) Register(input RegisterInput) (*db.User, error) {
	email := strings.TrimSpace(input.Email)
	username := strings.TrimSpace(input.Username)
	if email == "" || username == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: email, username and password are required", ErrUserInvalidInput)
	}

	var count int64
	if err := s.db.Model(&db.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	if err := s.db.Model(&db.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := db.User{
		Email:    email,
		Username: username,
		Password: string(hashed),
		FullName: strings.TrimSpace(input.FullName),
		IsActive: true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return &user, nil
}

// Authenticate 校验用户名密码，通过后返回用户记录
func (s *UserService) Authenticate(username, password string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return &user, nil
}

// Get 根据主键获取用户
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// List 分页返回用户列表
func (s *UserService) List(skip, limit int) ([]db.User, error) {
	var users []db.User
	if err := s.db.Order("id ASC").Offset(skip).Limit(normalizeLimit(limit)).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update 更新用户资料；仅本人或超级管理员可操作，
// 且只有超级管理员可以调整 IsActive/IsSuperuser
func (s *UserService) Update(actor Actor, id uint, input UserUpdateInput) (*db.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if !actor.CanAccess(user.ID) {
		return nil, ErrForbidden
	}
	if (input.IsActive != nil || input.IsSuperuser != nil) && !actor.Superuser {
		return nil, ErrForbidden
	}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email must not be empty", ErrUserInvalidInput)
		}
		if email != user.Email {
			var count int64
			if err := s.db.Model(&db.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
				return nil, fmt.Errorf("check email: %w", err)
			}
			if count > 0 {
				return nil, ErrEmailTaken
			}
			user.Email = email
		}
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: username must not be empty", ErrUserInvalidInput)
		}
		if username != user.Username {
			var count int64
			if err := s.db.Model(&db.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
				return nil, fmt.Errorf("check username: %w", err)
			}
			if count > 0 {
				return nil, ErrUsernameTaken
			}
			user.Username = username
		}
	}

	if input.Password != nil {
		if *input.Password == "" {
			return nil, fmt.Errorf("%w: password must not be empty", ErrUserInvalidInput)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hashed)
	}

	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.IsSuperuser != nil {
		user.IsSuperuser = *input.IsSuperuser
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Delete 删除用户及其名下的植物、活动、诊断与资料，仅超级管理员可操作
func (s *UserService) Delete(actor Actor, id uint) error {
	if !actor.Superuser {
		return ErrForbidden
	}

	user, err := s.Get(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&db.Activity{}).Error; err != nil {
			return fmt.Errorf("delete activities: %w", err)
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&db.Diagnosis{}).Error; err != nil {
			return fmt.Errorf("delete diagnoses: %w", err)
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&db.Plant{}).Error; err != nil {
			return fmt.Errorf("delete plants: %w", err)
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&db.Profile{}).Error; err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		if err := tx.Delete(&db.User{}, user.ID).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

// normalizeLimit 约束分页大小，防止无界查询
func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
