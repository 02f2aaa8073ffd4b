package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/user/cinelog/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// normalizeEmail 邮箱统一小写存储，避免大小写不同导致重复注册
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create 创建用户，邮箱归一化后存储，默认角色 user
func (r *UserRepository) Create(email, username, password string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        normalizeEmail(email),
		Username:     strings.TrimSpace(username),
		PasswordHash: string(hash),
		Role:         "user",
		CreatedAt:    time.Now(),
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail 根据邮箱查找用户，不存在时返回 nil 而非错误
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID 根据 ID 查找用户，不存在时返回 nil
func (r *UserRepository) FindByID(id int) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckPassword 验证密码
func (r *UserRepository) CheckPassword(user *model.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// UpdateUsername 更新用户名
func (r *UserRepository) UpdateUsername(userID int, username string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).
		Update("username", strings.TrimSpace(username)).Error
}

// UpdatePassword 更新密码
func (r *UserRepository) UpdatePassword(userID int, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return r.db.Model(&model.User{}).Where("id = ?", userID).
		Update("password_hash", string(hash)).Error
}

// UpdateRole 更新用户角色
func (r *UserRepository) UpdateRole(userID int, role string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("role", role).Error
}

// ListAll 管理后台用：按注册顺序列出所有用户
func (r *UserRepository) ListAll() ([]*model.User, error) {
	var users []*model.User
	err := r.db.Order("id ASC").Find(&users).Error
	return users, err
}

// Count 用户总数
func (r *UserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Count(&count).Error
	return count, err
}

// Delete 删除用户，想看/已看/活动记录保留为孤儿数据由清理任务处理
func (r *UserRepository) Delete(userID int) error {
	return r.db.Delete(&model.User{}, userID).Error
}
