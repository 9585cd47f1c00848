package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/user/cineview/internal/model"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户
// passwordHash 为 nil 时表示第三方登录账号
func (r *UserRepository) Create(email string, passwordHash *string, name *string, avatar *string, roleID int) (*model.User, error) {
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Avatar:       avatar,
		RoleID:       roleID,
		CreatedAt:    time.Now(),
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByID 根据 ID 查找用户
func (r *UserRepository) FindByID(id string) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByIDs 批量查找用户（评论作者展示用）
func (r *UserRepository) FindByIDs(ids []string) ([]*model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []*model.User
	err := r.db.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// UpdateProfile 更新展示名和头像
func (r *UserRepository) UpdateProfile(userID string, name string, avatar *string) error {
	updates := map[string]interface{}{"name": name}
	if avatar != nil {
		updates["avatar"] = *avatar
	}
	return r.db.Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error
}

// UpdateRole 更新用户角色
func (r *UserRepository) UpdateRole(userID string, roleID int) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("role_id", roleID).Error
}

// Count 获取用户总数
func (r *UserRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Count(&count).Error
	return count, err
}
