package repository

import (
	"time"

	"github.com/user/cineview/internal/model"
	"gorm.io/gorm"
)

type FavoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add 添加收藏
// 不做去重，同一部电影允许收藏多次
func (r *FavoriteRepository) Add(fav *model.FavoriteMovie) error {
	if fav.AddedAt.IsZero() {
		fav.AddedAt = time.Now()
	}
	return r.db.Create(fav).Error
}

// Remove 取消收藏
// 删除条件同时匹配行 ID 和所属用户，不存在或不属于该用户时是无操作
func (r *FavoriteRepository) Remove(id int, userID string) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.FavoriteMovie{}).Error
}

// ListByUser 获取用户收藏列表
func (r *FavoriteRepository) ListByUser(userID string) ([]*model.FavoriteMovie, error) {
	var favorites []*model.FavoriteMovie
	err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&favorites).Error
	return favorites, err
}

// CountByUser 统计用户收藏数量
func (r *FavoriteRepository) CountByUser(userID string) (int, error) {
	var count int64
	err := r.db.Model(&model.FavoriteMovie{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}
