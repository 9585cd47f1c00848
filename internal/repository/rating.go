package repository

import (
	"errors"
	"time"

	"github.com/user/cineview/internal/model"
	"gorm.io/gorm"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// targetScope 按目标（电影或剧集）过滤
func targetScope(db *gorm.DB, movieID, tvSeriesID *int) *gorm.DB {
	if movieID != nil {
		return db.Where("movie_id = ?", *movieID)
	}
	return db.Where("tv_series_id = ?", *tvSeriesID)
}

// FindByUserAndTarget 查找用户对目标的评分
func (r *RatingRepository) FindByUserAndTarget(userID string, movieID, tvSeriesID *int) (*model.Rating, error) {
	var rating model.Rating
	err := targetScope(r.db.Where("user_id = ?", userID), movieID, tvSeriesID).
		Order("created_at DESC").
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// Create 创建评分
func (r *RatingRepository) Create(rating *model.Rating) error {
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now()
	}
	return r.db.Create(rating).Error
}

// Update 更新已有评分
func (r *RatingRepository) Update(id int, value int, review string) error {
	return r.db.Model(&model.Rating{}).Where("id = ?", id).Updates(map[string]interface{}{
		"rating":     value,
		"review":     review,
		"created_at": time.Now(),
	}).Error
}

// AverageByTarget 计算目标的平均分和评分数量
func (r *RatingRepository) AverageByTarget(movieID, tvSeriesID *int) (float64, int, error) {
	var result struct {
		Avg   *float64
		Count int64
	}
	err := targetScope(r.db.Model(&model.Rating{}), movieID, tvSeriesID).
		Select("AVG(rating) AS avg, COUNT(id) AS count").
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	avg := 0.0
	if result.Avg != nil {
		avg = *result.Avg
	}
	return avg, int(result.Count), nil
}
