package service

import (
	"fmt"

	"github.com/user/cineview/internal/model"
)

// ratingStore 评分服务依赖的存储
type ratingStore interface {
	FindByUserAndTarget(userID string, movieID, tvSeriesID *int) (*model.Rating, error)
	Create(rating *model.Rating) error
	Update(id int, value int, review string) error
	AverageByTarget(movieID, tvSeriesID *int) (float64, int, error)
}

// RatingSummary 目标的评分统计
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
}

// RatingService 评分服务
type RatingService struct {
	ratings ratingStore
}

// NewRatingService 创建评分服务
func NewRatingService(ratings ratingStore) *RatingService {
	return &RatingService{ratings: ratings}
}

// Rate 提交评分（1-10 分，可附短评）
// 每个 (用户, 目标) 只保留一条记录，重复提交时原地更新
func (s *RatingService) Rate(userID string, target Target, value int, review string) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if value < 1 || value > 10 {
		return fmt.Errorf("%w: 评分必须在 1-10 之间", ErrValidation)
	}

	existing, err := s.ratings.FindByUserAndTarget(userID, target.MovieID, target.TVSeriesID)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.ratings.Update(existing.ID, value, review)
	}

	return s.ratings.Create(&model.Rating{
		UserID:     userID,
		MovieID:    target.MovieID,
		TVSeriesID: target.TVSeriesID,
		Rating:     value,
		Review:     review,
	})
}

// Average 获取目标的平均分和评分数量
func (s *RatingService) Average(target Target) (*RatingSummary, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	avg, count, err := s.ratings.AverageByTarget(target.MovieID, target.TVSeriesID)
	if err != nil {
		return nil, err
	}
	return &RatingSummary{AverageRating: avg, RatingCount: count}, nil
}

// UserRating 获取用户对目标的评分，没有时返回 nil
func (s *RatingService) UserRating(userID string, target Target) (*model.Rating, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	return s.ratings.FindByUserAndTarget(userID, target.MovieID, target.TVSeriesID)
}
