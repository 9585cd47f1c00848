package model

import (
	"time"
)

// Rating 评分
// 每个 (用户, 目标) 只保留一条记录，重复提交时更新
type Rating struct {
	ID         int       `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id" gorm:"index;size:36"`
	MovieID    *int      `json:"movie_id" db:"movie_id" gorm:"index"`
	TVSeriesID *int      `json:"tv_series_id" db:"tv_series_id" gorm:"index"`
	Rating     int       `json:"rating" db:"rating"`
	Review     string    `json:"review" db:"review"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
