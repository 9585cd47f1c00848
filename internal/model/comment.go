package model

import (
	"time"
)

// Comment 评论
// MovieID 和 TVSeriesID 互斥，永远只设置其中一个
type Comment struct {
	ID         int       `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id" gorm:"size:36"`
	MovieID    *int      `json:"movie_id" db:"movie_id" gorm:"index"`
	TVSeriesID *int      `json:"tv_series_id" db:"tv_series_id" gorm:"index"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// CommentReply 评论回复（只有一层，不支持嵌套回复）
type CommentReply struct {
	ID        int       `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id" gorm:"size:36"`
	CommentID int       `json:"comment_id" db:"comment_id" gorm:"index"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
