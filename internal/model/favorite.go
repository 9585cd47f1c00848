package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// GenreTag 类型标签（收藏时的快照，不关联类型表）
type GenreTag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreTags 标签列表，整体以 JSON 存储在一列中
// 类型在 TMDB 改名后已收藏的记录保持原值
type GenreTags []GenreTag

// Value 实现 driver.Valuer
func (g GenreTags) Value() (driver.Value, error) {
	if g == nil {
		return "[]", nil
	}
	b, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan 实现 sql.Scanner
func (g *GenreTags) Scan(value interface{}) error {
	if value == nil {
		*g = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("无法将 %T 解析为 GenreTags", value)
	}
	return json.Unmarshal(data, g)
}

// Contains 判断是否包含指定类型 ID
func (g GenreTags) Contains(genreID int) bool {
	for _, t := range g {
		if t.ID == genreID {
			return true
		}
	}
	return false
}

// FavoriteMovie 收藏
// 展示字段（标题/海报/类型/评分/上映日期）为收藏时的冗余快照
type FavoriteMovie struct {
	ID          int       `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id" gorm:"index;size:36"`
	MovieID     int       `json:"movie_id" db:"movie_id"`
	Title       string    `json:"title" db:"title"`
	PosterPath  string    `json:"poster_path" db:"poster_path"`
	Genres      GenreTags `json:"genres" db:"genres" gorm:"type:jsonb"`
	VoteAverage *float64  `json:"vote_average" db:"vote_average"`
	ReleaseDate string    `json:"release_date" db:"release_date"`
	AddedAt     time.Time `json:"added_at" db:"added_at"`
}
