package service

import (
	"fmt"
)

// Target 评论/评分挂载的目标：电影或剧集，二者互斥
type Target struct {
	MovieID    *int
	TVSeriesID *int
}

// MovieTarget 构造电影目标
func MovieTarget(movieID int) Target {
	return Target{MovieID: &movieID}
}

// TVTarget 构造剧集目标
func TVTarget(tvSeriesID int) Target {
	return Target{TVSeriesID: &tvSeriesID}
}

// Validate 校验目标有效性：必须且只能设置一个 ID
func (t Target) Validate() error {
	if t.MovieID == nil && t.TVSeriesID == nil {
		return fmt.Errorf("%w: 缺少目标 ID", ErrValidation)
	}
	if t.MovieID != nil && t.TVSeriesID != nil {
		return fmt.Errorf("%w: 不能同时指定电影和剧集", ErrValidation)
	}
	return nil
}
