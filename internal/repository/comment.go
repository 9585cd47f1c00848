package repository

import (
	"errors"
	"time"

	"github.com/user/cineview/internal/model"
	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// CreateComment 创建评论
func (r *CommentRepository) CreateComment(comment *model.Comment) error {
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	return r.db.Create(comment).Error
}

// CreateReply 创建回复
func (r *CommentRepository) CreateReply(reply *model.CommentReply) error {
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now()
	}
	return r.db.Create(reply).Error
}

// FindCommentByID 根据 ID 查找评论
func (r *CommentRepository) FindCommentByID(id int) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindReplyByID 根据 ID 查找回复
func (r *CommentRepository) FindReplyByID(id int) (*model.CommentReply, error) {
	var reply model.CommentReply
	err := r.db.First(&reply, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// ListByMovie 获取电影评论，按创建时间升序
func (r *CommentRepository) ListByMovie(movieID int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.Where("movie_id = ?", movieID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

// ListByTVSeries 获取剧集评论，按创建时间升序
func (r *CommentRepository) ListByTVSeries(tvSeriesID int) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.Where("tv_series_id = ?", tvSeriesID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

// ListRepliesByCommentIDs 批量获取回复，按创建时间升序
func (r *CommentRepository) ListRepliesByCommentIDs(commentIDs []int) ([]*model.CommentReply, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}
	var replies []*model.CommentReply
	err := r.db.Where("comment_id IN ?", commentIDs).Order("created_at ASC").Find(&replies).Error
	return replies, err
}

// DeleteCommentCascade 删除评论及其全部回复（同一事务）
func (r *CommentRepository) DeleteCommentCascade(commentID int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", commentID).Delete(&model.CommentReply{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Comment{}, commentID).Error
	})
}

// DeleteReply 删除回复
func (r *CommentRepository) DeleteReply(replyID int) error {
	return r.db.Delete(&model.CommentReply{}, replyID).Error
}
