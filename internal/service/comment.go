package service

import (
	"strings"

	"github.com/user/cineview/internal/model"
)

// unknownAuthorName 作者账号已注销时的占位名
const unknownAuthorName = "未知用户"

// commentStore 评论服务依赖的评论存储
type commentStore interface {
	CreateComment(comment *model.Comment) error
	CreateReply(reply *model.CommentReply) error
	FindCommentByID(id int) (*model.Comment, error)
	FindReplyByID(id int) (*model.CommentReply, error)
	ListByMovie(movieID int) ([]*model.Comment, error)
	ListByTVSeries(tvSeriesID int) ([]*model.Comment, error)
	ListRepliesByCommentIDs(commentIDs []int) ([]*model.CommentReply, error)
	DeleteCommentCascade(commentID int) error
	DeleteReply(replyID int) error
}

// authorStore 批量查询作者信息
type authorStore interface {
	FindByIDs(ids []string) ([]*model.User, error)
}

// Author 评论作者展示信息
type Author struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// ReplyView 回复及其作者
type ReplyView struct {
	model.CommentReply
	Author Author `json:"author"`
}

// CommentThread 评论及其回复列表（只有一层嵌套）
type CommentThread struct {
	model.Comment
	Author  Author      `json:"author"`
	Replies []ReplyView `json:"replies"`
}

// CommentService 评论服务
type CommentService struct {
	comments commentStore
	users    authorStore
}

// NewCommentService 创建评论服务
func NewCommentService(comments commentStore, users authorStore) *CommentService {
	return &CommentService{comments: comments, users: users}
}

// GetThreads 获取目标的评论树
// 两次查询（评论 + 回复）后在内存中按 comment_id 分组拼装，
// 两层都按创建时间升序。作者已注销时用占位信息，不丢弃评论本身。
func (s *CommentService) GetThreads(target Target) ([]CommentThread, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	var comments []*model.Comment
	var err error
	if target.MovieID != nil {
		comments, err = s.comments.ListByMovie(*target.MovieID)
	} else {
		comments, err = s.comments.ListByTVSeries(*target.TVSeriesID)
	}
	if err != nil {
		return nil, err
	}

	commentIDs := make([]int, 0, len(comments))
	for _, c := range comments {
		commentIDs = append(commentIDs, c.ID)
	}

	replies, err := s.comments.ListRepliesByCommentIDs(commentIDs)
	if err != nil {
		return nil, err
	}

	// 收集作者 ID 并批量查询
	authorIDs := make([]string, 0, len(comments)+len(replies))
	seen := make(map[string]bool)
	collect := func(id string) {
		if !seen[id] {
			seen[id] = true
			authorIDs = append(authorIDs, id)
		}
	}
	for _, c := range comments {
		collect(c.UserID)
	}
	for _, r := range replies {
		collect(r.UserID)
	}

	users, err := s.users.FindByIDs(authorIDs)
	if err != nil {
		return nil, err
	}
	authors := make(map[string]Author, len(users))
	for _, u := range users {
		a := Author{ID: u.ID, Email: u.Email}
		if u.Name != nil {
			a.Name = *u.Name
		}
		if u.Avatar != nil {
			a.Avatar = *u.Avatar
		}
		authors[u.ID] = a
	}

	// 回复按父评论 ID 分组
	replyGroups := make(map[int][]ReplyView, len(comments))
	for _, r := range replies {
		replyGroups[r.CommentID] = append(replyGroups[r.CommentID], ReplyView{
			CommentReply: *r,
			Author:       s.authorOf(authors, r.UserID),
		})
	}

	threads := make([]CommentThread, 0, len(comments))
	for _, c := range comments {
		group := replyGroups[c.ID]
		if group == nil {
			group = []ReplyView{}
		}
		threads = append(threads, CommentThread{
			Comment: *c,
			Author:  s.authorOf(authors, c.UserID),
			Replies: group,
		})
	}

	return threads, nil
}

// authorOf 查找作者，缺失时返回占位信息
func (s *CommentService) authorOf(authors map[string]Author, userID string) Author {
	if a, ok := authors[userID]; ok {
		return a
	}
	return Author{ID: userID, Name: unknownAuthorName}
}

// AddComment 添加评论
func (s *CommentService) AddComment(userID string, target Target, content string) (*model.Comment, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	comment := &model.Comment{
		UserID:     userID,
		MovieID:    target.MovieID,
		TVSeriesID: target.TVSeriesID,
		Content:    content,
	}
	if err := s.comments.CreateComment(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// AddReply 添加回复，父评论必须存在
func (s *CommentService) AddReply(userID string, commentID int, content string) (*model.CommentReply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	parent, err := s.comments.FindCommentByID(commentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, ErrNotFound
	}

	reply := &model.CommentReply{
		UserID:    userID,
		CommentID: commentID,
		Content:   content,
	}
	if err := s.comments.CreateReply(reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// DeleteComment 删除评论并级联删除全部回复
// 只有作者本人或管理员可以删除
func (s *CommentService) DeleteComment(commentID int, callerID string, callerRoleID int) error {
	comment, err := s.comments.FindCommentByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrNotFound
	}
	if !Authorize(callerID, callerRoleID, comment.UserID) {
		return ErrForbidden
	}
	return s.comments.DeleteCommentCascade(commentID)
}

// DeleteReply 删除回复，无级联
func (s *CommentService) DeleteReply(replyID int, callerID string, callerRoleID int) error {
	reply, err := s.comments.FindReplyByID(replyID)
	if err != nil {
		return err
	}
	if reply == nil {
		return ErrNotFound
	}
	if !Authorize(callerID, callerRoleID, reply.UserID) {
		return ErrForbidden
	}
	return s.comments.DeleteReply(replyID)
}
