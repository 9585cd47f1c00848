package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/user/cineview/internal/middleware"
	"github.com/user/cineview/internal/model"
	"github.com/user/cineview/internal/service"
	"github.com/user/cineview/internal/utils"
)

// targetFromQuery 从查询参数解析评论/评分目标
// movie_id 和 tv_series_id 必须且只能传一个
func targetFromQuery(c *gin.Context) (service.Target, bool) {
	var target service.Target
	if raw := c.Query("movie_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return target, false
		}
		target.MovieID = &id
	}
	if raw := c.Query("tv_series_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return target, false
		}
		target.TVSeriesID = &id
	}
	return target, true
}

// requireLogin 检查登录状态，未登录时返回 401
func requireLogin(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		utils.Unauthorized(c, "")
		return "", false
	}
	return userID, true
}

// ==================== 收藏 ====================

// ListFavorites 获取收藏列表
// 支持 genre_id 过滤和 sort_by/sort_order 排序
func (h *Handler) ListFavorites(c *gin.Context) {
	userID, ok := requireLogin(c)
	if !ok {
		return
	}

	opts := service.ListOptions{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if raw := c.Query("genre_id"); raw != "" {
		genreID, err := strconv.Atoi(raw)
		if err != nil {
			utils.BadRequest(c, "genre_id 不合法")
			return
		}
		opts.GenreID = &genreID
	}

	favorites, err := h.Favorites.List(userID, opts)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, favorites)
}

// AddFavoriteReq 添加收藏请求
type AddFavoriteReq struct {
	MovieID     int             `json:"movie_id" binding:"required"`
	Title       string          `json:"title" binding:"required,notblank"`
	PosterPath  string          `json:"poster_path"`
	Genres      model.GenreTags `json:"genres"`
	VoteAverage *float64        `json:"vote_average"`
	ReleaseDate string          `json:"release_date"`
}

// AddFavorite 添加收藏
func (h *Handler) AddFavorite(c *gin.Context) {
	userID, ok := requireLogin(c)
	if !ok {
		return
	}

	var req AddFavoriteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	fav, err := h.Favorites.Add(userID, service.FavoriteInput{
		MovieID:     req.MovieID,
		Title:       req.Title,
		PosterPath:  req.PosterPath,
		Genres:      req.Genres,
		VoteAverage: req.VoteAverage,
		ReleaseDate: req.ReleaseDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, fav)
}

// RemoveFavorite 取消收藏（幂等：行不存在同样返回成功）
func (h *Handler) RemoveFavorite(c *gin.Context) {
	userID, ok := requireLogin(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "收藏 ID 不合法")
		return
	}

	if err := h.Favorites.Remove(id, userID); err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, nil)
}

// FavoriteSuggestions 基于收藏类型偏好的推荐
func (h *Handler) FavoriteSuggestions(c *gin.Context) {
	userID, ok := requireLogin(c)
	if !ok {
		return
	}

	suggestions, err := h.Favorites.Recommend(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, suggestions)
}

// ==================== 评论 ====================

// ListComments 获取目标的评论树
func (h *Handler) ListComments(c *gin.Context) {
	target, ok := targetFromQuery(c)
	if !ok {
		utils.BadRequest(c, "目标 ID 不合法")
		return
	}

	threads, err := h.Comments.GetThreads(target)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, threads)
}

// AddCommentReq 添加评论请求
type AddCommentReq struct {
	MovieID    *int   `json:"movie_id"`
	TVSeriesID *int   `json:"tv_series_id"`
	Content    string `json:"content" binding:"required,notblank"`
}

// AddComment 添加评论
func (h *Handler) AddComment(c *gin.Context) {
	userID, ok := requireLogin(c)
	if !ok {
		return
	}

	var req AddCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	comment, err := h.Comments.AddComment(userID, service.Target{
		MovieID:    req.MovieID,
		TVSeriesID: req.TVSeriesID,
	}, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, comment)
}

// AddReplyReq 添加回复请求
type AddReplyReq struct {
	Content string `json:"content" binding:"required,notblank"`
}

// AddReply 添加回复
func (h *Handler) AddReply(c *gin.Context) {
	userID, ok := requireLogin(c)
	if !ok {
		return
	}

	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "评论 ID 不合法")
		return
	}

	var req AddReplyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	reply, err := h.Comments.AddReply(userID, commentID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, reply)
}

// DeleteComment 删除评论（作者本人或管理员）
func (h *Handler) DeleteComment(c *gin.Context) {
	userID, ok := requireLogin(c)
	if !ok {
		return
	}

	commentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "评论 ID 不合法")
		return
	}

	if err := h.Comments.DeleteComment(commentID, userID, middleware.GetRoleID(c)); err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, nil)
}

// DeleteReply 删除回复（作者本人或管理员）
func (h *Handler) DeleteReply(c *gin.Context) {
	userID, ok := requireLogin(c)
	if !ok {
		return
	}

	replyID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "回复 ID 不合法")
		return
	}

	if err := h.Comments.DeleteReply(replyID, userID, middleware.GetRoleID(c)); err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, nil)
}

// ==================== 评分 ====================

// RateReq 评分请求
type RateReq struct {
	MovieID    *int   `json:"movie_id"`
	TVSeriesID *int   `json:"tv_series_id"`
	Rating     int    `json:"rating" binding:"required,min=1,max=10"`
	Review     string `json:"review"`
}

// Rate 提交评分
func (h *Handler) Rate(c *gin.Context) {
	userID, ok := requireLogin(c)
	if !ok {
		return
	}

	var req RateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	err := h.Ratings.Rate(userID, service.Target{
		MovieID:    req.MovieID,
		TVSeriesID: req.TVSeriesID,
	}, req.Rating, req.Review)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, nil)
}

// AverageRating 获取目标的平均分
func (h *Handler) AverageRating(c *gin.Context) {
	target, ok := targetFromQuery(c)
	if !ok {
		utils.BadRequest(c, "目标 ID 不合法")
		return
	}

	summary, err := h.Ratings.Average(target)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, summary)
}

// MyRating 获取当前用户对目标的评分
func (h *Handler) MyRating(c *gin.Context) {
	userID, ok := requireLogin(c)
	if !ok {
		return
	}

	target, ok := targetFromQuery(c)
	if !ok {
		utils.BadRequest(c, "目标 ID 不合法")
		return
	}

	rating, err := h.Ratings.UserRating(userID, target)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, rating)
}

// ==================== 目录浏览 ====================

// SearchMovies 按标题搜索电影
func (h *Handler) SearchMovies(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.BadRequest(c, "缺少搜索关键词")
		return
	}

	movies, err := h.Catalog.SearchMovies(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, movies)
}

// MoviesByGenre 按类型浏览电影（分页）
func (h *Handler) MoviesByGenre(c *gin.Context) {
	genreID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "类型 ID 不合法")
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	movies, totalPages, err := h.Catalog.DiscoverByGenres(c.Request.Context(), []int{genreID}, page)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"movies":      movies,
		"total_pages": totalPages,
	})
}

// Genres 获取类型列表
func (h *Handler) Genres(c *gin.Context) {
	genres, err := h.Catalog.GenreList(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, genres)
}

// RelatedMovies 获取电影的关联推荐
func (h *Handler) RelatedMovies(c *gin.Context) {
	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "电影 ID 不合法")
		return
	}

	movies, err := h.Catalog.MovieRecommendations(c.Request.Context(), movieID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, movies)
}

// RelatedTVSeries 获取剧集的关联推荐
func (h *Handler) RelatedTVSeries(c *gin.Context) {
	tvID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "剧集 ID 不合法")
		return
	}

	movies, err := h.Catalog.TVRecommendations(c.Request.Context(), tvID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, movies)
}
