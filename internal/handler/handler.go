package handler

import (
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/cineview/internal/config"
	"github.com/user/cineview/internal/middleware"
	"github.com/user/cineview/internal/model"
	"github.com/user/cineview/internal/repository"
	"github.com/user/cineview/internal/service"
	"github.com/user/cineview/internal/utils"
)

// 注册自定义校验规则：notblank 拒绝纯空白字符串
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	}
}

// Handler HTTP 处理器
type Handler struct {
	Repos     *repository.Repositories
	Config    *config.Config
	Auth      *service.AuthService
	Comments  *service.CommentService
	Favorites *service.FavoriteService
	Ratings   *service.RatingService
	Catalog   *service.TMDBService
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	// 创建目录网关
	catalog := service.NewTMDBService(cfg)

	return &Handler{
		Repos:     repos,
		Config:    cfg,
		Auth:      service.NewAuthService(repos.User),
		Comments:  service.NewCommentService(repos.Comment, repos.User),
		Favorites: service.NewFavoriteService(repos.Favorite, catalog),
		Ratings:   service.NewRatingService(repos.Rating),
		Catalog:   catalog,
	}
}

// respondError 将业务错误映射为 HTTP 响应
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		utils.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		utils.Error(c, 409, err.Error())
	case errors.Is(err, service.ErrEmptyContent), errors.Is(err, service.ErrValidation):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		utils.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrExternalService):
		utils.BadGateway(c, err.Error())
	default:
		utils.InternalServerError(c, "")
	}
}

// ==================== 认证 ====================

// RegisterReq 注册请求
type RegisterReq struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Name     *string `json:"name"`
}

// Register 注册处理
func (h *Handler) Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	identity, err := h.Auth.Register(req.Email, req.Password, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.establishSession(c, identity); err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, identity)
}

// LoginReq 登录请求
type LoginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 密码登录处理
func (h *Handler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	identity, err := h.Auth.Authenticate(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.establishSession(c, identity); err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, identity)
}

// FederatedLoginReq 第三方登录请求（OAuth 回调层解析后的断言）
type FederatedLoginReq struct {
	Provider string `json:"provider" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
}

// FederatedLogin 第三方登录处理
func (h *Handler) FederatedLogin(c *gin.Context) {
	var req FederatedLoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	identity, err := h.Auth.AuthenticateFederated(service.FederatedAssertion{
		Provider: req.Provider,
		Email:    req.Email,
		Name:     req.Name,
		Avatar:   req.Avatar,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.establishSession(c, identity); err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, identity)
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)

	// 清理 Session
	session := sessions.Default(c)
	session.Clear()
	session.Save()

	utils.Success(c, nil)
}

// ==================== 管理 ====================

// AdminStats 站点统计
func (h *Handler) AdminStats(c *gin.Context) {
	userCount, err := h.Repos.User.Count()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, gin.H{"user_count": userCount})
}

// UpdateRoleReq 角色变更请求
type UpdateRoleReq struct {
	RoleID int `json:"role_id" binding:"required,min=1,max=3"`
}

// UpdateUserRole 变更用户角色
// 新角色对目标用户的下一次登录生效（Token 中的角色是签发时快照）
func (h *Handler) UpdateUserRole(c *gin.Context) {
	var req UpdateRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	targetID := c.Param("id")
	user, err := h.Repos.User.FindByID(targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		utils.NotFound(c, "")
		return
	}

	if err := h.Repos.User.UpdateRole(targetID, req.RoleID); err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, nil)
}

// establishSession 签发 Token 并写入 Session
// 角色 ID 固化进 Token，角色变更需重新登录才生效
func (h *Handler) establishSession(c *gin.Context, identity *service.Identity) error {
	token, err := middleware.GenerateToken(identity.ID, identity.Email, identity.RoleID, identity.Avatar, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		return err
	}
	c.SetCookie("token", token, int(h.Config.JWTExpiry.Seconds()), "/", "", false, true)

	// 保存 UserInfo 到 Session
	session := sessions.Default(c)
	session.Set("userinfo", model.SessionUser{
		ID:     identity.ID,
		Email:  identity.Email,
		Name:   identity.Name,
		RoleID: identity.RoleID,
		Avatar: identity.Avatar,
	})
	return session.Save()
}

// ==================== 用户资料 ====================

// Me 获取当前用户信息
func (h *Handler) Me(c *gin.Context) {
	userID := middleware.GetUserID(c)
	identity, err := h.Auth.GetIdentity(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	favoriteCount, err := h.Repos.Favorite.CountByUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"user":           identity,
		"favorite_count": favoriteCount,
	})
}

// UpdateProfileReq 资料更新请求
type UpdateProfileReq struct {
	Name   string  `json:"name" binding:"required"`
	Avatar *string `json:"avatar"`
}

// UpdateProfile 更新展示名和头像
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	if err := h.Auth.UpdateProfile(userID, req.Name, req.Avatar); err != nil {
		respondError(c, err)
		return
	}

	// 更新 Session 中的展示名
	session := sessions.Default(c)
	if userinfo := session.Get("userinfo"); userinfo != nil {
		if su, ok := userinfo.(model.SessionUser); ok {
			su.Name = req.Name
			if req.Avatar != nil {
				su.Avatar = *req.Avatar
			}
			session.Set("userinfo", su)
			session.Save()
		}
	}

	utils.Success(c, nil)
}
