package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/user/cineview/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost 密码哈希成本因子
const bcryptCost = 10

// userStore 认证服务依赖的用户存储
type userStore interface {
	FindByEmail(email string) (*model.User, error)
	FindByID(id string) (*model.User, error)
	Create(email string, passwordHash *string, name *string, avatar *string, roleID int) (*model.User, error)
	UpdateProfile(userID string, name string, avatar *string) error
}

// Identity 认证结果，不携带密码哈希
type Identity struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	RoleID int    `json:"role_id"`
	Avatar string `json:"avatar"`
}

// FederatedAssertion 第三方登录断言（由上游 OAuth 回调解析得到）
type FederatedAssertion struct {
	Provider string
	Email    string
	Name     string
	Avatar   string
}

// AuthService 认证与授权服务
type AuthService struct {
	users userStore
}

// NewAuthService 创建认证服务
func NewAuthService(users userStore) *AuthService {
	return &AuthService{users: users}
}

// Register 注册新用户
// 邮箱统一转小写后比较和存储，保证唯一性判断一致
func (s *AuthService) Register(email, password string, name *string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user, err := s.users.Create(email, &hashStr, name, nil, model.RoleUserID)
	if err != nil {
		return nil, err
	}

	return identityOf(user), nil
}

// Authenticate 密码登录
// 邮箱不存在、账号无密码（仅第三方登录）、密码错误都返回 ErrInvalidCredentials
func (s *AuthService) Authenticate(email, password string) (*Identity, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return identityOf(user), nil
}

// AuthenticateFederated 第三方登录
// 首次登录自动建号（无密码哈希），之后按邮箱匹配已有账号
func (s *AuthService) AuthenticateFederated(assertion FederatedAssertion) (*Identity, error) {
	if assertion.Email == "" {
		return nil, fmt.Errorf("%w: 第三方断言缺少邮箱", ErrValidation)
	}
	email := strings.ToLower(strings.TrimSpace(assertion.Email))

	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		var name *string
		if assertion.Name != "" {
			name = &assertion.Name
		}
		var avatar *string
		if assertion.Avatar != "" {
			avatar = &assertion.Avatar
		}
		user, err = s.users.Create(email, nil, name, avatar, model.RoleUserID)
		if err != nil {
			return nil, err
		}
		log.Printf("[Auth] 第三方首次登录建号: provider=%s email=%s", assertion.Provider, email)
	}

	return identityOf(user), nil
}

// GetIdentity 根据用户 ID 获取身份信息
func (s *AuthService) GetIdentity(userID string) (*Identity, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return identityOf(user), nil
}

// UpdateProfile 更新展示名和头像
func (s *AuthService) UpdateProfile(userID string, name string, avatar *string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: 名称不能为空", ErrValidation)
	}
	return s.users.UpdateProfile(userID, name, avatar)
}

// Authorize 授权判断：资源所有者本人或管理员
// 这是系统中唯一的授权规则，所有删除/更新路径统一使用
func Authorize(userID string, roleID int, resourceOwnerID string) bool {
	return userID == resourceOwnerID || roleID == model.RoleAdminID
}

func identityOf(user *model.User) *Identity {
	identity := &Identity{
		ID:     user.ID,
		Email:  user.Email,
		RoleID: user.RoleID,
	}
	if user.Name != nil {
		identity.Name = *user.Name
	}
	if user.Avatar != nil {
		identity.Avatar = *user.Avatar
	}
	return identity
}
