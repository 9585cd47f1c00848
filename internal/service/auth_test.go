package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cineview/internal/model"
)

// fakeUserStore 内存用户存储
type fakeUserStore struct {
	users  []*model.User
	nextID int
}

func (f *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByID(id string) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) Create(email string, passwordHash *string, name *string, avatar *string, roleID int) (*model.User, error) {
	f.nextID++
	user := &model.User{
		ID:           fmt.Sprintf("user-%d", f.nextID),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Avatar:       avatar,
		RoleID:       roleID,
	}
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeUserStore) UpdateProfile(userID string, name string, avatar *string) error {
	for _, u := range f.users {
		if u.ID == userID {
			u.Name = &name
			if avatar != nil {
				u.Avatar = avatar
			}
			return nil
		}
	}
	return nil
}

func (f *fakeUserStore) FindByIDs(ids []string) ([]*model.User, error) {
	var result []*model.User
	for _, id := range ids {
		if u, _ := f.FindByID(id); u != nil {
			result = append(result, u)
		}
	}
	return result, nil
}

func TestRegisterThenAuthenticate(t *testing.T) {
	svc := NewAuthService(&fakeUserStore{})

	name := "张三"
	identity, err := svc.Register("zhangsan@example.com", "secret123", &name)
	require.NoError(t, err)
	assert.NotEmpty(t, identity.ID)
	assert.Equal(t, "zhangsan@example.com", identity.Email)
	assert.Equal(t, model.RoleUserID, identity.RoleID)

	// 注册后立即用同样的凭据登录应该成功
	got, err := svc.Authenticate("zhangsan@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, identity.ID, got.ID)
	assert.Equal(t, identity.RoleID, got.RoleID)
}

func TestAuthenticateInvalidCredentials(t *testing.T) {
	svc := NewAuthService(&fakeUserStore{})

	_, err := svc.Register("a@example.com", "secret123", nil)
	require.NoError(t, err)

	// 密码错误和邮箱不存在必须返回同一个错误
	_, err = svc.Authenticate("a@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateFederatedOnlyAccount(t *testing.T) {
	svc := NewAuthService(&fakeUserStore{})

	_, err := svc.AuthenticateFederated(FederatedAssertion{
		Provider: "google",
		Email:    "oauth@example.com",
		Name:     "OAuth 用户",
	})
	require.NoError(t, err)

	// 无密码账号走密码登录也只返回 InvalidCredentials
	_, err = svc.Authenticate("oauth@example.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterEmailTaken(t *testing.T) {
	svc := NewAuthService(&fakeUserStore{})

	_, err := svc.Register("dup@example.com", "secret123", nil)
	require.NoError(t, err)

	_, err = svc.Register("dup@example.com", "other-password", nil)
	assert.ErrorIs(t, err, ErrEmailTaken)

	// 邮箱大小写不同视为同一个账号
	_, err = svc.Register("DUP@example.com", "third-password", nil)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticateEmailCaseInsensitive(t *testing.T) {
	svc := NewAuthService(&fakeUserStore{})

	_, err := svc.Register("Case@Example.com", "secret123", nil)
	require.NoError(t, err)

	got, err := svc.Authenticate("case@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "case@example.com", got.Email)
}

func TestAuthenticateFederatedCreatesUserOnce(t *testing.T) {
	store := &fakeUserStore{}
	svc := NewAuthService(store)

	assertion := FederatedAssertion{
		Provider: "discord",
		Email:    "fed@example.com",
		Name:     "Fed",
		Avatar:   "https://cdn.example.com/a.png",
	}

	first, err := svc.AuthenticateFederated(assertion)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUserID, first.RoleID)
	assert.Equal(t, "https://cdn.example.com/a.png", first.Avatar)

	// 第二次登录复用已有账号
	second, err := svc.AuthenticateFederated(assertion)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.users, 1)

	// 建号后不应有密码哈希
	user, _ := store.FindByEmail("fed@example.com")
	assert.Nil(t, user.PasswordHash)
}

func TestAuthorize(t *testing.T) {
	// 本人可以操作自己的资源
	assert.True(t, Authorize("u1", model.RoleUserID, "u1"))
	// 管理员可以操作任何资源
	assert.True(t, Authorize("admin", model.RoleAdminID, "u1"))
	// 其他普通用户不行
	assert.False(t, Authorize("u2", model.RoleUserID, "u1"))
	assert.False(t, Authorize("u2", model.RoleEditorID, "u1"))
}
