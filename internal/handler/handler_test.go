package handler

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cineview/internal/config"
	"github.com/user/cineview/internal/model"
	"github.com/user/cineview/internal/service"
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
	return nil
}

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gob.Register(model.SessionUser{})

	cfg := &config.Config{AppSecret: "test-secret", JWTExpiry: time.Hour}
	h := &Handler{
		Config: cfg,
		Auth:   service.NewAuthService(&fakeUserStore{}),
	}

	r := gin.New()
	store := cookie.NewStore([]byte(cfg.AppSecret))
	r.Use(sessions.Sessions("mysession", store))
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterEstablishesSession(t *testing.T) {
	r := newAuthRouter(t)

	w := postJSON(r, "/auth/register", `{"email":"a@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	// 成功响应必须同时带上 Token Cookie
	var hasToken bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "token" && ck.Value != "" {
			hasToken = true
		}
	}
	assert.True(t, hasToken)
}

func TestLoginAfterRegister(t *testing.T) {
	r := newAuthRouter(t)

	w := postJSON(r, "/auth/register", `{"email":"a@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(r, "/auth/login", `{"email":"a@example.com","password":"secret123"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	// 密码错误映射为 401，且不下发 Cookie
	w = postJSON(r, "/auth/login", `{"email":"a@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}
