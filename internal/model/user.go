package model

import (
	"time"
)

// 角色 ID 常量
// 授权判断统一使用 RoleAdminID，注册默认 RoleUserID
const (
	RoleAdminID  = 1
	RoleEditorID = 2
	RoleUserID   = 3
)

// User 用户模型
// ID 使用 UUID 字符串，PasswordHash 为 nil 表示仅第三方登录账号
type User struct {
	ID           string    `json:"id" db:"id" gorm:"primaryKey;size:36"`
	Name         *string   `json:"name" db:"name"`
	Email        string    `json:"email" db:"email" gorm:"unique"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	RoleID       int       `json:"role_id" db:"role_id"`
	Avatar       *string   `json:"avatar" db:"avatar"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Role 角色模型（静态参照表）
type Role struct {
	ID   int    `json:"id" db:"id" gorm:"primaryKey"`
	Name string `json:"name" db:"name" gorm:"unique"`
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID     string
	Email  string
	Name   string
	RoleID int
	Avatar string
}
