package service

import (
	"errors"
)

// 业务错误集合，handler 层统一映射为 HTTP 状态码
var (
	// ErrInvalidCredentials 登录失败（邮箱不存在和密码错误统一返回，避免撞库探测）
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	// ErrEmailTaken 注册邮箱已存在
	ErrEmailTaken = errors.New("该邮箱已被注册")
	// ErrEmptyContent 评论/回复内容为空
	ErrEmptyContent = errors.New("内容不能为空")
	// ErrNotFound 目标记录不存在
	ErrNotFound = errors.New("资源不存在")
	// ErrForbidden 授权校验未通过
	ErrForbidden = errors.New("没有操作权限")
	// ErrExternalService 外部目录服务失败，不在内部重试
	ErrExternalService = errors.New("外部服务请求失败")
	// ErrValidation 参数不合法
	ErrValidation = errors.New("参数不合法")
)
