package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hermandad/pkg/upload"
)

var (
	// ErrUnsupportedMedia 上传文件类型不允许
	ErrUnsupportedMedia = upload.ErrUnsupportedMedia
	// ErrUploadTooLarge 上传文件过大
	ErrUploadTooLarge = upload.ErrTooLarge
	// ErrInvalidCredentials 用户名或密码错误，不区分两者
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden 已登录但角色不允许
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound 公告不存在
	ErrNotFound = errors.New("not found")
)

// ValidationError 必填字段缺失
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// StoreError 持久层错误，不向用户展示细节
type StoreError struct {
	Op      string
	Err     error
	timeout bool
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Transient 是否为超时等可重试错误
func (e *StoreError) Transient() bool {
	return e.timeout || errors.Is(e.Err, context.DeadlineExceeded)
}

// storeErr 包装持久层错误，ctx 已超时的记为可重试
func storeErr(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err, timeout: errors.Is(ctx.Err(), context.DeadlineExceeded)}
}
