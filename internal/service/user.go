package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"hermandad/internal/model"
	"hermandad/internal/repository"
	"hermandad/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

// 未知用户时用于比较的哈希，使两种失败耗时接近
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("hermandad-dummy-password"), bcrypt.DefaultCost)

// UserService 用户服务接口
type UserService interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	EnsureDirector(ctx context.Context, username, password string) (bool, error)
}

type userService struct {
	userRepo     repository.UserRepository
	storeTimeout time.Duration
	logger       *logger.Logger
}

// NewUserService 创建用户服务实例
func NewUserService(userRepo repository.UserRepository, storeTimeout time.Duration, logger *logger.Logger) UserService {
	return &userService{
		userRepo:     userRepo,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

// Authenticate 校验用户名和密码，用户不存在与密码错误返回同一个错误
func (s *userService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	ctx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", "username", username, "error", err)
		return nil, storeErr(ctx, "get user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// EnsureDirector 不存在时创建director账号，返回是否新建
func (s *userService) EnsureDirector(ctx context.Context, username, password string) (bool, error) {
	ctx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	_, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return false, storeErr(ctx, "get user", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	user := &model.User{Username: username, Password: string(hashed), Role: model.RoleDirector}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return false, storeErr(ctx, "create user", err)
	}
	s.logger.Info("已创建director账号", "username", username)
	return true, nil
}
