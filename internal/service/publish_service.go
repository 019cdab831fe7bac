package service

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"hermandad/internal/cache"
	"hermandad/internal/model"
	"hermandad/internal/repository"
	"hermandad/pkg/logger"
	"hermandad/pkg/upload"

	"github.com/go-playground/validator/v10"
)

// 摘要截断
const (
	SummaryBudget = 220
	Ellipsis      = "..."
)

// CreatedAtLayout created_at 字段的格式
const CreatedAtLayout = "2006-01-02 15:04:05"

// UploadedFile 上传的图片
type UploadedFile struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// PublishInput 发布表单
type PublishInput struct {
	Title     string        `form:"titulo" validate:"required"`
	Summary   string        `form:"resumen"`
	Body      string        `form:"contenido" validate:"required"`
	Region    string        `form:"provincia"`
	ImagePath string        `form:"imagen_path"`
	Featured  bool          `form:"-"`
	Upload    *UploadedFile `form:"-"`
}

// PublishService 公告发布服务
type PublishService struct {
	itemRepo     repository.TransactionalItemRepository
	storage      *upload.Storage
	cache        cache.Cache
	validate     *validator.Validate
	location     *time.Location
	now          func() time.Time
	storeTimeout time.Duration
	logger       *logger.Logger
}

// NewPublishService 创建发布服务，时区无法加载时使用UTC
func NewPublishService(itemRepo repository.TransactionalItemRepository, storage *upload.Storage, c cache.Cache, timezone string, storeTimeout time.Duration, logger *logger.Logger) *PublishService {
	if c == nil {
		c = cache.Nop{}
	}

	location, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warn("无法加载时区，使用UTC", "timezone", timezone, "error", err)
		location = time.UTC
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("form")
	})

	return &PublishService{
		itemRepo:     itemRepo,
		storage:      storage,
		cache:        c,
		validate:     v,
		location:     location,
		now:          time.Now,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

// Publish 校验并保存一条新公告，返回新公告
func (s *PublishService) Publish(ctx context.Context, identity *model.Identity, input PublishInput) (*model.Item, error) {
	if !identity.HasRole(model.RoleDirector) {
		return nil, ErrForbidden
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Body = strings.TrimSpace(input.Body)
	input.Summary = strings.TrimSpace(input.Summary)
	input.Region = strings.TrimSpace(input.Region)
	if input.Region == "" {
		input.Region = model.DefaultRegion
	} else if repository.IsAllRegions(input.Region) {
		input.Region = model.RegionAll
	}

	if err := s.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return nil, &ValidationError{Fields: fields}
		}
		return nil, err
	}

	var image *string
	if input.Upload != nil {
		if err := s.storage.Validate(input.Upload.Filename, input.Upload.Size); err != nil {
			return nil, err
		}
	} else if path, ok := upload.NormalizeManualPath(input.ImagePath); ok {
		image = &path
	}

	summary := input.Summary
	if summary == "" {
		summary = input.Body
	}

	now := s.now().In(s.location)
	item := &model.Item{
		Title:     input.Title,
		Summary:   TruncateSummary(summary, SummaryBudget),
		Body:      input.Body,
		Region:    input.Region,
		Image:     image,
		CreatedAt: now.Format(CreatedAtLayout),
		Featured:  input.Featured,
	}

	var saved string
	if input.Upload != nil {
		rel, err := s.storage.Save(input.Upload.Filename, input.Upload.Reader, now)
		if err != nil {
			if errors.Is(err, upload.ErrTooLarge) {
				return nil, err
			}
			s.logger.Error("保存上传图片失败", "filename", input.Upload.Filename, "error", err)
			return nil, storeErr(ctx, "save upload", err)
		}
		saved = rel
		item.Image = &saved
	}

	if err := s.insert(ctx, item); err != nil {
		if saved != "" {
			if rmErr := s.storage.Remove(saved); rmErr != nil {
				s.logger.Warn("删除上传图片失败", "path", saved, "error", rmErr)
			}
		}
		s.logger.Error("发布公告失败", "region", item.Region, "error", err)
		return nil, err
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("清除公告缓存失败", "error", err)
	}

	s.logger.Info("公告已发布", "id", item.ID, "region", item.Region, "featured", item.Featured, "author", identity.Username)
	return item, nil
}

// insert 在同一个事务中清除同地区置顶并写入新公告
func (s *PublishService) insert(ctx context.Context, item *model.Item) error {
	ctx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	tx, err := s.itemRepo.BeginTx(ctx)
	if err != nil {
		return storeErr(ctx, "begin tx", err)
	}
	defer tx.Rollback()

	txRepo := s.itemRepo.WithTx(tx)
	if item.Featured && !repository.IsAllRegions(item.Region) {
		if _, err := txRepo.ClearFeatured(ctx, item.Region); err != nil {
			return storeErr(ctx, "clear featured", err)
		}
	}
	if err := txRepo.Create(ctx, item); err != nil {
		return storeErr(ctx, "insert item", err)
	}
	if err := tx.Commit(); err != nil {
		return storeErr(ctx, "commit", err)
	}
	return nil
}

// TruncateSummary 超过 budget 个字符时截断并追加省略号
func TruncateSummary(text string, budget int) string {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) <= budget {
		return text
	}
	runes := []rune(text)
	return string(runes[:budget]) + Ellipsis
}
