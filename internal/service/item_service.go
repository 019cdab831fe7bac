package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"hermandad/internal/cache"
	"hermandad/internal/model"
	"hermandad/internal/repository"
	"hermandad/pkg/logger"
)

// 分页参数
const (
	DefaultPerPage = 9
	MaxPerPage     = 30
	RelatedLimit   = 6
)

// ListParams 列表查询参数
type ListParams struct {
	Region  string
	Query   string
	Page    int
	PerPage int
}

// normalize 补全默认值并限制每页数量
func (p ListParams) normalize() ListParams {
	p.Region = strings.TrimSpace(p.Region)
	if p.Region == "" || repository.IsAllRegions(p.Region) {
		p.Region = model.RegionAll
	}
	p.Query = strings.TrimSpace(p.Query)
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PerPage < 1:
		p.PerPage = DefaultPerPage
	case p.PerPage > MaxPerPage:
		p.PerPage = MaxPerPage
	}
	return p
}

// ItemService 公告查询服务
type ItemService struct {
	itemRepo     repository.ItemRepository
	cache        cache.Cache
	storeTimeout time.Duration
	logger       *logger.Logger
}

// NewItemService 创建公告查询服务实例
func NewItemService(itemRepo repository.ItemRepository, c cache.Cache, storeTimeout time.Duration, logger *logger.Logger) *ItemService {
	if c == nil {
		c = cache.Nop{}
	}
	return &ItemService{
		itemRepo:     itemRepo,
		cache:        c,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

// List 返回置顶公告与分页列表
func (s *ItemService) List(ctx context.Context, params ListParams) (*model.Listing, error) {
	params = params.normalize()

	// 代数必须在读库之前取得，读库期间发生的发布会让本次写入的条目失效
	gen, cacheable := s.cache.Generation(ctx)
	cacheKey := cache.ListingKey(gen, params.Region, params.Query, params.Page, params.PerPage)
	if cacheable {
		if listing, ok := s.cache.GetListing(ctx, cacheKey); ok {
			return listing, nil
		}
	}

	ctx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	base := repository.NewItemFilter(params.Region, params.Query)

	total, err := s.itemRepo.Count(ctx, base)
	if err != nil {
		s.logger.Error("统计公告数量失败", "error", err)
		return nil, storeErr(ctx, "count items", err)
	}

	listing := &model.Listing{
		Items:        []model.Item{},
		TotalMatches: total,
		TotalPages:   1,
		Page:         1,
		PerPage:      params.PerPage,
		Region:       params.Region,
		Query:        params.Query,
	}
	if total == 0 {
		if cacheable {
			s.cache.SetListing(ctx, cacheKey, listing)
		}
		return listing, nil
	}

	featured, err := s.itemRepo.FindFirst(ctx, base.And("featured = 1"))
	if err != nil {
		s.logger.Error("获取置顶公告失败", "error", err)
		return nil, storeErr(ctx, "find featured", err)
	}
	if featured == nil {
		// 没有置顶时使用最新的一条
		featured, err = s.itemRepo.FindFirst(ctx, base)
		if err != nil {
			s.logger.Error("获取最新公告失败", "error", err)
			return nil, storeErr(ctx, "find latest", err)
		}
	}
	listing.Featured = featured

	listPredicate := base
	if featured != nil {
		listPredicate = base.And("id <> ?", featured.ID)
	}

	listTotal, err := s.itemRepo.Count(ctx, listPredicate)
	if err != nil {
		s.logger.Error("统计公告数量失败", "error", err)
		return nil, storeErr(ctx, "count list", err)
	}
	listing.TotalList = listTotal
	listing.TotalPages = TotalPages(listTotal, params.PerPage)
	listing.Page = min(params.Page, listing.TotalPages)

	items, err := s.itemRepo.List(ctx, listPredicate, params.PerPage, (listing.Page-1)*params.PerPage)
	if err != nil {
		s.logger.Error("获取公告列表失败", "error", err)
		return nil, storeErr(ctx, "list items", err)
	}
	listing.Items = items

	if cacheable {
		s.cache.SetListing(ctx, cacheKey, listing)
	}
	return listing, nil
}

// Detail 返回公告详情及同地区的相关公告
func (s *ItemService) Detail(ctx context.Context, id int64) (*model.ItemDetail, error) {
	gen, cacheable := s.cache.Generation(ctx)
	cacheKey := cache.DetailKey(gen, id)
	if cacheable {
		if detail, ok := s.cache.GetDetail(ctx, cacheKey); ok {
			return detail, nil
		}
	}

	ctx, cancel := withStoreTimeout(ctx, s.storeTimeout)
	defer cancel()

	item, err := s.itemRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrItemNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error("获取公告详情失败", "id", id, "error", err)
		return nil, storeErr(ctx, "get item", err)
	}

	related, err := s.itemRepo.Related(ctx, item, RelatedLimit)
	if err != nil {
		s.logger.Error("获取相关公告失败", "id", id, "error", err)
		return nil, storeErr(ctx, "related items", err)
	}

	detail := &model.ItemDetail{Item: *item, Related: related}
	if cacheable {
		s.cache.SetDetail(ctx, cacheKey, detail)
	}
	return detail, nil
}

// TotalPages 计算总页数，最少为1
func TotalPages(total int64, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

func withStoreTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
