package repository

import (
	"context"
	"database/sql"
	"errors"

	"hermandad/internal/model"

	"github.com/jmoiron/sqlx"
)

const itemColumns = "id, title, summary, body, region, image, created_at, featured"

// 按发布时间倒序，同一时间按ID倒序
const recencyOrder = "ORDER BY created_at DESC, id DESC"

// ItemRepository 公告仓库接口
type ItemRepository interface {
	Count(ctx context.Context, p Predicate) (int64, error)
	FindFirst(ctx context.Context, p Predicate) (*model.Item, error)
	List(ctx context.Context, p Predicate, limit, offset int) ([]model.Item, error)
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	Related(ctx context.Context, item *model.Item, limit int) ([]model.Item, error)
	ClearFeatured(ctx context.Context, region string) (int64, error)
	Create(ctx context.Context, item *model.Item) error
}

// TransactionalItemRepository 扩展了ItemRepository以支持事务
type TransactionalItemRepository interface {
	ItemRepository
	BeginTx(ctx context.Context) (*sqlx.Tx, error)
	WithTx(tx *sqlx.Tx) ItemRepository
}

// ErrItemNotFound 公告不存在
var ErrItemNotFound = errors.New("item not found")

type itemRepository struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

// NewItemRepository 创建公告仓库实例
func NewItemRepository(db *sqlx.DB) TransactionalItemRepository {
	return &itemRepository{db: db}
}

// BeginTx 开始一个新的事务
func (r *itemRepository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

// WithTx 返回在事务中操作的仓库
func (r *itemRepository) WithTx(tx *sqlx.Tx) ItemRepository {
	return &itemRepository{db: r.db, tx: tx}
}

func (r *itemRepository) ext() sqlx.ExtContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// Count 统计满足条件的公告数量
func (r *itemRepository) Count(ctx context.Context, p Predicate) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM items WHERE " + p.Where()
	if err := sqlx.GetContext(ctx, r.ext(), &count, query, p.Args...); err != nil {
		return 0, err
	}
	return count, nil
}

// FindFirst 返回满足条件的最新一条公告，没有时返回 nil
func (r *itemRepository) FindFirst(ctx context.Context, p Predicate) (*model.Item, error) {
	var item model.Item
	query := "SELECT " + itemColumns + " FROM items WHERE " + p.Where() + " " + recencyOrder + " LIMIT 1"
	err := sqlx.GetContext(ctx, r.ext(), &item, query, p.Args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// List 分页获取满足条件的公告
func (r *itemRepository) List(ctx context.Context, p Predicate, limit, offset int) ([]model.Item, error) {
	items := []model.Item{}
	query := "SELECT " + itemColumns + " FROM items WHERE " + p.Where() + " " + recencyOrder + " LIMIT ? OFFSET ?"
	args := append(append([]interface{}{}, p.Args...), limit, offset)
	if err := sqlx.SelectContext(ctx, r.ext(), &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

// GetByID 根据ID获取公告
func (r *itemRepository) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	var item model.Item
	query := "SELECT " + itemColumns + " FROM items WHERE id = ?"
	err := sqlx.GetContext(ctx, r.ext(), &item, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Related 获取同地区的其他公告
func (r *itemRepository) Related(ctx context.Context, item *model.Item, limit int) ([]model.Item, error) {
	p := Predicate{}.And("region = ?", item.Region).And("id <> ?", item.ID)
	return r.List(ctx, p, limit, 0)
}

// ClearFeatured 取消某地区所有公告的置顶标记
func (r *itemRepository) ClearFeatured(ctx context.Context, region string) (int64, error) {
	result, err := r.ext().ExecContext(ctx, "UPDATE items SET featured = 0 WHERE region = ? AND featured = 1", region)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Create 新增公告
func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	query := `INSERT INTO items (title, summary, body, region, image, created_at, featured, search_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.ext().ExecContext(ctx, query,
		item.Title, item.Summary, item.Body, item.Region, item.Image, item.CreatedAt, item.Featured, item.SearchText())
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = id
	return nil
}
