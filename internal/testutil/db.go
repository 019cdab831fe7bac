package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"hermandad/internal/model"
	"hermandad/pkg/database"

	"github.com/jmoiron/sqlx"
)

// NewTestDB 在临时目录中创建带表结构的 SQLite 数据库
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.NewSQLiteConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.EnsureSchema(db); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return db
}

// InsertItem 直接写入一条公告并回填ID
func InsertItem(t *testing.T, db *sqlx.DB, item model.Item) model.Item {
	t.Helper()

	if item.Summary == "" {
		item.Summary = item.Body
	}
	result, err := db.ExecContext(context.Background(),
		`INSERT INTO items (title, summary, body, region, image, created_at, featured, search_text) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Title, item.Summary, item.Body, item.Region, item.Image, item.CreatedAt, item.Featured, item.SearchText())
	if err != nil {
		t.Fatalf("insert item: %v", err)
	}
	item.ID, err = result.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}
	return item
}

// CountItems 返回 items 表的总行数
func CountItems(t *testing.T, db *sqlx.DB) int {
	t.Helper()

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM items`); err != nil {
		t.Fatalf("count items: %v", err)
	}
	return n
}

// FeaturedIDs 返回某地区所有置顶公告的ID
func FeaturedIDs(t *testing.T, db *sqlx.DB, region string) []int64 {
	t.Helper()

	ids := []int64{}
	if err := db.Select(&ids, `SELECT id FROM items WHERE region = ? AND featured = 1 ORDER BY id`, region); err != nil {
		t.Fatalf("featured ids: %v", err)
	}
	return ids
}
