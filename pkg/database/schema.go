package database

import (
	"fmt"

	"hermandad/internal/model"

	"github.com/jmoiron/sqlx"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'miembro'
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		summary TEXT NOT NULL,
		body TEXT NOT NULL,
		region TEXT NOT NULL,
		image TEXT NULL,
		created_at TEXT NOT NULL,
		featured INTEGER NOT NULL DEFAULT 0,
		search_text TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_items_region_created ON items (region, created_at, id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_region_featured ON items (region, featured, created_at, id)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(64) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT 'miembro'
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS items (
		id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		summary TEXT NOT NULL,
		body MEDIUMTEXT NOT NULL,
		region VARCHAR(64) NOT NULL,
		image VARCHAR(255) NULL,
		created_at VARCHAR(19) NOT NULL,
		featured TINYINT(1) NOT NULL DEFAULT 0,
		search_text MEDIUMTEXT NOT NULL,
		KEY idx_items_region_created (region, created_at, id),
		KEY idx_items_region_featured (region, featured, created_at, id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema 创建 users 和 items 表（已存在则跳过）
func EnsureSchema(db *sqlx.DB) error {
	statements := sqliteSchema
	if db.DriverName() == "mysql" {
		statements = mysqlSchema
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("创建表结构失败: %w", err)
		}
	}
	return upgradeSearchText(db)
}

// upgradeSearchText 为旧库补上 search_text 列并回填
func upgradeSearchText(db *sqlx.DB) error {
	if _, err := db.Exec(`SELECT search_text FROM items LIMIT 0`); err != nil {
		column := `search_text TEXT NOT NULL DEFAULT ''`
		if db.DriverName() == "mysql" {
			column = `search_text MEDIUMTEXT NOT NULL`
		}
		if _, err := db.Exec(`ALTER TABLE items ADD COLUMN ` + column); err != nil {
			return fmt.Errorf("添加 search_text 列失败: %w", err)
		}
	}

	var items []model.Item
	if err := db.Select(&items, `SELECT id, title, summary, body FROM items WHERE search_text = ''`); err != nil {
		return fmt.Errorf("读取待回填公告失败: %w", err)
	}
	for _, item := range items {
		if _, err := db.Exec(`UPDATE items SET search_text = ? WHERE id = ?`, item.SearchText(), item.ID); err != nil {
			return fmt.Errorf("回填 search_text 失败: %w", err)
		}
	}
	return nil
}
