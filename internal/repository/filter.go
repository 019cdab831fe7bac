package repository

import (
	"strings"

	"hermandad/internal/model"
)

// Predicate 参数化的 WHERE 条件，Clause 中只包含占位符，用户输入只出现在 Args 中
type Predicate struct {
	Clause string
	Args   []interface{}
}

// likeEscaper 转义 LIKE 通配符，配合 ESCAPE '!' 使用
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// NewItemFilter 根据地区与搜索关键字构建公告过滤条件
func NewItemFilter(region, query string) Predicate {
	var p Predicate

	region = strings.TrimSpace(region)
	if region != "" && !IsAllRegions(region) {
		p = p.And("region = ?", region)
	}

	query = strings.TrimSpace(query)
	if query != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
		// 在 Go 中小写，SQLite 的 LOWER() 只处理 ASCII
		p = p.And("search_text LIKE ? ESCAPE '!'", like)
	}

	return p
}

// IsAllRegions 判断是否为“全部地区”标记（不区分大小写）
func IsAllRegions(region string) bool {
	return strings.EqualFold(strings.TrimSpace(region), model.RegionAll)
}

// And 返回追加了一个条件的新 Predicate，原值不变
func (p Predicate) And(clause string, args ...interface{}) Predicate {
	next := Predicate{Args: make([]interface{}, 0, len(p.Args)+len(args))}
	next.Args = append(next.Args, p.Args...)
	next.Args = append(next.Args, args...)
	if p.Clause == "" {
		next.Clause = clause
	} else {
		next.Clause = p.Clause + " AND " + clause
	}
	return next
}

// Where 返回可以直接拼接在 WHERE 之后的条件
func (p Predicate) Where() string {
	if p.Clause == "" {
		return "1=1"
	}
	return p.Clause
}
