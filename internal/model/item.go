package model

import "strings"

// 地区相关常量
const (
	// RegionAll 表示不按地区过滤
	RegionAll = "Todos"
	// DefaultRegion 发布时未填写地区使用的默认值
	DefaultRegion = RegionAll
)

// Regions 发布表单与筛选栏中提供的地区
var Regions = []string{
	RegionAll,
	"Huari",
	"Huaraz",
	"Carhuaz",
	"Yungay",
	"Recuay",
	"Bolognesi",
	"Pomabamba",
	"Asunción",
	"Lima",
}

// Item 公告（noticia）
type Item struct {
	ID        int64   `db:"id" json:"id"`
	Title     string  `db:"title" json:"title"`
	Summary   string  `db:"summary" json:"summary"`
	Body      string  `db:"body" json:"body"`
	Region    string  `db:"region" json:"region"`
	Image     *string `db:"image" json:"image,omitempty"`
	CreatedAt string  `db:"created_at" json:"created_at"`
	Featured  bool    `db:"featured" json:"featured"`
}

// ImagePath 返回图片相对路径，没有图片时为空字符串
func (i Item) ImagePath() string {
	if i.Image == nil {
		return ""
	}
	return *i.Image
}

// SearchText 搜索用的小写文本，由标题、摘要和正文拼接
func (i Item) SearchText() string {
	return strings.ToLower(i.Title + "\n" + i.Summary + "\n" + i.Body)
}

// Listing 列表页结果
type Listing struct {
	Featured     *Item  `json:"featured"`
	Items        []Item `json:"items"`
	TotalMatches int64  `json:"total_matches"`
	TotalList    int64  `json:"total_list"`
	TotalPages   int    `json:"total_pages"`
	Page         int    `json:"page"`
	PerPage      int    `json:"per_page"`
	Region       string `json:"region"`
	Query        string `json:"query"`
}

// HasPrev 是否存在上一页
func (l *Listing) HasPrev() bool { return l.Page > 1 }

// HasNext 是否存在下一页
func (l *Listing) HasNext() bool { return l.Page < l.TotalPages }

// PrevPage 上一页页码
func (l *Listing) PrevPage() int { return l.Page - 1 }

// NextPage 下一页页码
func (l *Listing) NextPage() int { return l.Page + 1 }

// ItemDetail 详情页结果
type ItemDetail struct {
	Item    Item   `json:"item"`
	Related []Item `json:"related"`
}
