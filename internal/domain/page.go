package domain

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination 1 起始页码；limit 超界由 binding 拒绝
type Pagination struct {
	Page  int `form:"page,default=1"   json:"page"  binding:"min=1"`
	Limit int `form:"limit,default=10" json:"limit" binding:"min=1,max=100"`
}

func (p Pagination) Offset() int { return (p.Page - 1) * p.Limit }

// Normalize 兜底非法值（非 HTTP 入口调用时使用）
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		p.Limit = DefaultLimit
	}
	return p
}

// ListQuery 仓储层列表查询条件
type ListQuery struct {
	Pagination
	Search         string
	IncludeDeleted bool
}

type Page[T any] struct {
	Data  []T   `json:"data"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
	Total int64 `json:"total"`
}

func NewPage[T any](items []T, p Pagination, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Page[T]{Data: items, Page: p.Page, Limit: p.Limit, Pages: pages, Total: total}
}

func MapPage[S any, D any](in Page[S], f func(S) D) Page[D] {
	out := make([]D, 0, len(in.Data))
	for _, v := range in.Data {
		out = append(out, f(v))
	}
	return Page[D]{Data: out, Page: in.Page, Limit: in.Limit, Pages: in.Pages, Total: in.Total}
}
