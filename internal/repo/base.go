package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-music-api/internal/domain"
)

// entity 通用 CRUD，具体仓储嵌入后补充各自的查询
type entity[T any] struct{ s *Store }

func (r entity[T]) Create(ctx context.Context, m *T) error {
	return r.s.conn(ctx).Create(m).Error
}

// FindByID 包含已软删记录；查不到返回 nil, nil
func (r entity[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var m T
	err := r.s.conn(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r entity[T]) FindActiveByIDs(ctx context.Context, ids []string) ([]T, error) {
	out := []T{}
	if len(ids) == 0 {
		return out, nil
	}
	err := r.s.conn(ctx).Where("id IN ? AND status = ?", ids, domain.StatusActive).Find(&out).Error
	return out, err
}

func (r entity[T]) Update(ctx context.Context, m *T) error {
	return r.s.conn(ctx).Save(m).Error
}

// list 统一分页 + 软删过滤；searchCol 非空时按 LOWER(col) LIKE 模糊匹配
func (r entity[T]) list(ctx context.Context, q domain.ListQuery, searchCol, order string, scope func(*gorm.DB) *gorm.DB) ([]T, int64, error) {
	tx := r.s.conn(ctx).Model(new(T))
	if !q.IncludeDeleted {
		tx = tx.Where("status = ?", domain.StatusActive)
	}
	if s := strings.TrimSpace(q.Search); s != "" && searchCol != "" {
		tx = tx.Where("LOWER("+searchCol+") LIKE ? ESCAPE '!'", likePattern(s))
	}
	if scope != nil {
		tx = scope(tx)
	}
	return paginate[T](tx, q.Pagination, order)
}

// paginate count 与分页查询共用同一组条件
func paginate[T any](tx *gorm.DB, p domain.Pagination, order string) ([]T, int64, error) {
	tx = tx.Session(&gorm.Session{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := []T{}
	if err := tx.Order(order).Offset(p.Offset()).Limit(p.Limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// likeEscaper 用户输入中的通配符按字面匹配
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func likePattern(s string) string { return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%" }

// link 关联表插入，重复时忽略
func link(tx *gorm.DB, row any) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
}

func findOne[T any](tx *gorm.DB, query string, args ...any) (*T, error) {
	var m T
	err := tx.Where(query, args...).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
