// Package service 业务规则：唯一性、软删/恢复、关联维护、权限判断
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-music-api/internal/domain"
)

type Clock func() time.Time

// lifecycleStore 各实体仓储的公共子集
type lifecycleStore[T any] interface {
	FindByID(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, m *T) error
	HardDelete(ctx context.Context, id string) (bool, error)
}

type lifePtr[T any] interface {
	*T
	Life() *domain.Lifecycle
}

// lifecycle 软删 / 恢复 / 物理删除的通用实现
type lifecycle[T any, P lifePtr[T]] struct {
	what  string
	store lifecycleStore[T]
	now   Clock
}

func notFound(what, id string) error { return fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound) }

// get 只返回有效记录
func (l lifecycle[T, P]) get(ctx context.Context, id string) (*T, error) {
	m, err := l.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil || !P(m).Life().IsActive() {
		return nil, notFound(l.what, id)
	}
	return m, nil
}

// getAny 包含软删记录
func (l lifecycle[T, P]) getAny(ctx context.Context, id string) (*T, error) {
	m, err := l.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, notFound(l.what, id)
	}
	return m, nil
}

func (l lifecycle[T, P]) softDelete(ctx context.Context, id string) error {
	m, err := l.get(ctx, id)
	if err != nil {
		return err
	}
	P(m).Life().MarkDeleted(l.now())
	return l.store.Update(ctx, m)
}

// restore check 在恢复前校验唯一性；已是有效状态时原样返回
func (l lifecycle[T, P]) restore(ctx context.Context, id string, check func(*T) error) (*T, error) {
	m, err := l.getAny(ctx, id)
	if err != nil {
		return nil, err
	}
	if P(m).Life().IsActive() {
		return m, nil
	}
	if check != nil {
		if err := check(m); err != nil {
			return nil, err
		}
	}
	P(m).Life().Restore()
	if err := l.store.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (l lifecycle[T, P]) hardDelete(ctx context.Context, id string) error {
	ok, err := l.store.HardDelete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(l.what, id)
	}
	return nil
}

func required(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%s is required: %w", field, domain.ErrInvalid)
	}
	return v, nil
}

// set 局部更新：nil 表示不修改
func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func listQuery(p domain.Pagination, search string, includeDeleted bool) domain.ListQuery {
	return domain.ListQuery{Pagination: p.Normalize(), Search: search, IncludeDeleted: includeDeleted}
}
