// Package handler 各资源的 HTTP 动作，统一走 ez.RegisterAction
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/domain"
	"go-music-api/internal/transport/http/ez"
)

var admins = []string{auth.RoleAdmin}

// 列表查询：分页 + 可选关键字
type listQuery struct {
	domain.Pagination
	Q string `form:"q"`
}

type none = struct{}

type deleted struct {
	ID string `json:"id"`
}

type cleared struct {
	Removed int64 `json:"removed"`
}

func pageOf[S any, D any](pg domain.Page[S], err error, f func(S) D) (domain.Page[D], error) {
	if err != nil {
		return domain.Page[D]{}, err
	}
	return domain.MapPage(pg, f), nil
}

// one 单实体结果转 DTO
func one[S any, D any](v *S, err error, f func(S) D) (D, error) {
	if err != nil {
		var zero D
		return zero, err
	}
	return f(*v), nil
}

func done(id string, err error) (deleted, error) {
	if err != nil {
		return deleted{}, err
	}
	return deleted{ID: id}, nil
}

func lang(s *string) (*domain.Language, error) {
	if s == nil {
		return nil, nil
	}
	l, err := domain.ParseLanguage(*s)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// withID 先校验路径 :id 再执行
func withID[I any, O any](fn func(c *gin.Context, p *auth.Principal, id string, in *I) (O, error)) func(*gin.Context, *auth.Principal, *I) (O, error) {
	return func(c *gin.Context, p *auth.Principal, in *I) (O, error) {
		id, err := ez.UUIDParam(c, "id")
		if err != nil {
			var zero O
			return zero, err
		}
		return fn(c, p, id, in)
	}
}

// withIDs 路径里还有第二个 uuid（如 :artistId）
func withIDs[O any](sub string, fn func(c *gin.Context, p *auth.Principal, id, subID string) (O, error)) func(*gin.Context, *auth.Principal, *none) (O, error) {
	return withID(func(c *gin.Context, p *auth.Principal, id string, _ *none) (O, error) {
		subID, err := ez.UUIDParam(c, sub)
		if err != nil {
			var zero O
			return zero, err
		}
		return fn(c, p, id, subID)
	})
}

// mountAdminLifecycle 管理员的 DELETE /:id、PATCH /:id/restore、DELETE /:id/hard
func mountAdminLifecycle[S any, D any](e ez.EZ,
	softDelete func(context.Context, string) error,
	restore func(context.Context, string) (*S, error),
	hardDelete func(context.Context, string) error,
	view func(S) D,
) {
	ez.RegisterAction(e, ez.Action[none, deleted]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Roles:  admins,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, _ *none) (deleted, error) {
			return done(id, softDelete(c.Request.Context(), id))
		}),
	})
	ez.RegisterAction(e, ez.Action[none, D]{
		Method: http.MethodPatch,
		Path:   "/:id/restore",
		Binder: ez.BindNone,
		Roles:  admins,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, _ *none) (D, error) {
			v, err := restore(c.Request.Context(), id)
			return one(v, err, view)
		}),
	})
	ez.RegisterAction(e, ez.Action[none, deleted]{
		Method: http.MethodDelete,
		Path:   "/:id/hard",
		Binder: ez.BindNone,
		Roles:  admins,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, _ *none) (deleted, error) {
			return done(id, hardDelete(c.Request.Context(), id))
		}),
	})
}

// mountLists GET "" 只含有效记录，GET /all（管理员）含软删
func mountLists[S any, D any](e ez.EZ,
	list func(ctx context.Context, p domain.Pagination, search string, includeDeleted bool) (domain.Page[S], error),
	view func(S) D,
) {
	h := func(includeDeleted bool) func(*gin.Context, *auth.Principal, *listQuery) (domain.Page[D], error) {
		return func(c *gin.Context, _ *auth.Principal, in *listQuery) (domain.Page[D], error) {
			pg, err := list(c.Request.Context(), in.Pagination, in.Q, includeDeleted)
			return pageOf(pg, err, view)
		}
	}
	ez.RegisterAction(e, ez.Action[listQuery, domain.Page[D]]{
		Method: http.MethodGet, Path: "", Binder: ez.BindQuery, Handler: h(false),
	})
	ez.RegisterAction(e, ez.Action[listQuery, domain.Page[D]]{
		Method: http.MethodGet, Path: "/all", Binder: ez.BindQuery, Roles: admins, Handler: h(true),
	})
}
