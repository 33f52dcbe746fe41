package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/domain"
	"go-music-api/internal/dto"
	"go-music-api/internal/service"
	"go-music-api/internal/transport/http/ez"
)

type UserHandler struct{ svc *service.UserService }

func NewUserHandler(svc *service.UserService) *UserHandler { return &UserHandler{svc: svc} }

func (*UserHandler) Priority() int { return 10 }

type registerIn struct {
	Username string `json:"username" binding:"required,min=3,max=64,excludes=@"`
	Email    string `json:"email"    binding:"required,email,max=191"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Photo    string `json:"photo"    binding:"omitempty,max=512"`
}

type loginIn struct {
	Login    string `json:"login"    binding:"required"` // 用户名或邮箱
	Password string `json:"password" binding:"required"`
}

type userUpdateIn struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=64,excludes=@"`
	Email    *string `json:"email"    binding:"omitempty,email,max=191"`
	Password *string `json:"password" binding:"omitempty,min=6,max=72"`
	Photo    *string `json:"photo"    binding:"omitempty,max=512"`
}

type roleIn struct {
	Role string `json:"role" binding:"required"`
}

func (h *UserHandler) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/users"))

	ez.RegisterAction(e, ez.Action[registerIn, dto.User]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *auth.Principal, in *registerIn) (dto.User, error) {
			u, err := h.svc.Register(c.Request.Context(), service.RegisterInput{
				Username: in.Username, Email: in.Email, Password: in.Password, Photo: in.Photo,
			})
			return one(u, err, dto.FromUser)
		},
	})

	ez.RegisterAction(e, ez.Action[loginIn, dto.Login]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *auth.Principal, in *loginIn) (dto.Login, error) {
			res, err := h.svc.Login(c.Request.Context(), in.Login, in.Password)
			if err != nil {
				return dto.Login{}, err
			}
			return dto.FromLogin(res), nil
		},
	})

	ez.RegisterAction(e, ez.Action[none, dto.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, _ *none) (dto.User, error) {
			u, err := h.svc.Get(c.Request.Context(), p.UserID)
			return one(u, err, dto.FromUser)
		},
	})

	ez.RegisterAction(e, ez.Action[userUpdateIn, dto.User]{
		Method: http.MethodPut,
		Path:   "/me",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, p *auth.Principal, in *userUpdateIn) (dto.User, error) {
			u, err := h.svc.Update(c.Request.Context(), p.UserID, service.UpdateUserInput{
				Username: in.Username, Email: in.Email, Password: in.Password, Photo: in.Photo,
			})
			return one(u, err, dto.FromUser)
		},
	})

	list := func(includeDeleted bool) func(*gin.Context, *auth.Principal, *listQuery) (domain.Page[dto.User], error) {
		return func(c *gin.Context, _ *auth.Principal, in *listQuery) (domain.Page[dto.User], error) {
			pg, err := h.svc.List(c.Request.Context(), in.Pagination, in.Q, includeDeleted)
			return pageOf(pg, err, dto.FromUser)
		}
	}
	ez.RegisterAction(e, ez.Action[listQuery, domain.Page[dto.User]]{
		Method: http.MethodGet, Path: "", Binder: ez.BindQuery, Roles: admins, Handler: list(false),
	})
	ez.RegisterAction(e, ez.Action[listQuery, domain.Page[dto.User]]{
		Method: http.MethodGet, Path: "/all", Binder: ez.BindQuery, Roles: admins, Handler: list(true),
	})

	ez.RegisterAction(e, ez.Action[none, dto.User]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, _ *none) (dto.User, error) {
			u, err := h.svc.Get(c.Request.Context(), id)
			return one(u, err, dto.FromUser)
		}),
	})

	ez.RegisterAction(e, ez.Action[roleIn, dto.User]{
		Method: http.MethodPatch,
		Path:   "/:id/role",
		Binder: ez.BindJSON,
		Roles:  admins,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, in *roleIn) (dto.User, error) {
			role, err := domain.ParseRole(in.Role)
			if err != nil {
				return dto.User{}, err
			}
			u, err := h.svc.ChangeRole(c.Request.Context(), id, role)
			return one(u, err, dto.FromUser)
		}),
	})

	// 本人或管理员
	ez.RegisterAction(e, ez.Action[none, deleted]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: withID(func(c *gin.Context, p *auth.Principal, id string, _ *none) (deleted, error) {
			return done(id, h.svc.SoftDelete(c.Request.Context(), p, id))
		}),
	})

	ez.RegisterAction(e, ez.Action[none, dto.User]{
		Method: http.MethodPatch,
		Path:   "/:id/restore",
		Binder: ez.BindNone,
		Roles:  admins,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, _ *none) (dto.User, error) {
			u, err := h.svc.Restore(c.Request.Context(), id)
			return one(u, err, dto.FromUser)
		}),
	})

	ez.RegisterAction(e, ez.Action[none, deleted]{
		Method: http.MethodDelete,
		Path:   "/:id/hard",
		Binder: ez.BindNone,
		Roles:  admins,
		Handler: withID(func(c *gin.Context, _ *auth.Principal, id string, _ *none) (deleted, error) {
			return done(id, h.svc.HardDelete(c.Request.Context(), id))
		}),
	})
}
