package ez

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/domain"
	"go-music-api/internal/media"
	mdw "go-music-api/internal/transport/http/middleware"
	resp "go-music-api/internal/transport/http/response"
	"go-music-api/pkg/utils"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 统一错误对象（配合 resp.Error(int, msg)）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string   // "GET" | "POST" | "PUT" | "PATCH" | "DELETE"
	Path    string   // 例："/login"、"/:id/restore"
	Binder  Binder   // 绑定方式
	Auth    bool     // 是否要求登录
	Roles   []string // 限定角色（可选，隐含 Auth）
	Status  int      // 成功时的 HTTP 状态，默认 200
	Handler func(c *gin.Context, p *auth.Principal, in *I) (O, error)
}

func (a Action[I, O]) allowed(p *auth.Principal) error {
	if !a.Auth && len(a.Roles) == 0 {
		return nil
	}
	if p == nil {
		return Unauthorized("authentication required")
	}
	if len(a.Roles) == 0 {
		return nil
	}
	for _, r := range a.Roles {
		if p.Role == r {
			return nil
		}
	}
	return Forbidden("insufficient role")
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		p := mdw.PrincipalFrom(c)
		if err := a.allowed(p); err != nil {
			Fail(c, err)
			return
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			Fail(c, bindError(bindErr))
			return
		}

		// 3) 执行
		out, err := a.Handler(c, p, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		resp.Success(c, a.Status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

func bindError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return &AErr{Code: resp.CodeTooLarge, Msg: "request body too large", Err: err}
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		parts := make([]string, 0, len(ve))
		for _, fe := range ve {
			parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
		return &AErr{Code: resp.CodeBadRequest, Msg: strings.Join(parts, "; "), Err: err}
	}
	return &AErr{Code: resp.CodeBadRequest, Msg: err.Error(), Err: err}
}

// StatusOf 业务错误 → HTTP 状态码，集中在这里
func StatusOf(err error) int {
	var ae *AErr
	switch {
	case errors.As(err, &ae):
		return ae.Code
	case errors.Is(err, domain.ErrNotFound):
		return resp.CodeNotFound
	case errors.Is(err, domain.ErrConflict):
		return resp.CodeConflict
	case errors.Is(err, domain.ErrInvalid):
		return resp.CodeBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return resp.CodeUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return resp.CodeForbidden
	case errors.Is(err, domain.ErrUnavailable):
		return resp.CodeUnavailable
	case errors.Is(err, media.ErrRangeNotSatisfiable):
		return resp.CodeRangeNotSatisfiable
	}
	return resp.CodeServerError
}

// Fail 写出错误响应并记入 c.Errors
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	resp.Abort(c, StatusOf(err), err.Error())
}

// UUIDParam 路径参数必须是 UUID
func UUIDParam(c *gin.Context, name string) (string, error) {
	v := strings.TrimSpace(c.Param(name))
	if !utils.IsUUID(v) {
		return "", BadRequest(fmt.Sprintf("%s must be a uuid", name))
	}
	return strings.ToLower(v), nil
}
