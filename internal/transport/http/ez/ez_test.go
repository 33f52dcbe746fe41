package ez

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/domain"
	"go-music-api/internal/media"
	mdw "go-music-api/internal/transport/http/middleware"
)

func init() { gin.SetMode(gin.TestMode) }

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", domain.ErrNotFound), 404},
		{fmt.Errorf("x: %w", domain.ErrConflict), 409},
		{fmt.Errorf("x: %w", domain.ErrInvalid), 400},
		{fmt.Errorf("x: %w", domain.ErrUnauthorized), 401},
		{fmt.Errorf("x: %w", domain.ErrForbidden), 403},
		{fmt.Errorf("x: %w", domain.ErrUnavailable), 503},
		{&media.RangeError{Header: "bytes=9-", Size: 1}, 416},
		{&AErr{Code: 413, Msg: "big"}, 413},
		{errors.New("boom"), 500},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusOf(tc.err), tc.err.Error())
	}
}

type echoIn struct {
	Name string `json:"name" binding:"required,max=5"`
}

func serve(t *testing.T, a Action[echoIn, echoIn], p *auth.Principal, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	g := r.Group("", func(c *gin.Context) {
		if p != nil {
			mdw.SetPrincipal(c, p)
		}
	})
	RegisterAction(New(g), a)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(a.Method, "/echo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func echo() Action[echoIn, echoIn] {
	return Action[echoIn, echoIn]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Status: http.StatusCreated,
		Handler: func(_ *gin.Context, _ *auth.Principal, in *echoIn) (echoIn, error) {
			return *in, nil
		},
	}
}

func TestRegisterActionBindsAndWraps(t *testing.T) {
	w := serve(t, echo(), nil, `{"name":"abc"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var out struct {
		Code int    `json:"code"`
		Data echoIn `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, 0, out.Code)
	assert.Equal(t, "abc", out.Data.Name)

	w = serve(t, echo(), nil, `{"name":"toolong"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Name failed on max")

	w = serve(t, echo(), nil, `{`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterActionChecksRoles(t *testing.T) {
	a := echo()
	a.Roles = []string{auth.RoleAdmin}
	assert.Equal(t, http.StatusUnauthorized, serve(t, a, nil, `{"name":"a"}`).Code)
	assert.Equal(t, http.StatusForbidden, serve(t, a, &auth.Principal{UserID: "u", Role: "USER"}, `{"name":"a"}`).Code)
	assert.Equal(t, http.StatusCreated, serve(t, a, &auth.Principal{UserID: "u", Role: auth.RoleAdmin}, `{"name":"a"}`).Code)
}

func TestUUIDParam(t *testing.T) {
	r := gin.New()
	r.GET("/x/:id", func(c *gin.Context) {
		id, err := UUIDParam(c, "id")
		if err != nil {
			Fail(c, err)
			return
		}
		c.String(http.StatusOK, id)
	})
	for path, want := range map[string]int{
		"/x/6F1C1F0E-8D4A-4C36-9C39-3F4F1B0F5B10": 200,
		"/x/123":                                  400,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
		if want == 200 {
			assert.Equal(t, "6f1c1f0e-8d4a-4c36-9c39-3f4f1b0f5b10", w.Body.String())
		}
	}
}
