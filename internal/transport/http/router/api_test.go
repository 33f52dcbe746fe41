package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/integration/musixmatch"
	"go-music-api/internal/integration/spotify"
	"go-music-api/internal/media"
	"go-music-api/internal/repo"
	"go-music-api/internal/service"
	"go-music-api/internal/testutil"
	"go-music-api/internal/transport/http/router"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type api struct {
	t    *testing.T
	h    http.Handler
	svcs *service.Services
	jwt  *auth.JWTer
	root string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := testutil.NewStore(t)
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	root := t.TempDir()
	svcs := service.New(store, repo.NewRepos(store), service.Options{
		JWT:     jwter,
		Spotify: spotify.New(spotify.Options{}),
		Lyrics:  musixmatch.New(musixmatch.Options{}),
		Media:   media.NewSources(root, nil),
	})
	h := router.NewAPIEngine(router.Deps{JWT: jwter, Services: svcs, RequestTimeout: 5 * time.Second})
	return &api{t: t, h: h, svcs: svcs, jwt: jwter, root: root}
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type page struct {
	Data  []map[string]any `json:"data"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Pages int              `json:"pages"`
	Total int64            `json:"total"`
}

func (a *api) do(method, path, token string, body any, hdr ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	w := httptest.NewRecorder()
	a.h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) (envelope, T) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	var v T
	if len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, &v))
	}
	return env, v
}

func (a *api) token(p auth.Principal) string {
	a.t.Helper()
	tok, _, err := a.jwt.Issue(p)
	require.NoError(a.t, err)
	return tok
}

func (a *api) user(name string) (string, string) {
	a.t.Helper()
	u, err := a.svcs.Users.Register(context.Background(), service.RegisterInput{
		Username: name, Email: name + "@example.com", Password: "secret1",
	})
	require.NoError(a.t, err)
	return u.ID, a.token(auth.Principal{UserID: u.ID, Username: u.Username, Role: string(u.Role)})
}

func (a *api) admin() string {
	a.t.Helper()
	u, err := a.svcs.Users.CreateAdmin(context.Background(), service.RegisterInput{
		Username: "root", Email: "root@example.com", Password: "secret1",
	})
	require.NoError(a.t, err)
	return a.token(auth.Principal{UserID: u.ID, Username: u.Username, Role: auth.RoleAdmin})
}

func ptr[T any](v T) *T { return &v }

func TestHealthAndUnknownRoute(t *testing.T) {
	a := newAPI(t)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/health", "", nil).Code)

	w := a.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	env, _ := decode[map[string]any](t, w)
	assert.Equal(t, 404, env.Code)
}

func TestRegisterLoginAndMe(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"username": "alice", "email": "Alice@Example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	_, u := decode[map[string]any](t, w)
	assert.Equal(t, "alice@example.com", u["email"])
	assert.NotContains(t, u, "passwordHash")
	assert.NotContains(t, u, "password")

	w = a.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"username": "alice", "email": "other@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(http.MethodPost, "/api/users/register", "", map[string]string{"username": "bob"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/api/users/register", "", map[string]string{
		"username": "dj@night", "email": "dj@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/api/users/login", "", map[string]string{"login": "alice", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, "/api/users/login", "", map[string]string{"login": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	_, login := decode[struct {
		Token string         `json:"token"`
		User  map[string]any `json:"user"`
	}](t, w)
	require.NotEmpty(t, login.Token)

	w = a.do(http.MethodGet, "/api/users/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, me := decode[map[string]any](t, w)
	assert.Equal(t, "alice", me["username"])
	assert.Equal(t, "USER", me["role"])

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/users/me", "", nil).Code)

	w = a.do(http.MethodPut, "/api/users/me", login.Token, map[string]string{"photo": "me.png"})
	require.Equal(t, http.StatusOK, w.Code)
	_, me = decode[map[string]any](t, w)
	assert.Equal(t, "me.png", me["photo"])
	assert.Equal(t, "alice", me["username"])
}

func TestBadTokensAreRejectedEverywhere(t *testing.T) {
	a := newAPI(t)

	// 公共接口带了坏 token 也是 401
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/genres", "garbage", nil).Code)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/genres", nil)
	req.Header.Set("Authorization", "Basic abc")
	a.h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired := &auth.JWTer{Secret: a.jwt.Secret, Issuer: a.jwt.Issuer, TTL: time.Minute,
		Now: func() time.Time { return time.Now().Add(-time.Hour) }}
	tok, _, err := expired.Issue(auth.Principal{UserID: "u1", Role: auth.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/genres/all", tok, nil).Code)

	forged := &auth.JWTer{Secret: []byte("other"), Issuer: a.jwt.Issuer, TTL: time.Hour}
	tok, _, err = forged.Issue(auth.Principal{UserID: "u1", Role: auth.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/genres/all", tok, nil).Code)
}

func TestAdminRoutesCheckRole(t *testing.T) {
	a := newAPI(t)
	_, userTok := a.user("carol")
	adminTok := a.admin()

	body := map[string]string{"title": "Jazz"}
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/genres", "", body).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/genres", userTok, body).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/api/users", userTok, nil).Code)

	w := a.do(http.MethodPost, "/api/genres", adminTok, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env, g := decode[map[string]any](t, w)
	assert.Equal(t, 0, env.Code)
	assert.Equal(t, "Jazz", g["title"])
	assert.Equal(t, "active", g["status"])

	w = a.do(http.MethodPost, "/api/genres", adminTok, map[string]string{"title": "jazz"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRoleChangeValidatesEnum(t *testing.T) {
	a := newAPI(t)
	uid, _ := a.user("dave")
	adminTok := a.admin()

	w := a.do(http.MethodPatch, "/api/users/"+uid+"/role", adminTok, map[string]string{"role": "emperor"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPatch, "/api/users/"+uid+"/role", adminTok, map[string]string{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)
	_, u := decode[map[string]any](t, w)
	assert.Equal(t, "ADMIN", u["role"])
}

func TestPaginationBounds(t *testing.T) {
	a := newAPI(t)
	for i := 0; i < 15; i++ {
		_, err := a.svcs.Genres.Create(context.Background(), service.GenreInput{Title: ptr("genre-" + string(rune('a'+i)))})
		require.NoError(t, err)
	}

	w := a.do(http.MethodGet, "/api/genres?page=2&limit=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, p := decode[page](t, w)
	assert.Len(t, p.Data, 5)
	assert.Equal(t, 2, p.Pages)
	assert.EqualValues(t, 15, p.Total)

	w = a.do(http.MethodGet, "/api/genres?page=3&limit=10", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, p = decode[page](t, w)
	assert.NotNil(t, p.Data)
	assert.Empty(t, p.Data)

	w = a.do(http.MethodGet, "/api/genres", "", nil)
	_, p = decode[page](t, w)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)

	for _, q := range []string{"limit=101", "limit=0", "page=0", "page=x"} {
		assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/genres?"+q, "", nil).Code, q)
	}
}

func TestPathIDsMustBeUUIDs(t *testing.T) {
	a := newAPI(t)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/genres/not-a-uuid", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/songs/123/stream", "", nil).Code)
	missing := "6f1c1f0e-8d4a-4c36-9c39-3f4f1b0f5b10"
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/genres/"+missing, "", nil).Code)
}

func TestSoftDeleteAndRestoreOverHTTP(t *testing.T) {
	a := newAPI(t)
	adminTok := a.admin()
	ar, err := a.svcs.Artists.Create(context.Background(), service.ArtistInput{Name: ptr("Nina")})
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, a.do(http.MethodDelete, "/api/artists/"+ar.ID, adminTok, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/artists/"+ar.ID, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/api/artists/"+ar.ID, adminTok, nil).Code)

	_, p := decode[page](t, a.do(http.MethodGet, "/api/artists", "", nil))
	assert.Empty(t, p.Data)
	_, p = decode[page](t, a.do(http.MethodGet, "/api/artists/all", adminTok, nil))
	require.Len(t, p.Data, 1)
	assert.Equal(t, "deleted", p.Data[0]["status"])

	w := a.do(http.MethodPatch, "/api/artists/"+ar.ID+"/restore", adminTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/artists/"+ar.ID, "", nil).Code)

	require.Equal(t, http.StatusOK, a.do(http.MethodDelete, "/api/artists/"+ar.ID+"/hard", adminTok, nil).Code)
	_, p = decode[page](t, a.do(http.MethodGet, "/api/artists/all", adminTok, nil))
	assert.Empty(t, p.Data)
}

func TestSongArtistLinkIsIdempotentOverHTTP(t *testing.T) {
	a := newAPI(t)
	adminTok := a.admin()
	ar, err := a.svcs.Artists.Create(context.Background(), service.ArtistInput{Name: ptr("Duo")})
	require.NoError(t, err)
	w := a.do(http.MethodPost, "/api/songs", adminTok, map[string]any{"title": "One", "fileUrl": "one.mp3"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	_, so := decode[map[string]any](t, w)
	id := so["id"].(string)

	for i := 0; i < 2; i++ {
		w = a.do(http.MethodPost, "/api/songs/"+id+"/artists/"+ar.ID, adminTok, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	_, so = decode[map[string]any](t, w)
	assert.Len(t, so["artists"], 1)

	w = a.do(http.MethodPost, "/api/songs", adminTok, map[string]any{"title": "Two", "fileUrl": "two.mp3", "albumId": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStreamRanges(t *testing.T) {
	a := newAPI(t)
	data := bytes.Repeat([]byte("0123456789"), 100)
	require.NoError(t, os.WriteFile(filepath.Join(a.root, "track.mp3"), data, 0o644))
	so, err := a.svcs.Songs.Create(context.Background(), service.SongInput{Title: ptr("Track"), FileURL: ptr("track.mp3")})
	require.NoError(t, err)
	path := "/api/songs/" + so.ID + "/stream"

	w := a.do(http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1000", w.Header().Get("Content-Length"))
	assert.Equal(t, "audio/mpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
	assert.Equal(t, data, w.Body.Bytes())

	w = a.do(http.MethodGet, path, "", nil, "Range", "bytes=0-99")
	require.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "100", w.Header().Get("Content-Length"))
	assert.Equal(t, "bytes 0-99/1000", w.Header().Get("Content-Range"))
	assert.Equal(t, data[:100], w.Body.Bytes())

	w = a.do(http.MethodGet, path, "", nil, "Range", "bytes=990-")
	require.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "bytes 990-999/1000", w.Header().Get("Content-Range"))
	assert.Equal(t, data[990:], w.Body.Bytes())

	w = a.do(http.MethodGet, path, "", nil, "Range", "bytes=1000-1005")
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, w.Code)
	assert.Equal(t, "bytes */1000", w.Header().Get("Content-Range"))

	require.NoError(t, a.svcs.Songs.SoftDelete(context.Background(), so.ID))
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, path, "", nil).Code)
}

func TestPlaylistVisibility(t *testing.T) {
	a := newAPI(t)
	_, ownerTok := a.user("owner")
	_, otherTok := a.user("other")
	adminTok := a.admin()

	w := a.do(http.MethodPost, "/api/playlists", ownerTok, map[string]any{"name": "Mine"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	_, pl := decode[map[string]any](t, w)
	path := "/api/playlists/" + pl["id"].(string)
	assert.Equal(t, false, pl["isPublic"])

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, path, "", nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, path, otherTok, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, path, ownerTok, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, path, adminTok, nil).Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPut, path, otherTok, map[string]any{"name": "x"}).Code)

	require.Equal(t, http.StatusOK, a.do(http.MethodPut, path, ownerTok, map[string]any{"isPublic": true}).Code)
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, path, "", nil).Code)

	_, p := decode[page](t, a.do(http.MethodGet, "/api/playlists", otherTok, nil))
	assert.Empty(t, p.Data)
	_, p = decode[page](t, a.do(http.MethodGet, "/api/playlists", ownerTok, nil))
	assert.Len(t, p.Data, 1)
}

func TestRecentTracksOverHTTP(t *testing.T) {
	a := newAPI(t)
	_, tok := a.user("listener")
	so, err := a.svcs.Songs.Create(context.Background(), service.SongInput{Title: ptr("Loop"), FileURL: ptr("loop.mp3")})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/recent-tracks", "", map[string]string{"songId": so.ID}).Code)
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/api/recent-tracks", tok, map[string]string{"songId": so.ID}).Code)
	}
	_, p := decode[page](t, a.do(http.MethodGet, "/api/recent-tracks", tok, nil))
	require.Len(t, p.Data, 1)
	assert.EqualValues(t, 2, p.Data[0]["playCount"])

	w := a.do(http.MethodGet, "/api/songs/most-played?limit=5", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, top := decode[[]map[string]any](t, w)
	require.Len(t, top, 1)
	assert.EqualValues(t, 2, top[0]["plays"])
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/songs/most-played?limit=0", "", nil).Code)

	require.Equal(t, http.StatusOK, a.do(http.MethodDelete, "/api/recent-tracks/"+so.ID, tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/api/recent-tracks/"+so.ID, tok, nil).Code)
}

func TestLyricsLanguageValidated(t *testing.T) {
	a := newAPI(t)
	adminTok := a.admin()
	so, err := a.svcs.Songs.Create(context.Background(), service.SongInput{Title: ptr("Words"), FileURL: ptr("w.mp3")})
	require.NoError(t, err)

	body := map[string]any{"songId": so.ID, "language": "klingon", "lines": []map[string]any{{"text": "a"}}}
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/lyrics", adminTok, body).Code)

	body["language"] = "en"
	w := a.do(http.MethodPost, "/api/lyrics", adminTok, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	_, l := decode[map[string]any](t, w)
	assert.Equal(t, "EN", l["language"])
	assert.Equal(t, "manual", l["source"])

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/lyrics", adminTok, body).Code)

	w = a.do(http.MethodGet, "/api/songs/"+so.ID+"/lyrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, ls := decode[[]map[string]any](t, w)
	assert.Len(t, ls, 1)

	// 未配置 Musixmatch
	w = a.do(http.MethodPost, "/api/lyrics/fetch", adminTok, map[string]any{"songId": so.ID})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSearchAndSpotifyWithoutCredentials(t *testing.T) {
	a := newAPI(t)
	_, err := a.svcs.Songs.Create(context.Background(), service.SongInput{Title: ptr("Blue Moon"), FileURL: ptr("b.mp3")})
	require.NoError(t, err)

	w := a.do(http.MethodGet, "/api/search?q=blue", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, res := decode[map[string][]map[string]any](t, w)
	assert.Len(t, res["songs"], 1)
	assert.NotNil(t, res["artists"])
	assert.NotNil(t, res["albums"])
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/search", "", nil).Code)

	w = a.do(http.MethodGet, "/api/spotify/artists/0OdUWJ0sBjDrqHygGUXeCF", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/spotify/artists/bad-id!", "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/spotify/search?q=x&limit=51", "", nil).Code)
	assert.True(t, strings.HasPrefix(a.do(http.MethodGet, "/metrics", "", nil).Header().Get("Content-Type"), "text/plain"))
}
