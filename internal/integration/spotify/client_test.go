package spotify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeSpotify(t *testing.T, tokenCalls *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "id" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			h(w, r)
		}
	}
	mux.HandleFunc("/v1/artists/a1", authed(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(Artist{ID: "a1", Name: "Band", Genres: []string{"rock", "indie"},
			Images: []Image{{URL: "big.jpg"}, {URL: "small.jpg"}}})
	}))
	mux.HandleFunc("/v1/search", authed(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "band", r.URL.Query().Get("q"))
		assert.Equal(t, "artist", r.URL.Query().Get("type"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"artists":{"items":[{"id":"a1","name":"Band"}],"total":1,"limit":5,"offset":0}}`))
	}))
	mux.HandleFunc("/v1/tracks/missing", authed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server, secret string) *Client {
	return New(Options{
		ClientID: "id", ClientSecret: secret,
		TokenURL: srv.URL + "/token", BaseURL: srv.URL + "/v1/",
		HTTPClient: srv.Client(),
	})
}

func TestLazyTokenIsReused(t *testing.T) {
	var calls atomic.Int32
	srv := fakeSpotify(t, &calls)
	c := newClient(srv, "secret")

	a, err := c.GetArtist(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Band", a.Name)
	assert.Equal(t, "big.jpg", BestImage(a.Images))

	res, err := c.Search(context.Background(), "band", []string{"artist"}, 5)
	require.NoError(t, err)
	require.NotNil(t, res.Artists)
	assert.Len(t, res.Artists.Items, 1)
	assert.Nil(t, res.Tracks)

	assert.EqualValues(t, 1, calls.Load())

	require.NoError(t, c.Refresh(context.Background()))
	assert.EqualValues(t, 2, calls.Load())
}

func TestErrors(t *testing.T) {
	var calls atomic.Int32
	srv := fakeSpotify(t, &calls)

	_, err := newClient(srv, "secret").GetTrack(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = newClient(srv, "wrong").GetArtist(context.Background(), "a1")
	assert.Error(t, err)

	_, err = newClient(srv, "secret").Search(context.Background(), "x", []string{"podcast"}, 5)
	assert.Error(t, err)

	_, err = New(Options{}).GetArtist(context.Background(), "a1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
