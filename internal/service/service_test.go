package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/domain"
	"go-music-api/internal/integration/musixmatch"
	"go-music-api/internal/integration/spotify"
	"go-music-api/internal/media"
	"go-music-api/internal/repo"
	"go-music-api/internal/service"
	"go-music-api/internal/testutil"
)

type fakeSpotify struct {
	artists map[string]*spotify.Artist
	calls   int
}

func (f *fakeSpotify) Search(ctx context.Context, q string, types []string, limit int) (*spotify.SearchResult, error) {
	f.calls++
	return &spotify.SearchResult{Artists: &spotify.Paging[spotify.Artist]{Items: []spotify.Artist{{ID: "sp1", Name: q}}}}, nil
}

func (f *fakeSpotify) GetArtist(ctx context.Context, id string) (*spotify.Artist, error) {
	f.calls++
	if a, ok := f.artists[id]; ok {
		return a, nil
	}
	return nil, spotify.ErrNotFound
}

func (f *fakeSpotify) GetAlbum(ctx context.Context, id string) (*spotify.Album, error) {
	return nil, spotify.ErrNotFound
}

func (f *fakeSpotify) GetTrack(ctx context.Context, id string) (*spotify.Track, error) {
	return nil, spotify.ErrNotFound
}

type fakeLyrics struct{ res *musixmatch.Result }

func (f fakeLyrics) FindLyrics(ctx context.Context, title, artist string) (*musixmatch.Result, error) {
	if f.res == nil {
		return nil, musixmatch.ErrNotFound
	}
	return f.res, nil
}

type env struct {
	*service.Services
	store   *repo.Store
	spotify *fakeSpotify
	root    string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := testutil.NewStore(t)
	sp := &fakeSpotify{artists: map[string]*spotify.Artist{
		"sp1": {ID: "sp1", Name: "Imported", Genres: []string{"rock", "Indie Pop"}, Images: []spotify.Image{{URL: "p.jpg"}}},
	}}
	ms := int64(1000)
	root := t.TempDir()
	svcs := service.New(store, repo.NewRepos(store), service.Options{
		JWT:     &auth.JWTer{Secret: []byte("k"), Issuer: "test", TTL: time.Hour},
		Spotify: sp,
		Lyrics: fakeLyrics{res: &musixmatch.Result{Language: "EN", Synced: true,
			Lines: []musixmatch.Line{{TimeMs: &ms, Text: "hello"}}}},
		Media: media.NewSources(root, nil),
	})
	return &env{Services: svcs, store: store, spotify: sp, root: root}
}

var ctx = context.Background()

func ptr[T any](v T) *T { return &v }

func pg(page, limit int) domain.Pagination { return domain.Pagination{Page: page, Limit: limit} }

func admin() *auth.Principal { return &auth.Principal{UserID: "admin-id", Role: auth.RoleAdmin} }

func (e *env) song(t *testing.T, title string, artistIDs ...string) *service.SongWithArtists {
	t.Helper()
	s, err := e.Songs.Create(ctx, service.SongInput{Title: ptr(title), FileURL: ptr("songs/" + title + ".mp3"), ArtistIDs: artistIDs})
	require.NoError(t, err)
	return s
}

func (e *env) artist(t *testing.T, name string) *domain.Artist {
	t.Helper()
	a, err := e.Artists.Create(ctx, service.ArtistInput{Name: ptr(name)})
	require.NoError(t, err)
	return a
}
