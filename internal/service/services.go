package service

import (
	"time"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/core/cache"
	"go-music-api/internal/domain"
	"go-music-api/internal/media"
	"go-music-api/internal/repo"
)

type Options struct {
	JWT      *auth.JWTer
	Spotify  SpotifyAPI
	Lyrics   LyricsFinder
	Cache    *cache.Cache // 可为 nil
	CacheTTL time.Duration
	Media    media.Opener
	Now      Clock
}

type Services struct {
	Users     *UserService
	Genres    *GenreService
	Artists   *ArtistService
	Albums    *AlbumService
	Songs     *SongService
	Stream    *StreamService
	Playlists *PlaylistService
	Lyrics    *LyricsService
	Recent    *RecentTrackService
	Search    *SearchService
	Spotify   *SpotifyService
}

func New(tx domain.Transactor, r repo.Repos, o Options) *Services {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 10 * time.Minute
	}
	s := &Services{
		Users:     NewUserService(tx, r.Users, o.JWT, o.Now),
		Genres:    NewGenreService(tx, r.Genres, r.Artists, o.Now),
		Artists:   NewArtistService(tx, r.Artists, r.Genres, r.Albums, r.Songs, o.Now),
		Albums:    NewAlbumService(tx, r.Albums, r.Artists, r.Songs, o.Now),
		Songs:     NewSongService(tx, r.Songs, r.Artists, r.Albums, r.Lyrics, o.Now),
		Stream:    NewStreamService(r.Songs, o.Media, o.Now),
		Playlists: NewPlaylistService(tx, r.Playlists, r.Songs, o.Now),
		Lyrics:    NewLyricsService(tx, r.Lyrics, r.Songs, r.Artists, o.Lyrics, o.Cache, o.CacheTTL, o.Now),
		Recent:    NewRecentTrackService(r.Recent, r.Songs, o.Now),
	}
	s.Search = NewSearchService(s.Songs, r.Artists, s.Albums)
	s.Spotify = NewSpotifyService(tx, o.Spotify, o.Cache, o.CacheTTL, r.Artists, s.Genres)
	return s
}
