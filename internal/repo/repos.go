package repo

import "go-music-api/internal/domain"

// Repos 全部仓储，按接口暴露给 service
type Repos struct {
	Users     domain.UserRepository
	Genres    domain.GenreRepository
	Artists   domain.ArtistRepository
	Albums    domain.AlbumRepository
	Songs     domain.SongRepository
	Playlists domain.PlaylistRepository
	Lyrics    domain.LyricsRepository
	Recent    domain.RecentTrackRepository
}

func NewRepos(s *Store) Repos {
	return Repos{
		Users:     NewUserRepo(s),
		Genres:    NewGenreRepo(s),
		Artists:   NewArtistRepo(s),
		Albums:    NewAlbumRepo(s),
		Songs:     NewSongRepo(s),
		Playlists: NewPlaylistRepo(s),
		Lyrics:    NewLyricsRepo(s),
		Recent:    NewRecentTrackRepo(s),
	}
}
