// Package dto 对外 JSON 视图，与实体显式映射
package dto

import (
	"time"

	"github.com/samber/lo"

	"go-music-api/internal/domain"
	"go-music-api/internal/service"
)

type Meta struct {
	Status    domain.Status `json:"status"`
	DeletedAt *time.Time    `json:"deletedAt,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func meta(l domain.Lifecycle, created, updated time.Time) Meta {
	return Meta{Status: l.Status, DeletedAt: l.DeletedAt, CreatedAt: created, UpdatedAt: updated}
}

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Photo    string `json:"photo"`
	Role     string `json:"role"`
	Meta
}

func FromUser(u domain.User) User {
	return User{ID: u.ID, Username: u.Username, Email: u.Email, Photo: u.Photo, Role: string(u.Role),
		Meta: meta(u.Lifecycle, u.CreatedAt, u.UpdatedAt)}
}

type Login struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

func FromLogin(r *service.LoginResult) Login {
	return Login{Token: r.Token, ExpiresAt: r.ExpiresAt, User: FromUser(*r.User)}
}

type Genre struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Meta
}

func FromGenre(g domain.Genre) Genre {
	return Genre{ID: g.ID, Title: g.Title, Description: g.Description, Meta: meta(g.Lifecycle, g.CreatedAt, g.UpdatedAt)}
}

type Artist struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	Photo     string `json:"photo"`
	SpotifyID string `json:"spotifyId,omitempty"`
	Meta
}

func FromArtist(a domain.Artist) Artist {
	return Artist{ID: a.ID, Name: a.Name, Bio: a.Bio, Photo: a.Photo, SpotifyID: a.SpotifyID,
		Meta: meta(a.Lifecycle, a.CreatedAt, a.UpdatedAt)}
}

// ArtistRef 嵌在歌曲/专辑里的简要歌手
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func refs(as []domain.Artist) []ArtistRef {
	return lo.Map(as, func(a domain.Artist, _ int) ArtistRef { return ArtistRef{ID: a.ID, Name: a.Name} })
}

type Album struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	ReleaseDate *time.Time  `json:"releaseDate,omitempty"`
	CoverURL    string      `json:"coverUrl"`
	SpotifyID   string      `json:"spotifyId,omitempty"`
	Artists     []ArtistRef `json:"artists"`
	Meta
}

func FromAlbum(a domain.Album, artists []domain.Artist) Album {
	return Album{ID: a.ID, Title: a.Title, ReleaseDate: a.ReleaseDate, CoverURL: a.CoverURL, SpotifyID: a.SpotifyID,
		Artists: refs(artists), Meta: meta(a.Lifecycle, a.CreatedAt, a.UpdatedAt)}
}

func FromAlbumView(v service.AlbumWithArtists) Album { return FromAlbum(v.Album, v.Artists) }

type AlbumDetail struct {
	Album
	Songs []Song `json:"songs"`
}

func FromAlbumDetail(d *service.AlbumDetail) AlbumDetail {
	return AlbumDetail{Album: FromAlbumView(d.AlbumWithArtists), Songs: Songs(d.Songs)}
}

type Song struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	AlbumID     *string     `json:"albumId"`
	DurationSec int         `json:"durationSec"`
	TrackNumber int         `json:"trackNumber"`
	FileURL     string      `json:"fileUrl"`
	CoverURL    string      `json:"coverUrl"`
	Artists     []ArtistRef `json:"artists,omitempty"`
	Meta
}

func FromSong(s domain.Song) Song {
	return Song{ID: s.ID, Title: s.Title, AlbumID: s.AlbumID, DurationSec: s.DurationSec, TrackNumber: s.TrackNumber,
		FileURL: s.FileURL, CoverURL: s.CoverURL, Meta: meta(s.Lifecycle, s.CreatedAt, s.UpdatedAt)}
}

func FromSongView(v service.SongWithArtists) Song {
	out := FromSong(v.Song)
	out.Artists = refs(v.Artists)
	return out
}

func Songs(ss []domain.Song) []Song { return Map(ss, FromSong) }

type SongPlays struct {
	Song
	Plays int64 `json:"plays"`
}

func FromSongPlays(v service.SongPlays) SongPlays {
	return SongPlays{Song: FromSongView(v.SongWithArtists), Plays: v.Plays}
}

type Playlist struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CoverURL    string `json:"coverUrl"`
	IsPublic    bool   `json:"isPublic"`
	Meta
}

func FromPlaylist(p domain.Playlist) Playlist {
	return Playlist{ID: p.ID, UserID: p.UserID, Name: p.Name, Description: p.Description, CoverURL: p.CoverURL,
		IsPublic: p.IsPublic, Meta: meta(p.Lifecycle, p.CreatedAt, p.UpdatedAt)}
}

type LyricLine struct {
	TimeMs *int64 `json:"timeMs,omitempty"`
	Text   string `json:"text"`
}

type Lyrics struct {
	ID       string      `json:"id"`
	SongID   string      `json:"songId"`
	Language string      `json:"language"`
	Source   string      `json:"source"`
	Synced   bool        `json:"synced"`
	Lines    []LyricLine `json:"lines"`
	Meta
}

func FromLyrics(l domain.Lyrics) Lyrics {
	lines := lo.Map(l.Lines, func(x domain.LyricLine, _ int) LyricLine { return LyricLine{TimeMs: x.TimeMs, Text: x.Text} })
	synced := len(l.Lines) > 0 && l.Lines[0].TimeMs != nil
	return Lyrics{ID: l.ID, SongID: l.SongID, Language: string(l.Language), Source: l.Source, Synced: synced,
		Lines: lines, Meta: meta(l.Lifecycle, l.CreatedAt, l.UpdatedAt)}
}

type RecentTrack struct {
	ID        string    `json:"id"`
	PlayedAt  time.Time `json:"playedAt"`
	PlayCount int64     `json:"playCount"`
	Song      Song      `json:"song"`
}

func FromRecentPlay(r domain.RecentPlay) RecentTrack {
	return RecentTrack{ID: r.Track.ID, PlayedAt: r.Track.PlayedAt, PlayCount: r.Track.PlayCount, Song: FromSong(r.Song)}
}

type Search struct {
	Songs   []Song   `json:"songs"`
	Artists []Artist `json:"artists"`
	Albums  []Album  `json:"albums"`
}

func FromSearch(r *service.SearchResult) Search {
	return Search{
		Songs:   Map(r.Songs, FromSongView),
		Artists: Map(r.Artists, FromArtist),
		Albums:  Map(r.Albums, FromAlbumView),
	}
}

type ImportedArtist struct {
	Artist Artist  `json:"artist"`
	Genres []Genre `json:"genres"`
}

func FromImported(i *service.ImportedArtist) ImportedArtist {
	return ImportedArtist{
		Artist: FromArtist(i.Artist),
		Genres: Map(i.Genres, FromGenre),
	}
}

// Map nil 输入也返回空切片，JSON 中为 []
func Map[S any, D any](in []S, f func(S) D) []D {
	return lo.Map(in, func(s S, _ int) D { return f(s) })
}
