package repo

import (
	"context"

	"gorm.io/gorm"

	"go-music-api/internal/domain"
)

type SongRepo struct{ entity[domain.Song] }

func NewSongRepo(s *Store) *SongRepo { return &SongRepo{entity[domain.Song]{s}} }

func (r *SongRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.Song, int64, error) {
	return r.list(ctx, q, "title", "title asc", nil)
}

func (r *SongRepo) AddArtist(ctx context.Context, songID, artistID string) error {
	return link(r.s.conn(ctx), &domain.SongArtist{SongID: songID, ArtistID: artistID})
}

func (r *SongRepo) RemoveArtist(ctx context.Context, songID, artistID string) error {
	return r.s.conn(ctx).Where("song_id = ? AND artist_id = ?", songID, artistID).Delete(&domain.SongArtist{}).Error
}

func (r *SongRepo) ForArtist(ctx context.Context, artistID string, p domain.Pagination) ([]domain.Song, int64, error) {
	tx := r.s.conn(ctx).Model(&domain.Song{}).
		Joins("JOIN song_artists sa ON sa.song_id = songs.id").
		Where("sa.artist_id = ? AND songs.status = ?", artistID, domain.StatusActive)
	return paginate[domain.Song](tx, p, "songs.title asc")
}

func (r *SongRepo) ForAlbum(ctx context.Context, albumID string) ([]domain.Song, error) {
	out := []domain.Song{}
	err := r.s.conn(ctx).
		Where("album_id = ? AND status = ?", albumID, domain.StatusActive).
		Order("track_number asc, title asc").
		Find(&out).Error
	return out, err
}

type playsRow struct {
	SongID string
	Plays  int64
}

func (r *SongRepo) MostPlayed(ctx context.Context, limit int) ([]domain.SongPlays, error) {
	var rows []playsRow
	err := r.s.conn(ctx).Model(&domain.RecentTrack{}).
		Select("recent_tracks.song_id AS song_id, SUM(recent_tracks.play_count) AS plays").
		Joins("JOIN songs ON songs.id = recent_tracks.song_id").
		Where("songs.status = ?", domain.StatusActive).
		Group("recent_tracks.song_id").
		Order("plays desc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.SongPlays, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.SongID)
	}
	songs, err := r.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Song, len(songs))
	for _, s := range songs {
		byID[s.ID] = s
	}
	for _, row := range rows {
		if s, ok := byID[row.SongID]; ok {
			out = append(out, domain.SongPlays{Song: s, Plays: row.Plays})
		}
	}
	return out, nil
}

// HardDelete 级联删除歌词、歌单条目、播放记录
func (r *SongRepo) HardDelete(ctx context.Context, id string) (bool, error) {
	var affected int64
	err := r.s.write(ctx, func(tx *gorm.DB) error {
		for _, m := range []any{&domain.SongArtist{}, &domain.PlaylistSong{}, &domain.Lyrics{}, &domain.RecentTrack{}} {
			if err := tx.Where("song_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&domain.Song{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected > 0, err
}
