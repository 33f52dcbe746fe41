package repo

import (
	"context"

	"gorm.io/gorm"

	"go-music-api/internal/domain"
)

type ArtistRepo struct{ entity[domain.Artist] }

func NewArtistRepo(s *Store) *ArtistRepo { return &ArtistRepo{entity[domain.Artist]{s}} }

func (r *ArtistRepo) FindActiveBySpotifyID(ctx context.Context, spotifyID string) (*domain.Artist, error) {
	return findOne[domain.Artist](r.s.conn(ctx), "spotify_id = ? AND status = ?", spotifyID, domain.StatusActive)
}

func (r *ArtistRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.Artist, int64, error) {
	return r.list(ctx, q, "name", "name asc", nil)
}

func (r *ArtistRepo) AddGenre(ctx context.Context, artistID, genreID string) error {
	return link(r.s.conn(ctx), &domain.ArtistGenre{ArtistID: artistID, GenreID: genreID})
}

func (r *ArtistRepo) RemoveGenre(ctx context.Context, artistID, genreID string) error {
	return r.s.conn(ctx).Where("artist_id = ? AND genre_id = ?", artistID, genreID).Delete(&domain.ArtistGenre{}).Error
}

func (r *ArtistRepo) ForGenre(ctx context.Context, genreID string, p domain.Pagination) ([]domain.Artist, int64, error) {
	tx := r.s.conn(ctx).Model(&domain.Artist{}).
		Joins("JOIN artist_genres ag ON ag.artist_id = artists.id").
		Where("ag.genre_id = ? AND artists.status = ?", genreID, domain.StatusActive)
	return paginate[domain.Artist](tx, p, "artists.name asc")
}

type artistRow struct {
	domain.Artist
	OwnerID string
}

func (r *ArtistRepo) ForAlbums(ctx context.Context, albumIDs []string) (map[string][]domain.Artist, error) {
	return r.grouped(ctx, "album_artists", "album_id", albumIDs)
}

func (r *ArtistRepo) ForSongs(ctx context.Context, songIDs []string) (map[string][]domain.Artist, error) {
	return r.grouped(ctx, "song_artists", "song_id", songIDs)
}

// grouped 一次查询取回多个主体的歌手，按主体 ID 分组
func (r *ArtistRepo) grouped(ctx context.Context, joinTable, ownerCol string, ownerIDs []string) (map[string][]domain.Artist, error) {
	out := make(map[string][]domain.Artist, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return out, nil
	}
	var rows []artistRow
	err := r.s.conn(ctx).Table("artists").
		Select("artists.*, j."+ownerCol+" AS owner_id").
		Joins("JOIN "+joinTable+" j ON j.artist_id = artists.id").
		Where("j."+ownerCol+" IN ? AND artists.status = ?", ownerIDs, domain.StatusActive).
		Order("artists.name asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.OwnerID] = append(out[row.OwnerID], row.Artist)
	}
	return out, nil
}

func (r *ArtistRepo) HardDelete(ctx context.Context, id string) (bool, error) {
	var affected int64
	err := r.s.write(ctx, func(tx *gorm.DB) error {
		for _, m := range []any{&domain.ArtistGenre{}, &domain.AlbumArtist{}, &domain.SongArtist{}} {
			if err := tx.Where("artist_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(&domain.Artist{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected > 0, err
}
