package repo

import (
	"context"

	"gorm.io/gorm"

	"go-music-api/internal/domain"
)

type AlbumRepo struct{ entity[domain.Album] }

func NewAlbumRepo(s *Store) *AlbumRepo { return &AlbumRepo{entity[domain.Album]{s}} }

func (r *AlbumRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.Album, int64, error) {
	return r.list(ctx, q, "title", "title asc", nil)
}

func (r *AlbumRepo) AddArtist(ctx context.Context, albumID, artistID string) error {
	return link(r.s.conn(ctx), &domain.AlbumArtist{AlbumID: albumID, ArtistID: artistID})
}

func (r *AlbumRepo) RemoveArtist(ctx context.Context, albumID, artistID string) error {
	return r.s.conn(ctx).Where("album_id = ? AND artist_id = ?", albumID, artistID).Delete(&domain.AlbumArtist{}).Error
}

func (r *AlbumRepo) ForArtist(ctx context.Context, artistID string, p domain.Pagination) ([]domain.Album, int64, error) {
	tx := r.s.conn(ctx).Model(&domain.Album{}).
		Joins("JOIN album_artists aa ON aa.album_id = albums.id").
		Where("aa.artist_id = ? AND albums.status = ?", artistID, domain.StatusActive)
	return paginate[domain.Album](tx, p, "albums.title asc")
}

// HardDelete 歌曲保留，仅解除所属专辑
func (r *AlbumRepo) HardDelete(ctx context.Context, id string) (bool, error) {
	var affected int64
	err := r.s.write(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("album_id = ?", id).Delete(&domain.AlbumArtist{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Song{}).Where("album_id = ?", id).Update("album_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Album{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected > 0, err
}
