package service

import (
	"context"

	"go-music-api/internal/core/auth"
	"go-music-api/internal/domain"
)

type RecentTrackService struct {
	recent domain.RecentTrackRepository
	song   lifecycle[domain.Song, *domain.Song]
	now    Clock
}

func NewRecentTrackService(recent domain.RecentTrackRepository, songs domain.SongRepository, now Clock) *RecentTrackService {
	return &RecentTrackService{
		recent: recent, now: now,
		song: lifecycle[domain.Song, *domain.Song]{what: "song", store: songs, now: now},
	}
}

func (s *RecentTrackService) List(ctx context.Context, p *auth.Principal, pg domain.Pagination) (domain.Page[domain.RecentPlay], error) {
	if p == nil {
		return domain.Page[domain.RecentPlay]{}, domain.ErrUnauthorized
	}
	pg = pg.Normalize()
	items, total, err := s.recent.ForUser(ctx, p.UserID, pg)
	if err != nil {
		return domain.Page[domain.RecentPlay]{}, err
	}
	return domain.NewPage(items, pg, total), nil
}

// Record 同一首歌重复播放只刷新时间并计数
func (s *RecentTrackService) Record(ctx context.Context, p *auth.Principal, songID string) (*domain.RecentPlay, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	so, err := s.song.get(ctx, songID)
	if err != nil {
		return nil, err
	}
	rt, err := s.recent.Record(ctx, p.UserID, songID, s.now())
	if err != nil {
		return nil, err
	}
	return &domain.RecentPlay{Track: *rt, Song: *so}, nil
}

func (s *RecentTrackService) Remove(ctx context.Context, p *auth.Principal, songID string) error {
	if p == nil {
		return domain.ErrUnauthorized
	}
	ok, err := s.recent.Remove(ctx, p.UserID, songID)
	if err != nil {
		return err
	}
	if !ok {
		return notFound("recent track", songID)
	}
	return nil
}

func (s *RecentTrackService) Clear(ctx context.Context, p *auth.Principal) (int64, error) {
	if p == nil {
		return 0, domain.ErrUnauthorized
	}
	return s.recent.Clear(ctx, p.UserID)
}
