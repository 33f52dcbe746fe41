package service

import (
	"context"
	"io"

	"go-music-api/internal/domain"
	"go-music-api/internal/media"
)

type StreamService struct {
	songs  lifecycle[domain.Song, *domain.Song]
	opener media.Opener
}

func NewStreamService(songs domain.SongRepository, opener media.Opener, now Clock) *StreamService {
	return &StreamService{
		songs:  lifecycle[domain.Song, *domain.Song]{what: "song", store: songs, now: now},
		opener: opener,
	}
}

// Stream Range 为 nil 表示整段返回；调用方负责 Close
type Stream struct {
	ContentType string
	Size        int64
	Range       *media.ByteRange
	Body        io.Reader
	closer      io.Closer
}

func (s *Stream) Length() int64 {
	if s.Range != nil {
		return s.Range.Length()
	}
	return s.Size
}

func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Open rangeHeader 非法时返回 *media.RangeError
func (s *StreamService) Open(ctx context.Context, songID, rangeHeader string) (*Stream, error) {
	so, err := s.songs.get(ctx, songID)
	if err != nil {
		return nil, err
	}
	obj, err := s.opener.Open(ctx, so.FileURL)
	if err != nil {
		return nil, err
	}
	st := &Stream{ContentType: media.ContentTypeFor(so.FileURL), Size: obj.Size, Body: obj.Body, closer: obj.Body}
	if rangeHeader == "" {
		return st, nil
	}
	r, err := media.ParseRange(rangeHeader, obj.Size)
	if err != nil {
		obj.Body.Close()
		return nil, err
	}
	if st.Body, err = media.Section(obj.Body, r); err != nil {
		obj.Body.Close()
		return nil, err
	}
	st.Range = &r
	return st, nil
}
