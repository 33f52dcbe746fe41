package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrBadLocation = errors.New("bad media location")
	ErrUnknownSize = errors.New("media size unknown")
)

// Object 已打开的媒体数据
type Object struct {
	Size int64
	Body io.ReadCloser
}

// Opener 按位置打开媒体；实现需返回准确的 Size
type Opener interface {
	Open(ctx context.Context, location string) (*Object, error)
}

// Sources 按 scheme 分发：http(s) 走网络，其余按文件处理
type Sources struct {
	Root   string
	Client *http.Client
}

func NewSources(root string, client *http.Client) *Sources {
	if client == nil {
		client = http.DefaultClient
	}
	return &Sources{Root: root, Client: client}
}

func (s *Sources) Open(ctx context.Context, location string) (*Object, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadLocation, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return s.openHTTP(ctx, u.String())
	case "file":
		return s.openFile(u.Path)
	case "":
		return s.openFile(u.Path)
	default:
		return nil, fmt.Errorf("%w: scheme %q", ErrBadLocation, u.Scheme)
	}
}

func (s *Sources) openHTTP(ctx context.Context, location string) (*Object, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadLocation, err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch media: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch media: upstream status %d", resp.StatusCode)
	}
	if resp.ContentLength < 0 {
		resp.Body.Close()
		return nil, ErrUnknownSize
	}
	return &Object{Size: resp.ContentLength, Body: resp.Body}, nil
}

// openFile 路径限制在 Root 之内
func (s *Sources) openFile(p string) (*Object, error) {
	p = strings.TrimLeft(filepath.ToSlash(p), "/")
	if p == "" {
		return nil, fmt.Errorf("%w: empty path", ErrBadLocation)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return nil, fmt.Errorf("%w: path escapes media root", ErrBadLocation)
		}
	}
	full := filepath.Join(s.Root, filepath.FromSlash(p))
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("open media: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat media: %w", err)
	}
	if st.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: is a directory", ErrBadLocation)
	}
	return &Object{Size: st.Size(), Body: f}, nil
}

// Section 跳过 r.Start 字节（可 Seek 时直接定位），最多读 r.Length() 字节
func Section(body io.Reader, r ByteRange) (io.Reader, error) {
	if r.Start > 0 {
		if sk, ok := body.(io.Seeker); ok {
			if _, err := sk.Seek(r.Start, io.SeekStart); err != nil {
				return nil, fmt.Errorf("seek media: %w", err)
			}
		} else if _, err := io.CopyN(io.Discard, body, r.Start); err != nil {
			return nil, fmt.Errorf("skip media: %w", err)
		}
	}
	return io.LimitReader(body, r.Length()), nil
}
