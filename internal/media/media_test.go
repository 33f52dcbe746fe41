package media

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	cases := []struct {
		header string
		want   ByteRange
		ok     bool
	}{
		{"bytes=0-99", ByteRange{0, 99}, true},
		{"bytes=100-", ByteRange{100, 999}, true},
		{"bytes=-100", ByteRange{900, 999}, true},
		{"bytes=-5000", ByteRange{0, 999}, true},
		{"bytes=999-999", ByteRange{999, 999}, true},
		{"bytes=1000-1005", ByteRange{}, false},
		{"bytes=0-1000", ByteRange{}, false},
		{"bytes=50-10", ByteRange{}, false},
		{"bytes=0-1,5-9", ByteRange{}, false},
		{"bytes=abc", ByteRange{}, false},
		{"bytes=-0", ByteRange{}, false},
		{"items=0-1", ByteRange{}, false},
		{"bytes=-1-5", ByteRange{}, false},
	}
	for _, c := range cases {
		t.Run(c.header, func(t *testing.T) {
			got, err := ParseRange(c.header, 1000)
			if !c.ok {
				assert.ErrorIs(t, err, ErrRangeNotSatisfiable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
	_, err := ParseRange("bytes=5-1", 1000)
	var re *RangeError
	require.ErrorAs(t, err, &re)
	assert.EqualValues(t, 1000, re.Size)

	r, _ := ParseRange("bytes=0-99", 1000)
	assert.EqualValues(t, 100, r.Length())
	assert.Equal(t, "bytes 0-99/1000", r.ContentRange(1000))
	assert.Equal(t, "bytes */1000", UnsatisfiedRange(1000))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "audio/mpeg", ContentTypeFor("https://cdn.x/a/b.MP3?sig=1"))
	assert.Equal(t, "audio/flac", ContentTypeFor("song.flac"))
	assert.Equal(t, "audio/mp4", ContentTypeFor("file:///m/x.m4a"))
	assert.Equal(t, DefaultContentType, ContentTypeFor("noext"))
	assert.Equal(t, DefaultContentType, ContentTypeFor("x.txt"))
}

func payload(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

func TestSectionSeekAndSkip(t *testing.T) {
	data := payload(1000)
	r := ByteRange{Start: 10, End: 19}

	got, err := Section(bytes.NewReader(data), r)
	require.NoError(t, err)
	b, _ := io.ReadAll(got)
	assert.Equal(t, data[10:20], b)

	// 不可 Seek 的 reader 走丢弃
	got, err = Section(io.NopCloser(bytes.NewBuffer(data)), r)
	require.NoError(t, err)
	b, _ = io.ReadAll(got)
	assert.Equal(t, data[10:20], b)
}

func TestOpenFileUnderRoot(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "songs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "songs", "a.mp3"), payload(300), 0o644))
	s := NewSources(root, nil)

	for _, loc := range []string{"songs/a.mp3", "file:///songs/a.mp3"} {
		obj, err := s.Open(context.Background(), loc)
		require.NoError(t, err, loc)
		assert.EqualValues(t, 300, obj.Size)
		obj.Body.Close()
	}

	_, err := s.Open(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrBadLocation)
	_, err = s.Open(context.Background(), "file:///songs/../../x")
	assert.ErrorIs(t, err, ErrBadLocation)
	_, err = s.Open(context.Background(), "ftp://host/a.mp3")
	assert.ErrorIs(t, err, ErrBadLocation)
	_, err = s.Open(context.Background(), "songs/missing.mp3")
	assert.Error(t, err)
}

func TestOpenHTTP(t *testing.T) {
	data := payload(500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.mp3" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	s := NewSources(t.TempDir(), srv.Client())
	obj, err := s.Open(context.Background(), srv.URL+"/a.mp3")
	require.NoError(t, err)
	defer obj.Body.Close()
	assert.EqualValues(t, 500, obj.Size)
	sec, err := Section(obj.Body, ByteRange{Start: 100, End: 104})
	require.NoError(t, err)
	b, _ := io.ReadAll(sec)
	assert.Equal(t, data[100:105], b)

	_, err = s.Open(context.Background(), srv.URL+"/missing.mp3")
	assert.Error(t, err)
}
