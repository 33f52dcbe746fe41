package musixmatch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprintf(w, `{"message":{"header":{"status_code":%d},"body":%s}}`, status, body)
}

func newServer(t *testing.T, withSubtitle bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/matcher.track.get", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k", r.URL.Query().Get("apikey"))
		if r.URL.Query().Get("q_track") == "nothing" {
			reply(w, 404, `[]`)
			return
		}
		reply(w, 200, `{"track":{"track_id":42}}`)
	})
	mux.HandleFunc("/track.subtitle.get", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42", r.URL.Query().Get("track_id"))
		if !withSubtitle {
			reply(w, 404, `[]`)
			return
		}
		reply(w, 200, `{"subtitle":{"subtitle_language":"en","subtitle_body":"[{\"text\":\"hello\",\"time\":{\"total\":1.5}},{\"text\":\"world\",\"time\":{\"total\":3.25}}]"}}`)
	})
	mux.HandleFunc("/track.lyrics.get", func(w http.ResponseWriter, r *http.Request) {
		reply(w, 200, `{"lyrics":{"lyrics_language":"es","lyrics_body":"uno\ndos\n\n...\n\n******* This Lyrics is NOT for Commercial use *******\n(1409617829201)"}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func client(srv *httptest.Server) *Client {
	return New(Options{APIKey: "k", BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
}

func TestSyncedLyrics(t *testing.T) {
	res, err := client(newServer(t, true)).FindLyrics(context.Background(), "Song", "Band")
	require.NoError(t, err)
	assert.True(t, res.Synced)
	assert.Equal(t, "EN", res.Language)
	require.Len(t, res.Lines, 2)
	assert.EqualValues(t, 1500, *res.Lines[0].TimeMs)
	assert.EqualValues(t, 3250, *res.Lines[1].TimeMs)
	assert.Equal(t, "world", res.Lines[1].Text)
}

func TestPlainLyricsFallbackStripsTrailer(t *testing.T) {
	res, err := client(newServer(t, false)).FindLyrics(context.Background(), "Song", "")
	require.NoError(t, err)
	assert.False(t, res.Synced)
	assert.Equal(t, "ES", res.Language)
	texts := make([]string, 0, len(res.Lines))
	for _, l := range res.Lines {
		assert.Nil(t, l.TimeMs)
		texts = append(texts, l.Text)
	}
	assert.Equal(t, []string{"uno", "dos", "", "..."}, texts)
}

func TestNoMatch(t *testing.T) {
	_, err := client(newServer(t, true)).FindLyrics(context.Background(), "nothing", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = New(Options{}).FindLyrics(context.Background(), "x", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
