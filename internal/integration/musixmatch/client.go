// Package musixmatch 歌词查询：优先同步歌词，失败退回纯文本歌词
package musixmatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotConfigured = errors.New("musixmatch client not configured")
	ErrNotFound      = errors.New("musixmatch lyrics not found")
)

const commercialTrailer = "******* This Lyrics is NOT for Commercial use"

type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	apiKey  string
	baseURL string
	hc      *http.Client
}

func New(o Options) *Client {
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{apiKey: o.APIKey, baseURL: strings.TrimRight(o.BaseURL, "/"), hc: o.HTTPClient}
}

func (c *Client) Configured() bool { return c != nil && c.apiKey != "" }

// Line TimeMs 为 nil 表示非同步行
type Line struct {
	TimeMs *int64
	Text   string
}

type Result struct {
	TrackID  int64
	Language string // 大写 ISO 639-1，可能为空
	Synced   bool
	Lines    []Line
}

type envelope[T any] struct {
	Message struct {
		Header struct {
			StatusCode int `json:"status_code"`
		} `json:"header"`
		Body T `json:"body"`
	} `json:"message"`
}

type trackBody struct {
	Track struct {
		TrackID int64 `json:"track_id"`
	} `json:"track"`
}

type subtitleBody struct {
	Subtitle struct {
		SubtitleBody     string `json:"subtitle_body"`
		SubtitleLanguage string `json:"subtitle_language"`
	} `json:"subtitle"`
}

type lyricsBody struct {
	Lyrics struct {
		LyricsBody     string `json:"lyrics_body"`
		LyricsLanguage string `json:"lyrics_language"`
	} `json:"lyrics"`
}

type subtitleLine struct {
	Text string `json:"text"`
	Time struct {
		Total float64 `json:"total"`
	} `json:"time"`
}

// call body 为 [] 时（无结果）返回 ErrNotFound
func call[T any](ctx context.Context, c *Client, method string, params url.Values) (*T, error) {
	params.Set("apikey", c.apiKey)
	params.Set("format", "json")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+method+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("musixmatch %s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("musixmatch %s: http %s", method, resp.Status)
	}

	var raw envelope[json.RawMessage]
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode musixmatch %s: %w", method, err)
	}
	switch code := raw.Message.Header.StatusCode; code {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, method)
	default:
		return nil, fmt.Errorf("musixmatch %s: status_code %d", method, code)
	}
	var out T
	if err := json.Unmarshal(raw.Message.Body, &out); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, method)
	}
	return &out, nil
}

// FindLyrics 按歌名 + 歌手匹配曲目后取歌词
func (c *Client) FindLyrics(ctx context.Context, title, artist string) (*Result, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	q := url.Values{}
	q.Set("q_track", title)
	if artist != "" {
		q.Set("q_artist", artist)
	}
	tb, err := call[trackBody](ctx, c, "matcher.track.get", q)
	if err != nil {
		return nil, err
	}
	id := tb.Track.TrackID
	if id == 0 {
		return nil, fmt.Errorf("%w: no track match", ErrNotFound)
	}
	trackID := url.Values{}
	trackID.Set("track_id", strconv.FormatInt(id, 10))

	if sb, err := call[subtitleBody](ctx, c, "track.subtitle.get", trackID); err == nil && sb.Subtitle.SubtitleBody != "" {
		lines, perr := parseSubtitle(sb.Subtitle.SubtitleBody)
		if perr == nil && len(lines) > 0 {
			return &Result{TrackID: id, Language: strings.ToUpper(sb.Subtitle.SubtitleLanguage), Synced: true, Lines: lines}, nil
		}
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	trackID = url.Values{}
	trackID.Set("track_id", strconv.FormatInt(id, 10))
	lb, err := call[lyricsBody](ctx, c, "track.lyrics.get", trackID)
	if err != nil {
		return nil, err
	}
	lines := parsePlain(lb.Lyrics.LyricsBody)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty lyrics", ErrNotFound)
	}
	return &Result{TrackID: id, Language: strings.ToUpper(lb.Lyrics.LyricsLanguage), Lines: lines}, nil
}

// parseSubtitle subtitle_body 本身是 JSON 字符串
func parseSubtitle(body string) ([]Line, error) {
	var raw []subtitleLine
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, err
	}
	out := make([]Line, 0, len(raw))
	for _, r := range raw {
		ms := int64(r.Time.Total * 1000)
		out = append(out, Line{TimeMs: &ms, Text: r.Text})
	}
	return out, nil
}

func parsePlain(body string) []Line {
	if i := strings.Index(body, commercialTrailer); i >= 0 {
		body = body[:i]
	}
	var out []Line
	for _, s := range strings.Split(strings.TrimSpace(body), "\n") {
		s = strings.TrimRight(s, "\r")
		if strings.TrimSpace(s) == "" && len(out) == 0 {
			continue
		}
		out = append(out, Line{Text: s})
	}
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1].Text) == "" {
		out = out[:len(out)-1]
	}
	return out
}
