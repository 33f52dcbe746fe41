package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	ErrNotConfigured = errors.New("spotify client not configured")
	ErrNotFound      = errors.New("spotify resource not found")
)

var searchTypes = map[string]struct{}{"artist": {}, "album": {}, "track": {}}

type Options struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	BaseURL      string
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// Client 共享一个 client-credentials token，后写者覆盖
type Client struct {
	baseURL string
	creds   *clientcredentials.Config
	hc      *http.Client
	l       *zap.Logger
	token   atomic.Pointer[oauth2.Token]
}

func New(o Options) *Client {
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(o.BaseURL, "/"),
		creds: &clientcredentials.Config{
			ClientID:     o.ClientID,
			ClientSecret: o.ClientSecret,
			TokenURL:     o.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		hc: o.HTTPClient,
		l:  o.Logger,
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.creds.ClientID != "" && c.creds.ClientSecret != ""
}

// Refresh 强制换取新 token
func (c *Client) Refresh(ctx context.Context) error {
	if !c.Configured() {
		return ErrNotConfigured
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.hc)
	tok, err := c.creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("spotify token: %w", err)
	}
	c.token.Store(tok)
	return nil
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	if tok := c.token.Load(); tok.Valid() {
		return tok.AccessToken, nil
	}
	if err := c.Refresh(ctx); err != nil {
		return "", err
	}
	return c.token.Load().AccessToken, nil
}

// RunTokenRefresher 定时刷新，直到 ctx 结束
func (c *Client) RunTokenRefresher(ctx context.Context, every time.Duration) {
	if !c.Configured() || every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := c.Refresh(ctx); err != nil {
				c.l.Warn("spotify token refresh failed", zap.Error(err))
			} else {
				c.l.Debug("spotify token refreshed")
			}
		}
	}
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("spotify request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, endpoint)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("spotify api error: %s - %s", resp.Status, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode spotify response: %w", err)
	}
	return nil
}

// Search types 为空时查全部三类
func (c *Client) Search(ctx context.Context, q string, types []string, limit int) (*SearchResult, error) {
	if len(types) == 0 {
		types = []string{"artist", "album", "track"}
	}
	for _, t := range types {
		if _, ok := searchTypes[t]; !ok {
			return nil, fmt.Errorf("unknown search type %q", t)
		}
	}
	params := url.Values{}
	params.Set("q", q)
	params.Set("type", strings.Join(types, ","))
	params.Set("limit", strconv.Itoa(limit))
	var out SearchResult
	if err := c.get(ctx, "search", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetArtist(ctx context.Context, id string) (*Artist, error) {
	var out Artist
	if err := c.get(ctx, "artists/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetAlbum(ctx context.Context, id string) (*Album, error) {
	var out Album
	if err := c.get(ctx, "albums/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetTrack(ctx context.Context, id string) (*Track, error) {
	var out Track
	if err := c.get(ctx, "tracks/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
