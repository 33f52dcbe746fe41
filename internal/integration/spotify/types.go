package spotify

// 响应结构参考 https://developer.spotify.com/documentation/web-api/reference/

type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type ExternalURLs struct {
	Spotify string `json:"spotify"`
}

type SimpleArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Artist struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Genres       []string     `json:"genres"`
	Popularity   int          `json:"popularity"`
	Images       []Image      `json:"images"`
	ExternalURLs ExternalURLs `json:"external_urls"`
}

type Album struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	AlbumType    string         `json:"album_type"`
	Artists      []SimpleArtist `json:"artists"`
	ReleaseDate  string         `json:"release_date"`
	TotalTracks  int            `json:"total_tracks"`
	Images       []Image        `json:"images"`
	ExternalURLs ExternalURLs   `json:"external_urls"`
	Tracks       *Paging[Track] `json:"tracks,omitempty"`
}

type Track struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Artists      []SimpleArtist `json:"artists"`
	Album        *Album         `json:"album,omitempty"`
	DurationMS   int            `json:"duration_ms"`
	TrackNumber  int            `json:"track_number"`
	Explicit     bool           `json:"explicit"`
	PreviewURL   string         `json:"preview_url,omitempty"`
	ExternalURLs ExternalURLs   `json:"external_urls"`
}

type Paging[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type SearchResult struct {
	Artists *Paging[Artist] `json:"artists,omitempty"`
	Albums  *Paging[Album]  `json:"albums,omitempty"`
	Tracks  *Paging[Track]  `json:"tracks,omitempty"`
}

// BestImage 返回第一张（Spotify 按尺寸降序）
func BestImage(images []Image) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}
