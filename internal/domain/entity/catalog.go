// Package entity 定义领域实体
package entity

// MediaType 媒体类型
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeTV     MediaType = "tv"
	MediaTypePerson MediaType = "person"
)

// IsValid 检查媒体类型是否合法
func (m MediaType) IsValid() bool {
	switch m {
	case MediaTypeMovie, MediaTypeTV, MediaTypePerson:
		return true
	}
	return false
}

// CatalogItem 目录条目，来自外部影视目录 API 的只读快照
// 在一次检索的生命周期内不可变
type CatalogItem struct {
	ID               int64     `json:"id"`
	MediaType        MediaType `json:"media_type"`
	Title            string    `json:"title"`
	OriginalTitle    string    `json:"original_title,omitempty"`
	Overview         string    `json:"overview,omitempty"`
	ReleaseDate      string    `json:"release_date,omitempty"`
	VoteAverage      float64   `json:"vote_average"`
	VoteCount        int64     `json:"vote_count"`
	Popularity       float64   `json:"popularity"`
	GenreIDs         []int64   `json:"genre_ids,omitempty"`
	PosterPath       string    `json:"poster_path,omitempty"`
	BackdropPath     string    `json:"backdrop_path,omitempty"`
	OriginalLanguage string    `json:"original_language,omitempty"`

	// KnownFor 仅对 person 类型有意义，承载代表作
	KnownFor []CatalogItem `json:"known_for,omitempty"`
}

// Genre 类型条目
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
