// Package catalog 提供外部影视目录 API（TMDB v3）客户端
package catalog

import (
	"streamguide-api/internal/domain/entity"
)

// pagedResponse TMDB 分页响应外层
type pagedResponse struct {
	Page         int          `json:"page"`
	Results      []resultItem `json:"results"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
}

// resultItem TMDB 结果条目，movie/tv/person 共用一个宽结构
type resultItem struct {
	ID        int64  `json:"id"`
	MediaType string `json:"media_type"`

	// movie 字段
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	ReleaseDate   string `json:"release_date"`

	// tv 字段
	Name         string `json:"name"`
	OriginalName string `json:"original_name"`
	FirstAirDate string `json:"first_air_date"`

	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ProfilePath      string  `json:"profile_path"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int64   `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int64 `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`

	// person 字段
	KnownFor []resultItem `json:"known_for"`
}

// toEntity 转换为领域实体
// fallbackType 用于 /discover 等不回传 media_type 的端点
func (r resultItem) toEntity(fallbackType entity.MediaType) entity.CatalogItem {
	mediaType := entity.MediaType(r.MediaType)
	if !mediaType.IsValid() {
		mediaType = fallbackType
	}

	item := entity.CatalogItem{
		ID:               r.ID,
		MediaType:        mediaType,
		Title:            r.Title,
		OriginalTitle:    r.OriginalTitle,
		Overview:         r.Overview,
		ReleaseDate:      r.ReleaseDate,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Popularity:       r.Popularity,
		GenreIDs:         r.GenreIDs,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		OriginalLanguage: r.OriginalLanguage,
	}

	// tv 与 person 的命名字段不同
	if item.Title == "" {
		item.Title = r.Name
	}
	if item.OriginalTitle == "" {
		item.OriginalTitle = r.OriginalName
	}
	if item.ReleaseDate == "" {
		item.ReleaseDate = r.FirstAirDate
	}
	if item.PosterPath == "" && r.ProfilePath != "" {
		item.PosterPath = r.ProfilePath
	}

	for _, kf := range r.KnownFor {
		item.KnownFor = append(item.KnownFor, kf.toEntity(entity.MediaTypeMovie))
	}

	return item
}

func toEntities(items []resultItem, fallbackType entity.MediaType) []entity.CatalogItem {
	out := make([]entity.CatalogItem, 0, len(items))
	for _, r := range items {
		out = append(out, r.toEntity(fallbackType))
	}
	return out
}

// creditsResponse /person/{id}/combined_credits 响应
type creditsResponse struct {
	Cast []resultItem `json:"cast"`
	Crew []resultItem `json:"crew"`
}

// genreListResponse /genre/movie/list 响应
type genreListResponse struct {
	Genres []entity.Genre `json:"genres"`
}

// detailResponse /movie/{id} 与 /tv/{id} 响应
type detailResponse struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	Name          string `json:"name"`
	OriginalName  string `json:"original_name"`
	ReleaseDate   string `json:"release_date"`
	FirstAirDate  string `json:"first_air_date"`

	Overview         string         `json:"overview"`
	PosterPath       string         `json:"poster_path"`
	BackdropPath     string         `json:"backdrop_path"`
	VoteAverage      float64        `json:"vote_average"`
	VoteCount        int64          `json:"vote_count"`
	Popularity       float64        `json:"popularity"`
	Genres           []entity.Genre `json:"genres"`
	OriginalLanguage string         `json:"original_language"`
}

func (d detailResponse) toEntity(mediaType entity.MediaType) entity.CatalogItem {
	item := entity.CatalogItem{
		ID:               d.ID,
		MediaType:        mediaType,
		Title:            d.Title,
		OriginalTitle:    d.OriginalTitle,
		Overview:         d.Overview,
		ReleaseDate:      d.ReleaseDate,
		VoteAverage:      d.VoteAverage,
		VoteCount:        d.VoteCount,
		Popularity:       d.Popularity,
		PosterPath:       d.PosterPath,
		BackdropPath:     d.BackdropPath,
		OriginalLanguage: d.OriginalLanguage,
	}
	if item.Title == "" {
		item.Title = d.Name
	}
	if item.OriginalTitle == "" {
		item.OriginalTitle = d.OriginalName
	}
	if item.ReleaseDate == "" {
		item.ReleaseDate = d.FirstAirDate
	}
	for _, g := range d.Genres {
		item.GenreIDs = append(item.GenreIDs, g.ID)
	}
	return item
}

// apiError TMDB 错误响应
type apiError struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// DiscoverOptions /discover 查询条件
type DiscoverOptions struct {
	GenreIDs []int64
	Year     int
	SortBy   string // 默认 popularity.desc
	Page     int
}
