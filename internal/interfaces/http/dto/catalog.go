// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"streamguide-api/internal/domain/entity"
)

// CatalogItemDTO 目录条目响应
type CatalogItemDTO struct {
	ID               int64            `json:"id"`
	MediaType        entity.MediaType `json:"media_type"`
	Title            string           `json:"title"`
	OriginalTitle    string           `json:"original_title,omitempty"`
	Overview         string           `json:"overview,omitempty"`
	ReleaseDate      string           `json:"release_date,omitempty"`
	VoteAverage      float64          `json:"vote_average"`
	VoteCount        int64            `json:"vote_count"`
	Popularity       float64          `json:"popularity"`
	GenreIDs         []int64          `json:"genre_ids,omitempty"`
	PosterPath       string           `json:"poster_path,omitempty"`
	BackdropPath     string           `json:"backdrop_path,omitempty"`
	OriginalLanguage string           `json:"original_language,omitempty"`

	KnownFor []*CatalogItemDTO `json:"known_for,omitempty"`
}

// GenreDTO 类型响应
type GenreDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TrendingResponse 趋势榜响应
type TrendingResponse struct {
	Window string            `json:"window"`
	Items  []*CatalogItemDTO `json:"items"`
}

// GenreListResponse 类型列表响应
type GenreListResponse struct {
	Genres []*GenreDTO `json:"genres"`
}

// ToCatalogItemDTO 目录实体转换为响应
func ToCatalogItemDTO(item *entity.CatalogItem) *CatalogItemDTO {
	if item == nil {
		return nil
	}
	dto := &CatalogItemDTO{
		ID:               item.ID,
		MediaType:        item.MediaType,
		Title:            item.Title,
		OriginalTitle:    item.OriginalTitle,
		Overview:         item.Overview,
		ReleaseDate:      item.ReleaseDate,
		VoteAverage:      item.VoteAverage,
		VoteCount:        item.VoteCount,
		Popularity:       item.Popularity,
		GenreIDs:         item.GenreIDs,
		PosterPath:       item.PosterPath,
		BackdropPath:     item.BackdropPath,
		OriginalLanguage: item.OriginalLanguage,
	}
	for i := range item.KnownFor {
		dto.KnownFor = append(dto.KnownFor, ToCatalogItemDTO(&item.KnownFor[i]))
	}
	return dto
}

// ToCatalogItemDTOs 目录实体列表转换为响应
func ToCatalogItemDTOs(items []entity.CatalogItem) []*CatalogItemDTO {
	dtos := make([]*CatalogItemDTO, len(items))
	for i := range items {
		dtos[i] = ToCatalogItemDTO(&items[i])
	}
	return dtos
}

// ToGenreDTOs 类型实体列表转换为响应
func ToGenreDTOs(genres []entity.Genre) []*GenreDTO {
	dtos := make([]*GenreDTO, len(genres))
	for i, g := range genres {
		dtos[i] = &GenreDTO{ID: g.ID, Name: g.Name}
	}
	return dtos
}
