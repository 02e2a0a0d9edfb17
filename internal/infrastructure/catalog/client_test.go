package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamguide-api/internal/config"
	"streamguide-api/internal/domain/entity"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(&config.CatalogConfig{
		BaseURL:  server.URL,
		APIToken: "test-token",
		Language: "en-US",
		Timeout:  5 * time.Second,
	}, nil)
}

func TestSearchMulti(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/multi", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "inception", r.URL.Query().Get("query"))
		assert.Equal(t, "en-US", r.URL.Query().Get("language"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"page": 1,
			"results": [
				{"id": 27205, "media_type": "movie", "title": "Inception", "release_date": "2010-07-15", "popularity": 83.5, "genre_ids": [28, 878]},
				{"id": 93405, "media_type": "tv", "name": "Squid Game", "first_air_date": "2021-09-17", "popularity": 120.1}
			],
			"total_pages": 1,
			"total_results": 2
		}`))
	})

	items, err := client.SearchMulti(context.Background(), "inception", 1)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, int64(27205), items[0].ID)
	assert.Equal(t, entity.MediaTypeMovie, items[0].MediaType)
	assert.Equal(t, "Inception", items[0].Title)
	assert.Equal(t, []int64{28, 878}, items[0].GenreIDs)

	// tv 条目的 name/first_air_date 映射到统一字段
	assert.Equal(t, entity.MediaTypeTV, items[1].MediaType)
	assert.Equal(t, "Squid Game", items[1].Title)
	assert.Equal(t, "2021-09-17", items[1].ReleaseDate)
}

func TestSearchPerson(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/person", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"page": 1,
			"results": [
				{"id": 31, "name": "Tom Hanks", "profile_path": "/hanks.jpg", "popularity": 60.2,
				 "known_for": [{"id": 13, "media_type": "movie", "title": "Forrest Gump"}]}
			]
		}`))
	})

	items, err := client.SearchPerson(context.Background(), "tom hanks", 1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	person := items[0]
	assert.Equal(t, entity.MediaTypePerson, person.MediaType)
	assert.Equal(t, "Tom Hanks", person.Title)
	assert.Equal(t, "/hanks.jpg", person.PosterPath)
	require.Len(t, person.KnownFor, 1)
	assert.Equal(t, "Forrest Gump", person.KnownFor[0].Title)
}

func TestDiscoverMovie(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		assert.Equal(t, "35,18", r.URL.Query().Get("with_genres"))
		assert.Equal(t, "2010", r.URL.Query().Get("primary_release_year"))
		assert.Equal(t, "popularity.desc", r.URL.Query().Get("sort_by"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"page": 1, "results": [{"id": 1, "title": "Some Comedy"}]}`))
	})

	items, err := client.DiscoverMovie(context.Background(), DiscoverOptions{
		GenreIDs: []int64{35, 18},
		Year:     2010,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)

	// discover 不回传 media_type，回退为 movie
	assert.Equal(t, entity.MediaTypeMovie, items[0].MediaType)
}

func TestPersonCombinedCredits(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/person/31/combined_credits", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"cast": [{"id": 13, "media_type": "movie", "title": "Forrest Gump", "popularity": 48.1}],
			"crew": [{"id": 857, "media_type": "movie", "title": "Saving Private Ryan"}]
		}`))
	})

	items, err := client.PersonCombinedCredits(context.Background(), 31)
	require.NoError(t, err)

	// 仅出演部分
	require.Len(t, items, 1)
	assert.Equal(t, "Forrest Gump", items[0].Title)
}

func TestGetAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_code": 7, "status_message": "Invalid API key"}`))
	})

	_, err := client.SearchMulti(context.Background(), "anything", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid API key")
}

func TestMovieDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/27205", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 27205, "title": "Inception", "release_date": "2010-07-15",
			"genres": [{"id": 28, "name": "Action"}, {"id": 878, "name": "Science Fiction"}]
		}`))
	})

	item, err := client.MovieDetail(context.Background(), 27205)
	require.NoError(t, err)
	assert.Equal(t, "Inception", item.Title)
	assert.Equal(t, entity.MediaTypeMovie, item.MediaType)
	assert.Equal(t, []int64{28, 878}, item.GenreIDs)
}

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
	}{
		{"/search/multi", "/search/multi"},
		{"/person/31/combined_credits", "/person/:id/combined_credits"},
		{"/movie/27205", "/movie/:id"},
		{"/trending/all/day", "/trending/all/day"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeEndpoint(tt.endpoint), tt.endpoint)
	}
}
