package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cineview/internal/config"
	"github.com/user/cineview/internal/utils"
)

func newTestTMDB(t *testing.T, handler http.HandlerFunc) (*TMDBService, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc := NewTMDBService(&config.Config{TMDBToken: "test-token"})
	svc.baseURL = srv.URL
	return svc, srv
}

func TestSearchMovies(t *testing.T) {
	var gotAuth string
	svc, _ := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "搏击俱乐部", r.URL.Query().Get("query"))
		w.Write([]byte(`{"results":[{"id":550,"title":"Fight Club","vote_average":8.4,"release_date":"1999-10-15","genre_ids":[18,53]}],"total_pages":1}`))
	})

	movies, err := svc.SearchMovies(context.Background(), "搏击俱乐部")
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, 550, movies[0].ID)
	assert.Equal(t, "Fight Club", movies[0].Title)
	require.NotNil(t, movies[0].VoteAverage)
	assert.Equal(t, 8.4, *movies[0].VoteAverage)
	assert.Equal(t, []int{18, 53}, movies[0].GenreIDs)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestDiscoverByGenresParams(t *testing.T) {
	svc, _ := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		assert.Equal(t, "28,18", r.URL.Query().Get("with_genres"))
		assert.Equal(t, "popularity.desc", r.URL.Query().Get("sort_by"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{"results":[{"id":1,"title":"A"},{"id":2,"title":"B"}],"total_pages":7}`))
	})

	movies, totalPages, err := svc.DiscoverByGenres(context.Background(), []int{28, 18}, 2)
	require.NoError(t, err)
	assert.Len(t, movies, 2)
	assert.Equal(t, 7, totalPages)
}

func TestFetchMovieListCacheHit(t *testing.T) {
	var hits int32
	svc, _ := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`{"results":[{"id":1,"title":"A"}],"total_pages":7}`))
	})

	first, firstPages, err := svc.DiscoverByGenres(context.Background(), []int{28}, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, firstPages)

	second, secondPages, err := svc.DiscoverByGenres(context.Background(), []int{28}, 1)
	require.NoError(t, err)

	// 第二次命中缓存，后端只收到一次请求，总页数同样保留
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, first, second)
	assert.Equal(t, 7, secondPages)

	// 不同查询不共用缓存
	_, _, err = svc.DiscoverByGenres(context.Background(), []int{35}, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestExternalServiceError(t *testing.T) {
	svc, _ := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := svc.SearchMovies(context.Background(), "whatever")
	assert.ErrorIs(t, err, ErrExternalService)

	_, _, err = svc.DiscoverByGenres(context.Background(), []int{28}, 1)
	assert.ErrorIs(t, err, ErrExternalService)
}

func TestExternalServiceBadJSON(t *testing.T) {
	svc, _ := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := svc.SearchMovies(context.Background(), "whatever")
	assert.ErrorIs(t, err, ErrExternalService)
}

func TestGenreListCached(t *testing.T) {
	utils.InitCache()

	var hits int32
	svc, _ := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/genre/movie/list", r.URL.Path)
		w.Write([]byte(`{"genres":[{"id":28,"name":"动作"},{"id":18,"name":"剧情"}]}`))
	})

	genres, err := svc.GenreList(context.Background())
	require.NoError(t, err)
	require.Len(t, genres, 2)
	assert.Equal(t, 28, genres[0].ID)
	assert.Equal(t, "动作", genres[0].Name)

	again, err := svc.GenreList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, genres, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestMovieRecommendationsPath(t *testing.T) {
	svc, _ := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/550/recommendations", r.URL.Path)
		w.Write([]byte(`{"results":[{"id":807,"title":"Se7en"}],"total_pages":1}`))
	})

	movies, err := svc.MovieRecommendations(context.Background(), 550)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, 807, movies[0].ID)
}

func TestTVRecommendationsUsesNameField(t *testing.T) {
	svc, _ := newTestTMDB(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/1399/recommendations", r.URL.Path)
		w.Write([]byte(`{"results":[{"id":94997,"name":"House of the Dragon"}],"total_pages":1}`))
	})

	movies, err := svc.TVRecommendations(context.Background(), 1399)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "House of the Dragon", movies[0].Name)
}
