package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/user/cineview/internal/config"
	"github.com/user/cineview/internal/model"
	"github.com/user/cineview/internal/utils"
	"golang.org/x/sync/singleflight"
)

// 目录接口缓存参数
const (
	catalogCacheSize = 1000
	catalogCacheTTL  = 30 * time.Minute
	genreCacheKey    = "tmdb:genres"
	genreCacheTTL    = 24 * time.Hour
)

// CatalogMovie 目录条目（TMDB 返回的片目信息）
// 海报和评分可能缺失，调用方需容忍空值
type CatalogMovie struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Name        string   `json:"name,omitempty"` // 剧集使用 name 字段
	PosterPath  string   `json:"poster_path"`
	VoteAverage *float64 `json:"vote_average"`
	ReleaseDate string   `json:"release_date"`
	GenreIDs    []int    `json:"genre_ids"`
}

// TMDBService 外部目录网关
// 请求失败直接返回 ErrExternalService，不在内部重试
type TMDBService struct {
	config  *config.Config
	client  *http.Client
	baseURL string
	group   singleflight.Group
	cache   *utils.TTLCache[movieListResponse]
}

// NewTMDBService 创建目录网关
func NewTMDBService(cfg *config.Config) *TMDBService {
	return &TMDBService{
		config:  cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: "https://api.themoviedb.org/3",
		cache:   utils.NewTTLCache[movieListResponse](catalogCacheSize, catalogCacheTTL),
	}
}

// SearchMovies 按标题搜索电影
func (s *TMDBService) SearchMovies(ctx context.Context, query string) ([]CatalogMovie, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", "1")
	movies, _, err := s.fetchMovieList(ctx, "/search/movie", params)
	return movies, err
}

// DiscoverByGenres 按类型查询，结果按 TMDB 热度降序
// 返回值第二项为总页数
func (s *TMDBService) DiscoverByGenres(ctx context.Context, genreIDs []int, page int) ([]CatalogMovie, int, error) {
	ids := make([]string, 0, len(genreIDs))
	for _, id := range genreIDs {
		ids = append(ids, strconv.Itoa(id))
	}
	params := url.Values{}
	params.Set("with_genres", strings.Join(ids, ","))
	params.Set("sort_by", "popularity.desc")
	params.Set("page", strconv.Itoa(page))
	return s.fetchMovieList(ctx, "/discover/movie", params)
}

// MovieRecommendations 获取电影的关联推荐
func (s *TMDBService) MovieRecommendations(ctx context.Context, movieID int) ([]CatalogMovie, error) {
	movies, _, err := s.fetchMovieList(ctx, fmt.Sprintf("/movie/%d/recommendations", movieID), url.Values{})
	return movies, err
}

// TVRecommendations 获取剧集的关联推荐
func (s *TMDBService) TVRecommendations(ctx context.Context, tvSeriesID int) ([]CatalogMovie, error) {
	movies, _, err := s.fetchMovieList(ctx, fmt.Sprintf("/tv/%d/recommendations", tvSeriesID), url.Values{})
	return movies, err
}

type movieListResponse struct {
	Results    []CatalogMovie `json:"results"`
	TotalPages int            `json:"total_pages"`
}

// fetchMovieList 请求片目列表接口，带 LRU 缓存和 singleflight 合并
// 整个响应（结果 + 总页数）一起缓存，命中时分页信息不丢失
func (s *TMDBService) fetchMovieList(ctx context.Context, path string, params url.Values) ([]CatalogMovie, int, error) {
	key := path + "?" + params.Encode()

	if cached, ok := s.cache.Get(key); ok {
		return cached.Results, cached.TotalPages, nil
	}

	// 使用 singleflight 避免并发重复请求同一地址
	val, err, _ := s.group.Do(key, func() (interface{}, error) {
		var result movieListResponse
		if err := s.getJSON(ctx, key, &result); err != nil {
			return nil, err
		}
		return &result, nil
	})
	if err != nil {
		return nil, 0, err
	}

	resp := val.(*movieListResponse)
	s.cache.Set(key, *resp)
	return resp.Results, resp.TotalPages, nil
}

// GenreList 获取类型列表，全局缓存 24 小时
func (s *TMDBService) GenreList(ctx context.Context) ([]model.GenreTag, error) {
	if cached, ok := utils.CacheGet(genreCacheKey); ok {
		if genres, ok := cached.([]model.GenreTag); ok {
			return genres, nil
		}
	}

	var result struct {
		Genres []model.GenreTag `json:"genres"`
	}
	if err := s.getJSON(ctx, "/genre/movie/list", &result); err != nil {
		return nil, err
	}

	utils.CacheSet(genreCacheKey, result.Genres, genreCacheTTL)
	return result.Genres, nil
}

// getJSON 请求 TMDB 接口并解析 JSON
func (s *TMDBService) getJSON(ctx context.Context, pathAndQuery string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+pathAndQuery, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.TMDBToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: 状态码 %d", ErrExternalService, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: 解析响应失败: %v", ErrExternalService, err)
	}
	return nil
}
