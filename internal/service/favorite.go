package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/user/cineview/internal/model"
)

// 收藏列表支持的排序字段
const (
	SortByVoteAverage = "vote_average"
	SortByAddedAt     = "added_at"
	SortByReleaseDate = "release_date"
)

// favoriteStore 收藏服务依赖的存储
type favoriteStore interface {
	Add(fav *model.FavoriteMovie) error
	Remove(id int, userID string) error
	ListByUser(userID string) ([]*model.FavoriteMovie, error)
}

// recommendGateway 推荐所需的目录接口
type recommendGateway interface {
	DiscoverByGenres(ctx context.Context, genreIDs []int, page int) ([]CatalogMovie, int, error)
}

// FavoriteInput 添加收藏的输入（来自目录接口的快照字段）
type FavoriteInput struct {
	MovieID     int
	Title       string
	PosterPath  string
	Genres      model.GenreTags
	VoteAverage *float64
	ReleaseDate string
}

// ListOptions 收藏列表的过滤和排序选项
type ListOptions struct {
	GenreID   *int
	SortBy    string // vote_average / added_at / release_date，空表示不排序
	SortOrder string // asc / desc，非 asc 一律按 desc 处理
}

// RecommendedMovie 推荐结果条目
type RecommendedMovie struct {
	MovieID     int      `json:"movie_id"`
	Title       string   `json:"title"`
	PosterPath  string   `json:"poster_path"`
	VoteAverage *float64 `json:"vote_average"`
	ReleaseDate string   `json:"release_date"`
}

// FavoriteService 收藏聚合与推荐服务
type FavoriteService struct {
	favorites favoriteStore
	catalog   recommendGateway
}

// NewFavoriteService 创建收藏服务
func NewFavoriteService(favorites favoriteStore, catalog recommendGateway) *FavoriteService {
	return &FavoriteService{favorites: favorites, catalog: catalog}
}

// Add 添加收藏
// 不做 (用户, 电影) 去重，重复收藏产生多行是已接受的行为
func (s *FavoriteService) Add(userID string, input FavoriteInput) (*model.FavoriteMovie, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: 标题不能为空", ErrValidation)
	}

	fav := &model.FavoriteMovie{
		UserID:      userID,
		MovieID:     input.MovieID,
		Title:       input.Title,
		PosterPath:  input.PosterPath,
		Genres:      input.Genres,
		VoteAverage: input.VoteAverage,
		ReleaseDate: input.ReleaseDate,
	}
	if err := s.favorites.Add(fav); err != nil {
		return nil, err
	}
	return fav, nil
}

// Remove 取消收藏
// 删除范围限定为本人的行；行不存在或属于他人时同样返回成功（幂等删除）
func (s *FavoriteService) Remove(id int, userID string) error {
	return s.favorites.Remove(id, userID)
}

// List 获取收藏列表，支持类型过滤和字段排序
// 缺失字段按最小值参与排序（数值 0 / 空字符串），
// 相同键值按行 ID 决出次序，保证 asc 与 desc 严格互逆
func (s *FavoriteService) List(userID string, opts ListOptions) ([]*model.FavoriteMovie, error) {
	switch opts.SortBy {
	case "", SortByVoteAverage, SortByAddedAt, SortByReleaseDate:
	default:
		return nil, fmt.Errorf("%w: 不支持的排序字段 %q", ErrValidation, opts.SortBy)
	}

	favorites, err := s.favorites.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	if opts.GenreID != nil {
		filtered := make([]*model.FavoriteMovie, 0, len(favorites))
		for _, f := range favorites {
			if f.Genres.Contains(*opts.GenreID) {
				filtered = append(filtered, f)
			}
		}
		favorites = filtered
	}

	if opts.SortBy != "" {
		asc := opts.SortOrder == "asc"
		sort.SliceStable(favorites, func(i, j int) bool {
			cmp := compareFavorites(favorites[i], favorites[j], opts.SortBy)
			if cmp == 0 {
				cmp = favorites[i].ID - favorites[j].ID
			}
			if asc {
				return cmp < 0
			}
			return cmp > 0
		})
	}

	if favorites == nil {
		favorites = []*model.FavoriteMovie{}
	}
	return favorites, nil
}

// compareFavorites 按指定字段比较两条收藏，返回 -1/0/1
func compareFavorites(a, b *model.FavoriteMovie, sortBy string) int {
	switch sortBy {
	case SortByVoteAverage:
		return compareFloat(voteOf(a), voteOf(b))
	case SortByAddedAt:
		return compareInt64(a.AddedAt.UnixMilli(), b.AddedAt.UnixMilli())
	default: // SortByReleaseDate，ISO 格式字符串按字典序即按时间序
		switch {
		case a.ReleaseDate < b.ReleaseDate:
			return -1
		case a.ReleaseDate > b.ReleaseDate:
			return 1
		}
		return 0
	}
}

func voteOf(f *model.FavoriteMovie) float64 {
	if f.VoteAverage == nil {
		return 0
	}
	return *f.VoteAverage
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Recommend 基于类型偏好推荐
// 统计收藏中各类型出现次数，取前 2 个（次数降序，并列按类型 ID 升序），
// 再按目录服务的热度排序取第一页结果。没有收藏时返回空列表。
func (s *FavoriteService) Recommend(ctx context.Context, userID string) ([]RecommendedMovie, error) {
	favorites, err := s.favorites.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(favorites) == 0 {
		return []RecommendedMovie{}, nil
	}

	topGenres := topAffinityGenres(favorites, 2)
	if len(topGenres) == 0 {
		return []RecommendedMovie{}, nil
	}

	movies, _, err := s.catalog.DiscoverByGenres(ctx, topGenres, 1)
	if err != nil {
		return nil, err
	}

	result := make([]RecommendedMovie, 0, len(movies))
	for _, m := range movies {
		result = append(result, RecommendedMovie{
			MovieID:     m.ID,
			Title:       m.Title,
			PosterPath:  m.PosterPath,
			VoteAverage: m.VoteAverage,
			ReleaseDate: m.ReleaseDate,
		})
	}
	return result, nil
}

// topAffinityGenres 统计类型出现次数并取前 n 个
// 次数降序，并列时类型 ID 升序，结果确定
func topAffinityGenres(favorites []*model.FavoriteMovie, n int) []int {
	counts := make(map[int]int)
	for _, f := range favorites {
		for _, g := range f.Genres {
			counts[g.ID]++
		}
	}

	genreIDs := make([]int, 0, len(counts))
	for id := range counts {
		genreIDs = append(genreIDs, id)
	}
	sort.Slice(genreIDs, func(i, j int) bool {
		if counts[genreIDs[i]] != counts[genreIDs[j]] {
			return counts[genreIDs[i]] > counts[genreIDs[j]]
		}
		return genreIDs[i] < genreIDs[j]
	})

	if len(genreIDs) > n {
		genreIDs = genreIDs[:n]
	}
	return genreIDs
}
