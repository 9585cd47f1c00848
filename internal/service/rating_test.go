package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cineview/internal/model"
)

// fakeRatingStore 内存评分存储
type fakeRatingStore struct {
	rows   []*model.Rating
	nextID int
}

func sameTarget(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f *fakeRatingStore) FindByUserAndTarget(userID string, movieID, tvSeriesID *int) (*model.Rating, error) {
	for _, r := range f.rows {
		if r.UserID == userID && sameTarget(r.MovieID, movieID) && sameTarget(r.TVSeriesID, tvSeriesID) {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRatingStore) Create(rating *model.Rating) error {
	f.nextID++
	rating.ID = f.nextID
	f.rows = append(f.rows, rating)
	return nil
}

func (f *fakeRatingStore) Update(id int, value int, review string) error {
	for _, r := range f.rows {
		if r.ID == id {
			r.Rating = value
			r.Review = review
			return nil
		}
	}
	return nil
}

func (f *fakeRatingStore) AverageByTarget(movieID, tvSeriesID *int) (float64, int, error) {
	sum, count := 0, 0
	for _, r := range f.rows {
		if sameTarget(r.MovieID, movieID) && sameTarget(r.TVSeriesID, tvSeriesID) {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func TestRateRangeValidation(t *testing.T) {
	store := &fakeRatingStore{}
	svc := NewRatingService(store)

	// 超出 1-10 的值在写库前就被拒绝
	assert.ErrorIs(t, svc.Rate("u1", MovieTarget(1), 0, ""), ErrValidation)
	assert.ErrorIs(t, svc.Rate("u1", MovieTarget(1), 11, ""), ErrValidation)
	assert.Empty(t, store.rows)

	assert.NoError(t, svc.Rate("u1", MovieTarget(1), 1, ""))
	assert.NoError(t, svc.Rate("u1", MovieTarget(2), 10, ""))
}

func TestRateTargetValidation(t *testing.T) {
	svc := NewRatingService(&fakeRatingStore{})

	assert.ErrorIs(t, svc.Rate("u1", Target{}, 5, ""), ErrValidation)

	movieID, tvID := 1, 2
	assert.ErrorIs(t, svc.Rate("u1", Target{MovieID: &movieID, TVSeriesID: &tvID}, 5, ""), ErrValidation)
}

func TestRateUpsert(t *testing.T) {
	store := &fakeRatingStore{}
	svc := NewRatingService(store)

	require.NoError(t, svc.Rate("u1", MovieTarget(550), 6, "还行"))
	require.NoError(t, svc.Rate("u1", MovieTarget(550), 9, "二刷真香"))

	// 重复提交原地更新，不产生第二行
	require.Len(t, store.rows, 1)
	assert.Equal(t, 9, store.rows[0].Rating)
	assert.Equal(t, "二刷真香", store.rows[0].Review)

	// 不同目标互不影响
	require.NoError(t, svc.Rate("u1", TVTarget(550), 3, ""))
	assert.Len(t, store.rows, 2)
}

func TestAverageRating(t *testing.T) {
	store := &fakeRatingStore{}
	svc := NewRatingService(store)

	require.NoError(t, svc.Rate("u1", MovieTarget(550), 8, ""))
	require.NoError(t, svc.Rate("u2", MovieTarget(550), 6, ""))
	require.NoError(t, svc.Rate("u3", MovieTarget(999), 10, ""))

	summary, err := svc.Average(MovieTarget(550))
	require.NoError(t, err)
	assert.Equal(t, 7.0, summary.AverageRating)
	assert.Equal(t, 2, summary.RatingCount)

	// 没有任何评分时均分为 0、数量为 0
	empty, err := svc.Average(MovieTarget(12345))
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.AverageRating)
	assert.Equal(t, 0, empty.RatingCount)
}

func TestUserRating(t *testing.T) {
	store := &fakeRatingStore{}
	svc := NewRatingService(store)

	require.NoError(t, svc.Rate("u1", MovieTarget(550), 8, "短评"))

	got, err := svc.UserRating("u1", MovieTarget(550))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 8, got.Rating)
	assert.Equal(t, "短评", got.Review)

	// 没评过分返回 nil 而不是错误
	none, err := svc.UserRating("u2", MovieTarget(550))
	require.NoError(t, err)
	assert.Nil(t, none)
}
