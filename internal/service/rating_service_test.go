package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cinelog/internal/gateway"
	"github.com/user/cinelog/internal/model"
)

// fakeRatingGateway 用函数字段模拟评分微服务
type fakeRatingGateway struct {
	upsertFn func(userID, movieID, value int) error
	getFn    func(userID, movieID int) (*model.RemoteRating, error)
	deleteFn func(userID, movieID int) error
}

func (f *fakeRatingGateway) UpsertRating(_ context.Context, userID, movieID, value int) error {
	if f.upsertFn != nil {
		return f.upsertFn(userID, movieID, value)
	}
	return nil
}

func (f *fakeRatingGateway) GetRating(_ context.Context, userID, movieID int) (*model.RemoteRating, error) {
	if f.getFn != nil {
		return f.getFn(userID, movieID)
	}
	return nil, gateway.ErrNotFound
}

func (f *fakeRatingGateway) DeleteRating(_ context.Context, userID, movieID int) error {
	if f.deleteFn != nil {
		return f.deleteFn(userID, movieID)
	}
	return nil
}

func (f *fakeRatingGateway) GetMovieStats(_ context.Context, movieID int) (*model.MovieRatingStats, error) {
	return nil, gateway.ErrUnavailable
}

func (f *fakeRatingGateway) GetUserStats(_ context.Context, userID int) (*model.UserRatingStats, error) {
	return nil, gateway.ErrUnavailable
}

func (f *fakeRatingGateway) LatestByUser(_ context.Context, userID, limit int) ([]model.RemoteRating, error) {
	return nil, gateway.ErrUnavailable
}

// fakeReviewGateway 模拟评论微服务
type fakeReviewGateway struct {
	reviews  map[string]*model.RemoteReview // key: "user/movie"
	upserted []*model.RemoteReview
	getErr   error
	pageFn   func(movieID, page, size int) (*model.ReviewPage, error)
	upsertFn func(review *model.RemoteReview) error
	deleteFn func(userID, movieID int) error
}

func reviewKey(userID, movieID int) string {
	return fmt.Sprintf("%d/%d", userID, movieID)
}

func (f *fakeReviewGateway) UpsertReview(_ context.Context, review *model.RemoteReview) error {
	if f.upsertFn != nil {
		return f.upsertFn(review)
	}
	if f.reviews == nil {
		f.reviews = make(map[string]*model.RemoteReview)
	}
	f.reviews[reviewKey(review.UserID, review.MovieID)] = review
	f.upserted = append(f.upserted, review)
	return nil
}

func (f *fakeReviewGateway) GetReview(_ context.Context, userID, movieID int) (*model.RemoteReview, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	review, ok := f.reviews[reviewKey(userID, movieID)]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	return review, nil
}

func (f *fakeReviewGateway) DeleteReview(_ context.Context, userID, movieID int) error {
	if f.deleteFn != nil {
		return f.deleteFn(userID, movieID)
	}
	delete(f.reviews, reviewKey(userID, movieID))
	return nil
}

func (f *fakeReviewGateway) GetLatestReviews(_ context.Context, movieID int) ([]model.RemoteReview, error) {
	return nil, gateway.ErrUnavailable
}

func (f *fakeReviewGateway) GetReviewsPage(_ context.Context, movieID, page, size int) (*model.ReviewPage, error) {
	if f.pageFn != nil {
		return f.pageFn(movieID, page, size)
	}
	return nil, gateway.ErrNotFound
}

func (f *fakeReviewGateway) GetMovieStats(_ context.Context, movieID int) (*model.MovieReviewStats, error) {
	return nil, gateway.ErrUnavailable
}

func (f *fakeReviewGateway) GetUserStats(_ context.Context, userID int) (*model.UserReviewStats, error) {
	return nil, gateway.ErrUnavailable
}

func (f *fakeReviewGateway) LatestByUser(_ context.Context, userID, limit int) ([]model.RemoteReview, error) {
	return nil, gateway.ErrUnavailable
}

func newRatingService(ratings *fakeRatingGateway, reviews *fakeReviewGateway, store *fakeActivityStore) *RatingService {
	return NewRatingService(ratings, reviews, NewActivityService(store))
}

func TestUpsertRatingRecordsActivity(t *testing.T) {
	store := &fakeActivityStore{}
	svc := newRatingService(&fakeRatingGateway{}, &fakeReviewGateway{}, store)

	err := svc.UpsertRating(context.Background(), 1, 2, 8)

	require.NoError(t, err)
	require.Len(t, store.records, 1)
	r := store.records[0]
	assert.Equal(t, model.ActivityRated, r.Type)
	assert.False(t, r.Removed)
	assert.Equal(t, 8, *r.Rating)
}

func TestUpsertRatingRejectsOutOfRange(t *testing.T) {
	store := &fakeActivityStore{}
	svc := newRatingService(&fakeRatingGateway{}, &fakeReviewGateway{}, store)

	assert.ErrorIs(t, svc.UpsertRating(context.Background(), 1, 2, 0), ErrInvalidRating)
	assert.ErrorIs(t, svc.UpsertRating(context.Background(), 1, 2, 11), ErrInvalidRating)
	assert.Empty(t, store.records)
}

func TestUpsertRatingUnavailableNoActivity(t *testing.T) {
	store := &fakeActivityStore{}
	ratings := &fakeRatingGateway{
		upsertFn: func(_, _, _ int) error { return gateway.ErrUnavailable },
	}
	svc := newRatingService(ratings, &fakeReviewGateway{}, store)

	err := svc.UpsertRating(context.Background(), 1, 2, 8)

	// 写操作必须把故障暴露给调用方，且不记录任何活动
	assert.ErrorIs(t, err, ErrRatingServiceUnavailable)
	assert.Empty(t, store.records)
}

func TestUpsertRatingSyncsReviewMirror(t *testing.T) {
	reviews := &fakeReviewGateway{reviews: map[string]*model.RemoteReview{
		reviewKey(1, 2): {UserID: 1, MovieID: 2, Rating: intPtr(5), Content: "还行"},
	}}
	svc := newRatingService(&fakeRatingGateway{}, reviews, &fakeActivityStore{})

	err := svc.UpsertRating(context.Background(), 1, 2, 9)

	require.NoError(t, err)
	// 评论上的评分镜像被改为新值，正文不动
	mirror := reviews.reviews[reviewKey(1, 2)]
	require.NotNil(t, mirror.Rating)
	assert.Equal(t, 9, *mirror.Rating)
	assert.Equal(t, "还行", mirror.Content)
}

func TestUpsertRatingNoReviewNoSync(t *testing.T) {
	reviews := &fakeReviewGateway{}
	svc := newRatingService(&fakeRatingGateway{}, reviews, &fakeActivityStore{})

	require.NoError(t, svc.UpsertRating(context.Background(), 1, 2, 9))
	assert.Empty(t, reviews.upserted)
}

func TestUpsertRatingMirrorSyncFailureDoesNotFail(t *testing.T) {
	// 评分已写入成功，评论服务故障不影响主操作
	store := &fakeActivityStore{}
	reviews := &fakeReviewGateway{getErr: gateway.ErrUnavailable}
	svc := newRatingService(&fakeRatingGateway{}, reviews, store)

	err := svc.UpsertRating(context.Background(), 1, 2, 9)

	require.NoError(t, err)
	assert.Len(t, store.records, 1)
}

func TestDeleteRatingClearsReviewMirror(t *testing.T) {
	store := &fakeActivityStore{}
	reviews := &fakeReviewGateway{reviews: map[string]*model.RemoteReview{
		reviewKey(1, 2): {UserID: 1, MovieID: 2, Rating: intPtr(7), Content: "好看"},
	}}
	svc := newRatingService(&fakeRatingGateway{}, reviews, store)

	err := svc.DeleteRating(context.Background(), 1, 2)

	require.NoError(t, err)
	assert.Nil(t, reviews.reviews[reviewKey(1, 2)].Rating)
	require.Len(t, store.records, 1)
	assert.True(t, store.records[0].Removed)
	assert.Nil(t, store.records[0].Rating)
}

func TestDeleteRatingNotFoundIsIdempotent(t *testing.T) {
	store := &fakeActivityStore{}
	ratings := &fakeRatingGateway{
		deleteFn: func(_, _ int) error { return gateway.ErrNotFound },
	}
	svc := newRatingService(ratings, &fakeReviewGateway{}, store)

	err := svc.DeleteRating(context.Background(), 1, 2)

	// 远端本来就没有，视为删除成功且不记录活动
	require.NoError(t, err)
	assert.Empty(t, store.records)
}

func TestDeleteRatingUnavailable(t *testing.T) {
	ratings := &fakeRatingGateway{
		deleteFn: func(_, _ int) error { return gateway.ErrUnavailable },
	}
	svc := newRatingService(ratings, &fakeReviewGateway{}, &fakeActivityStore{})

	assert.ErrorIs(t, svc.DeleteRating(context.Background(), 1, 2), ErrRatingServiceUnavailable)
}

func TestGetRatingFailOpen(t *testing.T) {
	ratings := &fakeRatingGateway{
		getFn: func(_, _ int) (*model.RemoteRating, error) { return nil, gateway.ErrUnavailable },
	}
	svc := newRatingService(ratings, &fakeReviewGateway{}, &fakeActivityStore{})

	// 展示场景：不可用与不存在一样返回 nil，不报错
	assert.Nil(t, svc.GetRating(context.Background(), 1, 2))
}

func TestGetRatingReturnsValue(t *testing.T) {
	ratings := &fakeRatingGateway{
		getFn: func(_, _ int) (*model.RemoteRating, error) {
			return &model.RemoteRating{UserID: 1, MovieID: 2, Value: 6}, nil
		},
	}
	svc := newRatingService(ratings, &fakeReviewGateway{}, &fakeActivityStore{})

	value := svc.GetRating(context.Background(), 1, 2)

	require.NotNil(t, value)
	assert.Equal(t, 6, *value)
}
