package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cinelog/internal/gateway"
	"github.com/user/cinelog/internal/model"
)

func newReviewService(reviews *fakeReviewGateway, ratings *fakeRatingGateway, store *fakeActivityStore) *ReviewService {
	return NewReviewService(reviews, ratings, NewActivityService(store))
}

func TestUpsertReviewMirrorsCurrentRating(t *testing.T) {
	store := &fakeActivityStore{}
	ratings := &fakeRatingGateway{
		getFn: func(_, _ int) (*model.RemoteRating, error) {
			return &model.RemoteRating{UserID: 1, MovieID: 2, Value: 7}, nil
		},
	}
	reviews := &fakeReviewGateway{}
	svc := newReviewService(reviews, ratings, store)

	err := svc.UpsertReview(context.Background(), 1, 2, "不错", "值得一看")

	require.NoError(t, err)
	require.Len(t, reviews.upserted, 1)
	review := reviews.upserted[0]
	// 评论镜像写入时刻的评分
	require.NotNil(t, review.Rating)
	assert.Equal(t, 7, *review.Rating)
	assert.Equal(t, "不错", review.Title)

	require.Len(t, store.records, 1)
	assert.Equal(t, model.ActivityReviewed, store.records[0].Type)
	assert.Equal(t, 7, *store.records[0].Rating)
}

func TestUpsertReviewNoRatingMirrorsNil(t *testing.T) {
	reviews := &fakeReviewGateway{}
	svc := newReviewService(reviews, &fakeRatingGateway{}, &fakeActivityStore{})

	err := svc.UpsertReview(context.Background(), 1, 2, "", "只有正文")

	require.NoError(t, err)
	require.Len(t, reviews.upserted, 1)
	assert.Nil(t, reviews.upserted[0].Rating)
}

func TestUpsertReviewRatingServiceDownStillWrites(t *testing.T) {
	// 评分服务故障不阻塞评论写入，镜像留空
	ratings := &fakeRatingGateway{
		getFn: func(_, _ int) (*model.RemoteRating, error) { return nil, gateway.ErrUnavailable },
	}
	reviews := &fakeReviewGateway{}
	svc := newReviewService(reviews, ratings, &fakeActivityStore{})

	err := svc.UpsertReview(context.Background(), 1, 2, "", "正文")

	require.NoError(t, err)
	require.Len(t, reviews.upserted, 1)
	assert.Nil(t, reviews.upserted[0].Rating)
}

func TestUpsertReviewRejectsEmptyContent(t *testing.T) {
	store := &fakeActivityStore{}
	svc := newReviewService(&fakeReviewGateway{}, &fakeRatingGateway{}, store)

	assert.ErrorIs(t, svc.UpsertReview(context.Background(), 1, 2, "标题", ""), ErrEmptyReview)
	assert.ErrorIs(t, svc.UpsertReview(context.Background(), 1, 2, "标题", "   "), ErrEmptyReview)
	assert.Empty(t, store.records)
}

func TestUpsertReviewUnavailable(t *testing.T) {
	store := &fakeActivityStore{}
	reviews := &fakeReviewGateway{
		upsertFn: func(_ *model.RemoteReview) error { return gateway.ErrUnavailable },
	}
	svc := newReviewService(reviews, &fakeRatingGateway{}, store)

	err := svc.UpsertReview(context.Background(), 1, 2, "", "正文")

	assert.ErrorIs(t, err, ErrReviewServiceUnavailable)
	assert.Empty(t, store.records)
}

func TestDeleteReviewIdempotent(t *testing.T) {
	store := &fakeActivityStore{}
	reviews := &fakeReviewGateway{
		deleteFn: func(_, _ int) error { return gateway.ErrNotFound },
	}
	svc := newReviewService(reviews, &fakeRatingGateway{}, store)

	require.NoError(t, svc.DeleteReview(context.Background(), 1, 2))
	assert.Empty(t, store.records)
}

func TestDeleteReviewRecordsRemoval(t *testing.T) {
	store := &fakeActivityStore{}
	reviews := &fakeReviewGateway{reviews: map[string]*model.RemoteReview{
		reviewKey(1, 2): {UserID: 1, MovieID: 2, Content: "好看"},
	}}
	svc := newReviewService(reviews, &fakeRatingGateway{}, store)

	require.NoError(t, svc.DeleteReview(context.Background(), 1, 2))
	require.Len(t, store.records, 1)
	assert.Equal(t, model.ActivityReviewed, store.records[0].Type)
	assert.True(t, store.records[0].Removed)
}

func TestGetReviewsPagePropagatesFault(t *testing.T) {
	reviews := &fakeReviewGateway{
		pageFn: func(_, _, _ int) (*model.ReviewPage, error) { return nil, gateway.ErrUnavailable },
	}
	svc := newReviewService(reviews, &fakeRatingGateway{}, &fakeActivityStore{})

	// 分页列表是主视图，不可用不能静默退化为空页
	_, err := svc.GetReviewsPage(context.Background(), 2, 0, 5)
	assert.ErrorIs(t, err, ErrReviewServiceUnavailable)
}

func TestGetReviewsPageNotFoundIsEmptyPage(t *testing.T) {
	svc := newReviewService(&fakeReviewGateway{}, &fakeRatingGateway{}, &fakeActivityStore{})

	page, err := svc.GetReviewsPage(context.Background(), 2, 0, 5)

	require.NoError(t, err)
	assert.Empty(t, page.Reviews)
	assert.Equal(t, 0, page.TotalCount)
}

func TestGetReviewsPageNormalizesArguments(t *testing.T) {
	var gotPage, gotSize int
	reviews := &fakeReviewGateway{
		pageFn: func(_, page, size int) (*model.ReviewPage, error) {
			gotPage, gotSize = page, size
			return &model.ReviewPage{Page: page, Size: size}, nil
		},
	}
	svc := newReviewService(reviews, &fakeRatingGateway{}, &fakeActivityStore{})

	cases := []struct {
		name             string
		page, size       int
		wantPage, wantSize int
	}{
		{"负页码归零", -3, 5, 0, 5},
		{"页大小为零用默认值", 0, 0, 0, defaultReviewPageSize},
		{"页大小为负用默认值", 0, -1, 0, defaultReviewPageSize},
		{"页大小超上限用默认值", 0, 51, 0, defaultReviewPageSize},
		{"上限以内保持原值", 2, 50, 2, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.GetReviewsPage(context.Background(), 1, tc.page, tc.size)
			require.NoError(t, err)
			assert.Equal(t, tc.wantPage, gotPage)
			assert.Equal(t, tc.wantSize, gotSize)
		})
	}
}

func TestGetReviewFailOpen(t *testing.T) {
	reviews := &fakeReviewGateway{getErr: gateway.ErrUnavailable}
	svc := newReviewService(reviews, &fakeRatingGateway{}, &fakeActivityStore{})

	assert.Nil(t, svc.GetReview(context.Background(), 1, 2))
}
