package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/cinelog/internal/model"
)

// 测试结果归类：2xx 成功，404 归为 NotFound，其余（含超时）一律归为不可用

func TestGetRatingSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ratings/1/2", r.URL.Path)
		json.NewEncoder(w).Encode(model.RemoteRating{UserID: 1, MovieID: 2, Value: 8})
	}))
	defer srv.Close()

	client := NewRatingClient(srv.URL, time.Second)
	rating, err := client.GetRating(context.Background(), 1, 2)

	require.NoError(t, err)
	assert.Equal(t, 8, rating.Value)
}

func TestGetRatingNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewRatingClient(srv.URL, time.Second)
	rating, err := client.GetRating(context.Background(), 1, 2)

	assert.Nil(t, rating)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestGetRatingServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewRatingClient(srv.URL, time.Second)
	_, err := client.GetRating(context.Background(), 1, 2)

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGetRatingTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewRatingClient(srv.URL, 50*time.Millisecond)
	_, err := client.GetRating(context.Background(), 1, 2)

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGetRatingConnectionRefused(t *testing.T) {
	// 指向一个没有服务监听的地址
	client := NewRatingClient("http://127.0.0.1:1", 200*time.Millisecond)
	_, err := client.GetRating(context.Background(), 1, 2)

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestUpsertRating(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/ratings", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&got)
	}))
	defer srv.Close()

	client := NewRatingClient(srv.URL, time.Second)
	err := client.UpsertRating(context.Background(), 1, 2, 9)

	require.NoError(t, err)
	assert.Equal(t, float64(9), got["value"])
}

func TestUpsertRatingNotFoundIsUnavailable(t *testing.T) {
	// 写操作没有 NotFound 语义，404 同样意味着远端异常
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewRatingClient(srv.URL, time.Second)
	err := client.UpsertRating(context.Background(), 1, 2, 9)

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDeleteRatingNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewRatingClient(srv.URL, time.Second)
	err := client.DeleteRating(context.Background(), 1, 2)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetReviewsPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reviews/5/page", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("size"))
		json.NewEncoder(w).Encode(model.ReviewPage{
			Reviews:    []model.RemoteReview{{UserID: 1, MovieID: 5, Content: "不错"}},
			Page:       2,
			Size:       10,
			TotalCount: 21,
		})
	}))
	defer srv.Close()

	client := NewReviewClient(srv.URL, time.Second)
	page, err := client.GetReviewsPage(context.Background(), 5, 2, 10)

	require.NoError(t, err)
	assert.Equal(t, 21, page.TotalCount)
	require.Len(t, page.Reviews, 1)
	assert.Equal(t, "不错", page.Reviews[0].Content)
}

func TestGetMovieStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ratings/movies/7/stats", r.URL.Path)
		json.NewEncoder(w).Encode(model.MovieRatingStats{MovieID: 7, Average: 7.5, Count: 42})
	}))
	defer srv.Close()

	client := NewRatingClient(srv.URL, time.Second)
	stats, err := client.GetMovieStats(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 7.5, stats.Average)
	assert.Equal(t, 42, stats.Count)
}
