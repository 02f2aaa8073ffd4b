package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/user/cinelog/internal/model"
)

// RatingClient 评分微服务客户端
type RatingClient struct {
	*client
}

// NewRatingClient 创建评分微服务客户端
func NewRatingClient(baseURL string, timeout time.Duration) *RatingClient {
	return &RatingClient{client: newClient(baseURL, "评分服务", timeout)}
}

// UpsertRating 写入或更新评分（写操作没有 NotFound 结果）
func (g *RatingClient) UpsertRating(ctx context.Context, userID, movieID, value int) error {
	payload := map[string]interface{}{
		"user_id":  userID,
		"movie_id": movieID,
		"value":    value,
	}
	return g.postJSON(ctx, "/ratings", payload)
}

// GetRating 获取用户对某部电影的评分
func (g *RatingClient) GetRating(ctx context.Context, userID, movieID int) (*model.RemoteRating, error) {
	var rating model.RemoteRating
	if err := g.getJSON(ctx, fmt.Sprintf("/ratings/%d/%d", userID, movieID), &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

// DeleteRating 删除评分
func (g *RatingClient) DeleteRating(ctx context.Context, userID, movieID int) error {
	return g.delete(ctx, fmt.Sprintf("/ratings/%d/%d", userID, movieID))
}

// GetMovieStats 获取电影评分统计（均分、总数）
func (g *RatingClient) GetMovieStats(ctx context.Context, movieID int) (*model.MovieRatingStats, error) {
	var stats model.MovieRatingStats
	if err := g.getJSON(ctx, fmt.Sprintf("/ratings/movies/%d/stats", movieID), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetUserStats 获取用户评分统计
func (g *RatingClient) GetUserStats(ctx context.Context, userID int) (*model.UserRatingStats, error) {
	var stats model.UserRatingStats
	if err := g.getJSON(ctx, fmt.Sprintf("/ratings/users/%d/stats", userID), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// LatestByUser 获取用户最近的评分
func (g *RatingClient) LatestByUser(ctx context.Context, userID, limit int) ([]model.RemoteRating, error) {
	var ratings []model.RemoteRating
	if err := g.getJSON(ctx, fmt.Sprintf("/ratings/users/%d/latest?limit=%d", userID, limit), &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}
