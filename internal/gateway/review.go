package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/user/cinelog/internal/model"
)

// ReviewClient 评论微服务客户端
type ReviewClient struct {
	*client
}

// NewReviewClient 创建评论微服务客户端
func NewReviewClient(baseURL string, timeout time.Duration) *ReviewClient {
	return &ReviewClient{client: newClient(baseURL, "评论服务", timeout)}
}

// UpsertReview 写入或更新评论
// rating 为写入时刻该用户评分的镜像，可以为 nil
func (g *ReviewClient) UpsertReview(ctx context.Context, review *model.RemoteReview) error {
	return g.postJSON(ctx, "/reviews", review)
}

// GetReview 获取用户对某部电影的评论
func (g *ReviewClient) GetReview(ctx context.Context, userID, movieID int) (*model.RemoteReview, error) {
	var review model.RemoteReview
	if err := g.getJSON(ctx, fmt.Sprintf("/reviews/%d/%d", userID, movieID), &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview 删除评论
func (g *ReviewClient) DeleteReview(ctx context.Context, userID, movieID int) error {
	return g.delete(ctx, fmt.Sprintf("/reviews/%d/%d", userID, movieID))
}

// GetLatestReviews 获取电影最新的若干条评论
func (g *ReviewClient) GetLatestReviews(ctx context.Context, movieID int) ([]model.RemoteReview, error) {
	var reviews []model.RemoteReview
	if err := g.getJSON(ctx, fmt.Sprintf("/reviews/%d", movieID), &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// GetReviewsPage 分页获取电影评论
func (g *ReviewClient) GetReviewsPage(ctx context.Context, movieID, page, size int) (*model.ReviewPage, error) {
	var result model.ReviewPage
	path := fmt.Sprintf("/reviews/%d/page?page=%d&size=%d", movieID, page, size)
	if err := g.getJSON(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetMovieStats 获取电影评论统计（总数）
func (g *ReviewClient) GetMovieStats(ctx context.Context, movieID int) (*model.MovieReviewStats, error) {
	var stats model.MovieReviewStats
	if err := g.getJSON(ctx, fmt.Sprintf("/reviews/movies/%d/stats", movieID), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetUserStats 获取用户评论统计
func (g *ReviewClient) GetUserStats(ctx context.Context, userID int) (*model.UserReviewStats, error) {
	var stats model.UserReviewStats
	if err := g.getJSON(ctx, fmt.Sprintf("/reviews/users/%d/stats", userID), &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// LatestByUser 获取用户最近的评论
func (g *ReviewClient) LatestByUser(ctx context.Context, userID, limit int) ([]model.RemoteReview, error) {
	var reviews []model.RemoteReview
	if err := g.getJSON(ctx, fmt.Sprintf("/reviews/users/%d/latest?limit=%d", userID, limit), &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
