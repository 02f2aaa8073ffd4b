package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/user/cinelog/internal/gateway"
	"github.com/user/cinelog/internal/model"
)

// ErrReviewServiceUnavailable 评论服务不可用
var ErrReviewServiceUnavailable = errors.New("评论服务暂时不可用")

// ErrEmptyReview 评论内容为空
var ErrEmptyReview = errors.New("评论内容不能为空")

// 分页参数归一化边界
const (
	defaultReviewPageSize = 5
	maxReviewPageSize     = 50
)

// ReviewGateway 评论微服务网关
type ReviewGateway interface {
	UpsertReview(ctx context.Context, review *model.RemoteReview) error
	GetReview(ctx context.Context, userID, movieID int) (*model.RemoteReview, error)
	DeleteReview(ctx context.Context, userID, movieID int) error
	GetLatestReviews(ctx context.Context, movieID int) ([]model.RemoteReview, error)
	GetReviewsPage(ctx context.Context, movieID, page, size int) (*model.ReviewPage, error)
	GetMovieStats(ctx context.Context, movieID int) (*model.MovieReviewStats, error)
	GetUserStats(ctx context.Context, userID int) (*model.UserReviewStats, error)
	LatestByUser(ctx context.Context, userID, limit int) ([]model.RemoteReview, error)
}

// ReviewService 评论服务：形态与评分服务一致
type ReviewService struct {
	reviews  ReviewGateway
	ratings  RatingGateway
	activity *ActivityService
}

// NewReviewService 创建评论服务
func NewReviewService(reviews ReviewGateway, ratings RatingGateway, activity *ActivityService) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		ratings:  ratings,
		activity: activity,
	}
}

// UpsertReview 写入或更新评论
// 评论上的评分字段镜像写入时刻该用户在评分服务里的评分（可能为空）。
// 成功后追加一条 REVIEWED 活动记录；远端不可用时返回 ErrReviewServiceUnavailable。
func (s *ReviewService) UpsertReview(ctx context.Context, userID, movieID int, title, content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyReview
	}

	// 镜像当前评分（读不到就留空，不阻塞评论写入）
	var rating *int
	if remote, err := s.ratings.GetRating(ctx, userID, movieID); err == nil {
		rating = &remote.Value
	}

	review := &model.RemoteReview{
		UserID:  userID,
		MovieID: movieID,
		Rating:  rating,
		Title:   title,
		Content: content,
	}
	if err := s.reviews.UpsertReview(ctx, review); err != nil {
		return fmt.Errorf("%w: %v", ErrReviewServiceUnavailable, err)
	}

	s.activity.Record(model.ActivityEvent{
		UserID:  userID,
		MovieID: movieID,
		Type:    model.ActivityReviewed,
		Removed: false,
		Rating:  rating,
	})
	return nil
}

// DeleteReview 删除评论；远端不存在视为已删除（幂等），不记录活动
func (s *ReviewService) DeleteReview(ctx context.Context, userID, movieID int) error {
	err := s.reviews.DeleteReview(ctx, userID, movieID)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReviewServiceUnavailable, err)
	}

	s.activity.Record(model.ActivityEvent{
		UserID:  userID,
		MovieID: movieID,
		Type:    model.ActivityReviewed,
		Removed: true,
	})
	return nil
}

// GetReview 获取用户评论；不存在或服务异常都返回 nil
func (s *ReviewService) GetReview(ctx context.Context, userID, movieID int) *model.RemoteReview {
	review, err := s.reviews.GetReview(ctx, userID, movieID)
	if err != nil {
		return nil
	}
	return review
}

// GetLatestReviews 获取电影最新评论；远端异常时返回空列表
func (s *ReviewService) GetLatestReviews(ctx context.Context, movieID int) []model.RemoteReview {
	reviews, err := s.reviews.GetLatestReviews(ctx, movieID)
	if err != nil {
		return nil
	}
	return reviews
}

// GetReviewsPage 分页获取电影评论
// 分页列表是主视图：远端不可用必须向调用方暴露，不能静默返回空页。
// 远端不存在（没有任何评论）仍然是正常的空结果。
func (s *ReviewService) GetReviewsPage(ctx context.Context, movieID, page, size int) (*model.ReviewPage, error) {
	page, size = normalizePage(page, size)

	result, err := s.reviews.GetReviewsPage(ctx, movieID, page, size)
	if errors.Is(err, gateway.ErrNotFound) {
		return &model.ReviewPage{Reviews: []model.RemoteReview{}, Page: page, Size: size}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReviewServiceUnavailable, err)
	}
	return result, nil
}

// GetMovieStats 获取电影评论统计；远端异常时返回 nil
func (s *ReviewService) GetMovieStats(ctx context.Context, movieID int) *model.MovieReviewStats {
	stats, err := s.reviews.GetMovieStats(ctx, movieID)
	if err != nil {
		return nil
	}
	return stats
}

// GetUserStats 获取用户评论统计；远端异常时返回 nil
func (s *ReviewService) GetUserStats(ctx context.Context, userID int) *model.UserReviewStats {
	stats, err := s.reviews.GetUserStats(ctx, userID)
	if err != nil {
		return nil
	}
	return stats
}

// LatestByUser 获取用户最近的评论；远端异常时返回空列表
func (s *ReviewService) LatestByUser(ctx context.Context, userID, limit int) []model.RemoteReview {
	reviews, err := s.reviews.LatestByUser(ctx, userID, limit)
	if err != nil {
		return nil
	}
	return reviews
}

// normalizePage 分页参数归一化：页码小于 0 归零，页大小超出 (0, 50] 用默认值
func normalizePage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > maxReviewPageSize {
		size = defaultReviewPageSize
	}
	return page, size
}
