package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/user/cinelog/internal/gateway"
	"github.com/user/cinelog/internal/model"
)

var (
	// ErrRatingServiceUnavailable 评分服务不可用（主操作需要对用户可见）
	ErrRatingServiceUnavailable = errors.New("评分服务暂时不可用")
	// ErrInvalidRating 评分取值非法
	ErrInvalidRating = errors.New("评分必须在 1-10 之间")
)

// RatingGateway 评分微服务网关
type RatingGateway interface {
	UpsertRating(ctx context.Context, userID, movieID, value int) error
	GetRating(ctx context.Context, userID, movieID int) (*model.RemoteRating, error)
	DeleteRating(ctx context.Context, userID, movieID int) error
	GetMovieStats(ctx context.Context, movieID int) (*model.MovieRatingStats, error)
	GetUserStats(ctx context.Context, userID int) (*model.UserRatingStats, error)
	LatestByUser(ctx context.Context, userID, limit int) ([]model.RemoteRating, error)
}

// RatingService 评分服务：封装网关调用、跨服务一致性和活动记录
type RatingService struct {
	ratings  RatingGateway
	reviews  ReviewGateway
	activity *ActivityService
}

// NewRatingService 创建评分服务
func NewRatingService(ratings RatingGateway, reviews ReviewGateway, activity *ActivityService) *RatingService {
	return &RatingService{
		ratings:  ratings,
		reviews:  reviews,
		activity: activity,
	}
}

// UpsertRating 写入或更新评分
// 成功后：若该用户对同一电影已有评论，则把评论上的评分镜像同步为新值（正文不动），
// 并追加一条 RATED 活动记录。远端不可用时返回 ErrRatingServiceUnavailable，不记录任何活动。
func (s *RatingService) UpsertRating(ctx context.Context, userID, movieID, value int) error {
	if value < 1 || value > 10 {
		return ErrInvalidRating
	}

	if err := s.ratings.UpsertRating(ctx, userID, movieID, value); err != nil {
		return fmt.Errorf("%w: %v", ErrRatingServiceUnavailable, err)
	}

	// 同步评论上的评分镜像（尽力而为：评分已写入成功，这里失败只记日志）
	s.syncReviewRating(ctx, userID, movieID, &value)

	s.activity.Record(model.ActivityEvent{
		UserID:  userID,
		MovieID: movieID,
		Type:    model.ActivityRated,
		Removed: false,
		Rating:  &value,
	})
	return nil
}

// DeleteRating 删除评分
// 远端不存在视为已删除（幂等），直接返回且不记录活动。
// 成功删除后清空评论上的评分镜像，并追加一条 RATED/removed 活动记录。
func (s *RatingService) DeleteRating(ctx context.Context, userID, movieID int) error {
	err := s.ratings.DeleteRating(ctx, userID, movieID)
	if errors.Is(err, gateway.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRatingServiceUnavailable, err)
	}

	s.syncReviewRating(ctx, userID, movieID, nil)

	s.activity.Record(model.ActivityEvent{
		UserID:  userID,
		MovieID: movieID,
		Type:    model.ActivityRated,
		Removed: true,
	})
	return nil
}

// GetRating 获取用户评分；远端不存在或不可用都返回 nil（展示场景不区分两者）
func (s *RatingService) GetRating(ctx context.Context, userID, movieID int) *int {
	rating, err := s.ratings.GetRating(ctx, userID, movieID)
	if err != nil {
		return nil
	}
	return &rating.Value
}

// GetMovieStats 获取电影评分统计；远端异常时返回 nil，不报错
func (s *RatingService) GetMovieStats(ctx context.Context, movieID int) *model.MovieRatingStats {
	stats, err := s.ratings.GetMovieStats(ctx, movieID)
	if err != nil {
		return nil
	}
	return stats
}

// GetUserStats 获取用户评分统计；远端异常时返回 nil
func (s *RatingService) GetUserStats(ctx context.Context, userID int) *model.UserRatingStats {
	stats, err := s.ratings.GetUserStats(ctx, userID)
	if err != nil {
		return nil
	}
	return stats
}

// LatestByUser 获取用户最近的评分；远端异常时返回空列表
func (s *RatingService) LatestByUser(ctx context.Context, userID, limit int) []model.RemoteRating {
	ratings, err := s.ratings.LatestByUser(ctx, userID, limit)
	if err != nil {
		return nil
	}
	return ratings
}

// syncReviewRating 把用户已有评论上的评分镜像改为 value（nil 表示清空），评论正文保持不变
func (s *RatingService) syncReviewRating(ctx context.Context, userID, movieID int, value *int) {
	review, err := s.reviews.GetReview(ctx, userID, movieID)
	if errors.Is(err, gateway.ErrNotFound) {
		return // 没有评论，无需同步
	}
	if err != nil {
		log.Printf("[Rating] 读取评论失败，跳过评分镜像同步 (user=%d movie=%d): %v", userID, movieID, err)
		return
	}

	review.Rating = value
	if err := s.reviews.UpsertReview(ctx, review); err != nil {
		log.Printf("[Rating] 同步评论评分失败 (user=%d movie=%d): %v", userID, movieID, err)
	}
}
