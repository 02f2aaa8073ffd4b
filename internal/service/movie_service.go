package service

import (
	"context"

	"github.com/user/cinelog/internal/model"
	"golang.org/x/sync/errgroup"
)

// MovieStore 电影详情页需要的电影查询能力
type MovieStore interface {
	FindByID(id int) (*model.Movie, error)
}

// CreditStore 电影详情页需要的参与影人查询能力
type CreditStore interface {
	ListByMovie(movieID int) ([]*model.Credit, error)
}

// MoviePage 电影详情页聚合数据：本地目录/观影状态 + 远端评分评论
type MoviePage struct {
	Movie         *model.Movie
	Credits       []*model.Credit
	RatingStats   *model.MovieRatingStats
	ReviewStats   *model.MovieReviewStats
	LatestReviews []model.RemoteReview
	UserRating    *int
	UserReview    *model.RemoteReview
	InWatchlist   bool
	Watched       bool
}

// MovieService 电影详情页聚合服务
type MovieService struct {
	movies    MovieStore
	credits   CreditStore
	watchlist WatchlistStore
	watched   WatchedStore
	ratingSvc *RatingService
	reviewSvc *ReviewService
}

// NewMovieService 创建电影聚合服务
func NewMovieService(
	movies MovieStore,
	credits CreditStore,
	watchlist WatchlistStore,
	watched WatchedStore,
	ratingSvc *RatingService,
	reviewSvc *ReviewService,
) *MovieService {
	return &MovieService{
		movies:    movies,
		credits:   credits,
		watchlist: watchlist,
		watched:   watched,
		ratingSvc: ratingSvc,
		reviewSvc: reviewSvc,
	}
}

// BuildMoviePage 组装电影详情页数据
// 远端调用互相独立，并发发起后汇合；每个调用都带超时，
// 超时或失败按“无数据”处理（次要信息宁缺毋假错）。
// userID 为 0 表示未登录，跳过个人状态查询。
func (s *MovieService) BuildMoviePage(ctx context.Context, movieID, userID int) (*MoviePage, error) {
	movie, err := s.movies.FindByID(movieID)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, nil
	}

	page := &MoviePage{Movie: movie}

	credits, err := s.credits.ListByMovie(movieID)
	if err == nil {
		page.Credits = credits
	}

	// 远端数据并发获取；各调用内部已经吞掉了故障，这里不会返回错误
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page.RatingStats = s.ratingSvc.GetMovieStats(gctx, movieID)
		return nil
	})
	g.Go(func() error {
		page.ReviewStats = s.reviewSvc.GetMovieStats(gctx, movieID)
		return nil
	})
	g.Go(func() error {
		page.LatestReviews = s.reviewSvc.GetLatestReviews(gctx, movieID)
		return nil
	})

	if userID > 0 {
		g.Go(func() error {
			page.UserRating = s.ratingSvc.GetRating(gctx, userID, movieID)
			return nil
		})
		g.Go(func() error {
			page.UserReview = s.reviewSvc.GetReview(gctx, userID, movieID)
			return nil
		})
	}

	_ = g.Wait()

	// 本地观影状态
	if userID > 0 {
		page.InWatchlist, _ = s.watchlist.Contains(userID, movieID)
		page.Watched, _ = s.watched.Contains(userID, movieID)
	}

	return page, nil
}
