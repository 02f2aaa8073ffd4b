package service

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/user/cinelog/internal/model"
	"golang.org/x/sync/singleflight"
)

const topMoviesLimit = 10

// RankingMovieStore 榜单需要的电影查询能力
type RankingMovieStore interface {
	FindByIDs(ids []int) (map[int]*model.Movie, error)
	ListByReleaseProximity(today time.Time, limit int) ([]*model.Movie, error)
}

// RankingActivityStore 榜单需要的活动统计能力
type RankingActivityStore interface {
	TopMovieIDs(since time.Time, limit int) ([]*model.MovieActivity, error)
}

// RankingService 活动驱动的热门电影榜单
// 榜单按窗口期内活动量排序，不足 10 部时用上映日期最接近今天的电影补足。
// 计算结果作为不可变快照整体替换，读方永远看不到半更新状态。
type RankingService struct {
	movies       RankingMovieStore
	activity     RankingActivityStore
	window       time.Duration // 活动统计窗口
	refreshEvery time.Duration
	snapshot     atomic.Pointer[[]*model.Movie]
	sf           singleflight.Group
}

// NewRankingService 创建榜单服务
func NewRankingService(movies RankingMovieStore, activity RankingActivityStore) *RankingService {
	return &RankingService{
		movies:       movies,
		activity:     activity,
		window:       30 * 24 * time.Hour,
		refreshEvery: 12 * time.Hour,
	}
}

// Start 启动定时刷新任务
func (s *RankingService) Start() {
	ticker := time.NewTicker(s.refreshEvery)

	// 启动时先算一次
	go s.refresh()

	go func() {
		for range ticker.C {
			s.refresh()
		}
	}()
}

// TopMovies 获取当前榜单快照；快照尚未生成时同步计算一次
func (s *RankingService) TopMovies() []*model.Movie {
	if snap := s.snapshot.Load(); snap != nil {
		return *snap
	}

	// 冷启动：并发请求只算一次
	val, err, _ := s.sf.Do("top-movies", func() (interface{}, error) {
		return s.compute()
	})
	if err != nil {
		log.Printf("[Ranking] 榜单计算失败: %v", err)
		return nil
	}

	movies := val.([]*model.Movie)
	s.snapshot.Store(&movies)
	return movies
}

// refresh 重新计算榜单并整体替换快照
func (s *RankingService) refresh() {
	movies, err := s.compute()
	if err != nil {
		log.Printf("[Ranking] 榜单刷新失败，保留旧快照: %v", err)
		return
	}
	s.snapshot.Store(&movies)
	log.Printf("[Ranking] 榜单已刷新，共 %d 部电影", len(movies))
}

// compute 计算榜单
// 1. 窗口期内按活动量取前 10（同量时最近活动优先）
// 2. 不足 10 部时按上映日期与今天的距离补足，跳过已有条目
// 3. 完全没有活动时直接返回兜底列表
func (s *RankingService) compute() ([]*model.Movie, error) {
	now := time.Now()

	ranked, err := s.activity.TopMovieIDs(now.Add(-s.window), topMoviesLimit)
	if err != nil {
		return nil, err
	}

	var result []*model.Movie
	seen := make(map[int]bool)

	if len(ranked) > 0 {
		ids := make([]int, 0, len(ranked))
		for _, row := range ranked {
			ids = append(ids, row.MovieID)
		}

		byID, err := s.movies.FindByIDs(ids)
		if err != nil {
			return nil, err
		}

		// 保持活动量排序，跳过已被删除的电影
		for _, row := range ranked {
			if movie, ok := byID[row.MovieID]; ok {
				result = append(result, movie)
				seen[movie.ID] = true
			}
		}
	}

	// 兜底：上映日期最接近今天的电影
	if len(result) < topMoviesLimit {
		fallback, err := s.movies.ListByReleaseProximity(now, topMoviesLimit)
		if err != nil {
			return nil, err
		}
		for _, movie := range fallback {
			if len(result) >= topMoviesLimit {
				break
			}
			if seen[movie.ID] {
				continue
			}
			result = append(result, movie)
			seen[movie.ID] = true
		}
	}

	return result, nil
}
