package service

import (
	"time"

	"github.com/user/cinelog/internal/model"
)

// WatchlistStore 想看清单存储
type WatchlistStore interface {
	Add(userID, movieID int) error
	Remove(userID, movieID int) error
	Contains(userID, movieID int) (bool, error)
	ListByUser(userID, limit, offset int) ([]*model.WatchlistItem, error)
	CountByUser(userID int) (int, error)
}

// WatchedStore 已看记录存储
type WatchedStore interface {
	Mark(userID, movieID int, watchedOn time.Time) error
	Unmark(userID, movieID int) error
	Contains(userID, movieID int) (bool, error)
	ListByUser(userID, limit, offset int) ([]*model.WatchedMovie, error)
	CountByUser(userID int) (int, error)
}

// WatchService 想看清单与观影历史，动作成功后记录对应活动
type WatchService struct {
	watchlist WatchlistStore
	watched   WatchedStore
	activity  *ActivityService
}

// NewWatchService 创建观影服务
func NewWatchService(watchlist WatchlistStore, watched WatchedStore, activity *ActivityService) *WatchService {
	return &WatchService{
		watchlist: watchlist,
		watched:   watched,
		activity:  activity,
	}
}

// AddToWatchlist 添加到想看清单
func (s *WatchService) AddToWatchlist(userID, movieID int) error {
	if err := s.watchlist.Add(userID, movieID); err != nil {
		return err
	}
	s.activity.Record(model.ActivityEvent{
		UserID:  userID,
		MovieID: movieID,
		Type:    model.ActivityAddedWatchlist,
		Removed: false,
	})
	return nil
}

// RemoveFromWatchlist 从想看清单移除
func (s *WatchService) RemoveFromWatchlist(userID, movieID int) error {
	if err := s.watchlist.Remove(userID, movieID); err != nil {
		return err
	}
	s.activity.Record(model.ActivityEvent{
		UserID:  userID,
		MovieID: movieID,
		Type:    model.ActivityAddedWatchlist,
		Removed: true,
	})
	return nil
}

// MarkWatched 标记为已看
func (s *WatchService) MarkWatched(userID, movieID int, watchedOn time.Time) error {
	if watchedOn.IsZero() {
		watchedOn = time.Now()
	}
	if err := s.watched.Mark(userID, movieID, watchedOn); err != nil {
		return err
	}

	s.activity.Record(model.ActivityEvent{
		UserID:  userID,
		MovieID: movieID,
		Type:    model.ActivityWatched,
		Removed: false,
	})
	return nil
}

// UnmarkWatched 取消已看标记
func (s *WatchService) UnmarkWatched(userID, movieID int) error {
	if err := s.watched.Unmark(userID, movieID); err != nil {
		return err
	}
	s.activity.Record(model.ActivityEvent{
		UserID:  userID,
		MovieID: movieID,
		Type:    model.ActivityWatched,
		Removed: true,
	})
	return nil
}

// Watchlist 获取用户的想看清单
func (s *WatchService) Watchlist(userID, limit, offset int) ([]*model.WatchlistItem, error) {
	return s.watchlist.ListByUser(userID, limit, offset)
}

// History 获取用户的观影历史
func (s *WatchService) History(userID, limit, offset int) ([]*model.WatchedMovie, error) {
	return s.watched.ListByUser(userID, limit, offset)
}

// Counts 统计用户的想看/已看数量
func (s *WatchService) Counts(userID int) (watchlist, watched int) {
	watchlist, _ = s.watchlist.CountByUser(userID)
	watched, _ = s.watched.CountByUser(userID)
	return watchlist, watched
}
