package service

import (
	"fmt"
	"log"
	"time"

	"github.com/user/cinelog/internal/model"
)

// ActivityStore 活动记录存储
type ActivityStore interface {
	Create(record *model.ActivityRecord) error
	LatestByUser(userID, limit int) ([]*model.ActivityRecord, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

// ActivityService 活动记录器：把领域事件落为只增不改的本地活动记录
type ActivityService struct {
	store ActivityStore
}

// NewActivityService 创建活动记录器
func NewActivityService(store ActivityStore) *ActivityService {
	return &ActivityService{store: store}
}

// Record 根据领域事件追加一条活动记录
// 活动日志是副通道：任何失败只记日志，绝不影响触发它的主操作。
// 不做幂等去重，重复事件会产生重复记录。
func (s *ActivityService) Record(event model.ActivityEvent) {
	if err := s.record(event); err != nil {
		log.Printf("[Activity] 记录活动失败 (user=%d movie=%d type=%s): %v",
			event.UserID, event.MovieID, event.Type, err)
	}
}

func (s *ActivityService) record(event model.ActivityEvent) error {
	// 结构完整性校验，不做其他验证
	if event.UserID == 0 || event.MovieID == 0 || event.Type == "" {
		return fmt.Errorf("事件字段不完整: user=%d movie=%d type=%q",
			event.UserID, event.MovieID, event.Type)
	}

	record := &model.ActivityRecord{
		UserID:    event.UserID,
		MovieID:   event.MovieID,
		Type:      event.Type,
		Removed:   event.Removed,
		Rating:    event.Rating,
		CreatedOn: time.Now(),
	}
	return s.store.Create(record)
}

// LatestFive 获取用户最近 5 条活动记录，按时间倒序；没有记录时返回空列表
func (s *ActivityService) LatestFive(userID int) ([]*model.ActivityRecord, error) {
	records, err := s.store.LatestByUser(userID, 5)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*model.ActivityRecord{}
	}
	return records, nil
}

// PurgeOlderThan 删除早于 cutoff 的活动记录，返回删除条数
func (s *ActivityService) PurgeOlderThan(cutoff time.Time) (int64, error) {
	return s.store.DeleteOlderThan(cutoff)
}

// DistinctMovieIDs 提取记录集合中去重后的电影 ID，跳过缺失的电影 ID；输入为 nil 时返回空集
func DistinctMovieIDs(records []*model.ActivityRecord) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, r := range records {
		if r == nil || r.MovieID == 0 || seen[r.MovieID] {
			continue
		}
		seen[r.MovieID] = true
		ids = append(ids, r.MovieID)
	}
	return ids
}
