package repository

import (
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchedRepository struct {
	db *gorm.DB
}

func NewWatchedRepository(db *gorm.DB) *WatchedRepository {
	return &WatchedRepository{db: db}
}

// Mark 标记为已看
func (r *WatchedRepository) Mark(userID, movieID int, watchedOn time.Time) error {
	record := &model.WatchedMovie{
		UserID:    userID,
		MovieID:   movieID,
		WatchedOn: watchedOn,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"watched_on"}),
	}).Create(record).Error
}

// Unmark 取消已看标记
func (r *WatchedRepository) Unmark(userID, movieID int) error {
	return r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&model.WatchedMovie{}).Error
}

// Contains 检查电影是否已看
func (r *WatchedRepository) Contains(userID, movieID int) (bool, error) {
	var count int64
	err := r.db.Model(&model.WatchedMovie{}).Where("user_id = ? AND movie_id = ?", userID, movieID).Count(&count).Error
	return count > 0, err
}

// ListByUser 获取用户的观影历史
func (r *WatchedRepository) ListByUser(userID, limit, offset int) ([]*model.WatchedMovie, error) {
	var records []*model.WatchedMovie
	err := r.db.Preload("Movie").
		Where("user_id = ?", userID).
		Order("watched_on DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	return records, err
}

// CountByUser 统计用户观影数量
func (r *WatchedRepository) CountByUser(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.WatchedMovie{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}
