package repository

import (
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// Add 添加到想看清单
func (r *WatchlistRepository) Add(userID, movieID int) error {
	item := &model.WatchlistItem{
		UserID:    userID,
		MovieID:   movieID,
		CreatedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(item).Error
}

// Remove 从想看清单移除
func (r *WatchlistRepository) Remove(userID, movieID int) error {
	return r.db.Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&model.WatchlistItem{}).Error
}

// Contains 检查电影是否在想看清单中
func (r *WatchlistRepository) Contains(userID, movieID int) (bool, error) {
	var count int64
	err := r.db.Model(&model.WatchlistItem{}).Where("user_id = ? AND movie_id = ?", userID, movieID).Count(&count).Error
	return count > 0, err
}

// ListByUser 获取用户的想看清单
func (r *WatchlistRepository) ListByUser(userID, limit, offset int) ([]*model.WatchlistItem, error) {
	var items []*model.WatchlistItem
	err := r.db.Preload("Movie").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

// CountByUser 统计用户想看清单数量
func (r *WatchlistRepository) CountByUser(userID int) (int, error) {
	var count int64
	err := r.db.Model(&model.WatchlistItem{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}
