package repository

import (
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create 追加一条活动记录（只增不改）
func (r *ActivityRepository) Create(record *model.ActivityRecord) error {
	if record.CreatedOn.IsZero() {
		record.CreatedOn = time.Now()
	}
	return r.db.Create(record).Error
}

// LatestByUser 获取用户最近的活动记录，按时间倒序
func (r *ActivityRepository) LatestByUser(userID, limit int) ([]*model.ActivityRecord, error) {
	var records []*model.ActivityRecord
	err := r.db.Where("user_id = ?", userID).
		Order("created_on DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// TopMovieIDs 统计窗口期内活动量最高的电影
// 按活动条数倒序，活动量相同时最近有活动的排前面
func (r *ActivityRepository) TopMovieIDs(since time.Time, limit int) ([]*model.MovieActivity, error) {
	var rows []*model.MovieActivity
	err := r.db.Raw(`
		SELECT movie_id, COUNT(*) as count, MAX(created_on) as last_activity
		FROM activity_records
		WHERE created_on > $1
		GROUP BY movie_id
		ORDER BY count DESC, last_activity DESC
		LIMIT $2
	`, since, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteOlderThan 删除早于 cutoff 的活动记录，返回删除条数
// 边界不含等于 cutoff 的记录
func (r *ActivityRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Exec(`
		DELETE FROM activity_records
		WHERE created_on < $1
	`, cutoff)
	return result.RowsAffected, result.Error
}

// CountByUser 统计用户活动总数
func (r *ActivityRepository) CountByUser(userID int) (int64, error) {
	var count int64
	err := r.db.Model(&model.ActivityRecord{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
