package model

import (
	"time"
)

// 活动类型
const (
	ActivityRated          = "RATED"
	ActivityWatched        = "WATCHED"
	ActivityReviewed       = "REVIEWED"
	ActivityAddedWatchlist = "ADDED_TO_WATCHLIST"
)

// ActivityRecord 用户活动记录（只增不改）
// “撤销”类动作（取消评分、取消想看等）会追加一条 Removed=true 的新记录，
// 绝不修改或删除已有记录。仅由保留期清理任务删除过期数据。
type ActivityRecord struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id" gorm:"index"`
	MovieID   int       `json:"movie_id" db:"movie_id" gorm:"index"`
	Type      string    `json:"type" db:"type"`
	Removed   bool      `json:"removed" db:"removed"`
	Rating    *int      `json:"rating" db:"rating"`
	CreatedOn time.Time `json:"created_on" db:"created_on" gorm:"index"`
}

// ActivityEvent 领域事件，由评分/评论/观影等动作产生，交给活动记录器落库
type ActivityEvent struct {
	UserID  int
	MovieID int
	Type    string
	Removed bool
	Rating  *int
}

// MovieActivity 活动榜单聚合行（按电影统计的活动量）
type MovieActivity struct {
	MovieID      int       `json:"movie_id" db:"movie_id"`
	Count        int       `json:"count" db:"count"`
	LastActivity time.Time `json:"last_activity" db:"last_activity"`
}
