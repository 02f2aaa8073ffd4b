package model

import (
	"time"
)

// User 用户模型
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email" gorm:"unique"`
	Username     string    `json:"username" db:"username" gorm:"unique"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// SessionUser 专门用于 Session 存储的用户信息结构
type SessionUser struct {
	ID       int
	Email    string
	Username string
	Role     string
}

// WatchlistItem 想看清单条目
type WatchlistItem struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id" gorm:"uniqueIndex:idx_watchlist_user_movie"`
	MovieID   int       `json:"movie_id" db:"movie_id" gorm:"uniqueIndex:idx_watchlist_user_movie"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Movie     *Movie    `json:"movie,omitempty"` // 关联查询时填充
}

// WatchedMovie 已看记录
type WatchedMovie struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id" gorm:"uniqueIndex:idx_watched_user_movie"`
	MovieID   int       `json:"movie_id" db:"movie_id" gorm:"uniqueIndex:idx_watched_user_movie"`
	WatchedOn time.Time `json:"watched_on" db:"watched_on"`
	Movie     *Movie    `json:"movie,omitempty"` // 关联查询时填充
}
